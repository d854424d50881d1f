package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"outfit-server/shared/interfaces"
	"outfit-server/shared/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ interfaces.SessionRepository = (*redisSessionRepository)(nil)

const (
	lockRetryInterval = 50 * time.Millisecond
	unlockTimeout     = 2 * time.Second
)

// unlockScript удаляет ключ блокировки, только если им владеет вызывающий.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type redisSessionRepository struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
	logger  *zap.Logger
}

// NewRedisSessionRepository создает хранилище снапшотов сессий в Redis.
// Каждое сохранение продлевает TTL сессии. lockTTL ограничивает время удержания
// блокировки хода и одновременно время ожидания конкурирующего запроса.
func NewRedisSessionRepository(client *redis.Client, ttl, lockTTL time.Duration, logger *zap.Logger) interfaces.SessionRepository {
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	return &redisSessionRepository{
		client:  client,
		ttl:     ttl,
		lockTTL: lockTTL,
		logger:  logger.Named("RedisSessionRepo"),
	}
}

func sessionKey(userID uuid.UUID, sessionID string) string {
	return fmt.Sprintf("guided_look:%s:%s", userID.String(), sessionID)
}

func sessionLockKey(userID uuid.UUID, sessionID string) string {
	return fmt.Sprintf("guided_look_lock:%s:%s", userID.String(), sessionID)
}

// Get возвращает снапшот сессии или models.ErrNotFound.
func (r *redisSessionRepository) Get(ctx context.Context, userID uuid.UUID, sessionID string) (*models.WorkflowSnapshot, error) {
	key := sessionKey(userID, sessionID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to read session snapshot", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to read session snapshot: %w", err)
	}

	var snapshot models.WorkflowSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		r.logger.Error("Failed to decode session snapshot", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to decode session snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save сохраняет снапшот под ключом guided_look:{userID}:{sessionID}.
func (r *redisSessionRepository) Save(ctx context.Context, userID uuid.UUID, snapshot *models.WorkflowSnapshot) error {
	if snapshot == nil || snapshot.SessionID == "" {
		return fmt.Errorf("%w: snapshot without session id", models.ErrInvalidInput)
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}

	key := sessionKey(userID, snapshot.SessionID)
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session snapshot", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	r.logger.Debug("Session snapshot saved", zap.String("key", key), zap.String("status", string(snapshot.Status)))
	return nil
}

// Lock берет блокировку SET NX с уникальным владельцем и ждет ее освобождения
// не дольше lockTTL. Истекший TTL снимает блокировку упавшего процесса.
func (r *redisSessionRepository) Lock(ctx context.Context, userID uuid.UUID, sessionID string) (func(), error) {
	key := sessionLockKey(userID, sessionID)
	owner := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, r.lockTTL)
	defer cancel()
	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		acquired, err := r.client.SetNX(waitCtx, key, owner, r.lockTTL).Result()
		if err != nil && waitCtx.Err() == nil {
			r.logger.Error("Failed to acquire session lock", zap.String("key", key), zap.Error(err))
			return nil, fmt.Errorf("failed to acquire session lock: %w", err)
		}
		if acquired {
			r.logger.Debug("Session lock acquired", zap.String("key", key))
			return r.unlockFunc(ctx, key, owner), nil
		}

		select {
		case <-waitCtx.Done():
			// Отмена запроса клиентом не является конфликтом
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("Session lock wait timed out", zap.String("key", key))
			return nil, fmt.Errorf("%w: session %s is being processed", models.ErrConflict, sessionID)
		case <-ticker.C:
		}
	}
}

func (r *redisSessionRepository) unlockFunc(ctx context.Context, key, owner string) func() {
	return func() {
		// Освобождаем даже если контекст запроса уже отменен
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
		defer cancel()
		if err := unlockScript.Run(unlockCtx, r.client, []string{key}, owner).Err(); err != nil {
			r.logger.Warn("Failed to release session lock", zap.String("key", key), zap.Error(err))
		}
	}
}
