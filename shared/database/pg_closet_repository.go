package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"outfit-server/shared/interfaces"
	"outfit-server/shared/models"
	"outfit-server/shared/utils"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	insertClosetItemQuery = `
		INSERT INTO closet_items (id, user_id, session_id, image_url, category, color, tags, seasons, metadata, is_ai_generated, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING` // ID детерминирован, повторная доставка не создает дубль

	countClosetItemsQuery = `SELECT COUNT(*) FROM closet_items WHERE user_id = $1`

	listClosetItemsQuery = `
		SELECT id, user_id, COALESCE(session_id, '') AS session_id, image_url, metadata, is_ai_generated, created_at
		FROM closet_items
		WHERE user_id = $1`

	listClosetItemsOrder = ` ORDER BY created_at DESC, id DESC LIMIT $%d`
)

// closetItemRow - строка closet_items для pgxscan.
type closetItemRow struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	SessionID     string    `db:"session_id"`
	ImageURL      string    `db:"image_url"`
	Metadata      []byte    `db:"metadata"`
	IsAIGenerated bool      `db:"is_ai_generated"`
	CreatedAt     time.Time `db:"created_at"`
}

type pgClosetRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

var _ interfaces.ClosetRepository = (*pgClosetRepository)(nil)

// NewPgClosetRepository создает PostgreSQL реализацию ClosetRepository.
func NewPgClosetRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ClosetRepository {
	return &pgClosetRepository{
		db:     db,
		logger: logger.Named("PgClosetRepo"),
	}
}

// Save сохраняет предмет в гардероб. Повторный ID игнорируется.
func (r *pgClosetRepository) Save(ctx context.Context, item *models.ClothingItem) (bool, error) {
	logFields := []zap.Field{
		zap.String("itemID", item.ID.String()),
		zap.String("userID", item.UserID.String()),
	}
	metadataJSON, err := json.Marshal(item.Metadata)
	if err != nil {
		return false, fmt.Errorf("failed to marshal item metadata: %w", err)
	}
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tag, err := r.db.Exec(ctx, insertClosetItemQuery,
		item.ID,
		item.UserID,
		item.SessionID,
		item.ImageURL,
		item.Metadata.Category,
		item.Metadata.Color,
		pq.Array(item.Metadata.Tags),
		pq.Array(item.Metadata.Seasons),
		metadataJSON,
		item.IsAIGenerated,
		createdAt,
	)
	if err != nil {
		r.logger.Error("Failed to save closet item", append(logFields, zap.Error(err))...)
		return false, fmt.Errorf("failed to save closet item: %w", err)
	}
	// 0 строк - предмет уже был сохранен раньше
	if tag.RowsAffected() == 0 {
		r.logger.Info("Closet item already saved", logFields...)
		return false, nil
	}
	r.logger.Info("Closet item saved", logFields...)
	return true, nil
}

// CountByUser возвращает количество предметов в гардеробе пользователя.
func (r *pgClosetRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, countClosetItemsQuery, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count closet items", zap.String("userID", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to count closet items: %w", err)
	}
	return count, nil
}

// ListByUser возвращает предметы пользователя, новые первыми, с курсорной пагинацией.
// Второй результат - курсор следующей страницы или пустая строка.
func (r *pgClosetRepository) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]models.ClothingItem, string, error) {
	log := r.logger.With(zap.String("userID", userID.String()), zap.String("cursor", cursor), zap.Int("limit", limit))
	if limit <= 0 {
		limit = 20
	}

	cursorTime, cursorID, err := utils.DecodeCursor(cursor)
	if err != nil {
		log.Warn("Invalid closet cursor", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	query := listClosetItemsQuery
	args := []interface{}{userID}
	if cursor != "" {
		query += " AND (created_at, id) < ($2, $3)"
		args = append(args, cursorTime, cursorID)
	}
	// Берем на одну запись больше, чтобы понять, есть ли следующая страница
	args = append(args, limit+1)
	query += fmt.Sprintf(listClosetItemsOrder, len(args))

	var rows []closetItemRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		log.Error("Failed to list closet items", zap.Error(err))
		return nil, "", fmt.Errorf("failed to list closet items: %w", err)
	}

	var nextCursor string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = utils.EncodeCursor(last.CreatedAt, last.ID)
	}

	items := make([]models.ClothingItem, 0, len(rows))
	for _, row := range rows {
		item := models.ClothingItem{
			ID:            row.ID,
			UserID:        row.UserID,
			SessionID:     row.SessionID,
			ImageURL:      row.ImageURL,
			IsAIGenerated: row.IsAIGenerated,
			SavedToCloset: true,
			CreatedAt:     row.CreatedAt,
		}
		// Битая строка не должна ломать всю страницу
		if err := json.Unmarshal(row.Metadata, &item.Metadata); err != nil {
			log.Warn("Corrupted closet item metadata, skipping", zap.String("itemID", row.ID.String()), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nextCursor, nil
}
