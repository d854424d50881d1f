package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"outfit-server/shared/interfaces"
	sharedLogger "outfit-server/shared/logger"
	"outfit-server/shared/messaging"
	"outfit-server/shared/models"
)

var (
	tasksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closet_worker_tasks_processed_total",
			Help: "Total number of closet save tasks processed.",
		},
		[]string{"status"}, // saved, duplicate, quota_exceeded, invalid, error
	)
	taskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "closet_worker_task_duration_seconds",
		Help:    "Duration of closet save task processing.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
	})
)

// QuotaFunc возвращает лимит гардероба для тарифа.
type QuotaFunc func(tier string) int

// MetricsPusher отправляет метрики в Pushgateway.
type MetricsPusher interface {
	Push() error
}

// Handler сохраняет предметы из очереди в гардероб с учетом квоты тарифа.
type Handler struct {
	logger *zap.Logger
	closet interfaces.ClosetRepository
	quota  QuotaFunc
	pusher MetricsPusher
}

// NewHandler создает обработчик. pusher может быть nil, тогда метрики не отправляются.
func NewHandler(logger *zap.Logger, closet interfaces.ClosetRepository, quota QuotaFunc, pusher MetricsPusher) *Handler {
	return &Handler{
		logger: logger.Named("ClosetWorker"),
		closet: closet,
		quota:  quota,
		pusher: pusher,
	}
}

// NewPusher создает Pushgateway pusher с группировкой по hostname.
// Для пустого URL возвращает nil.
func NewPusher(pushGatewayURL string, logger *zap.Logger) MetricsPusher {
	if pushGatewayURL == "" {
		logger.Info("PUSHGATEWAY_URL is empty, metrics push disabled")
		return nil
	}
	hostname, _ := os.Hostname()
	logger.Info("Prometheus Pusher initialized", zap.String("url", pushGatewayURL), zap.String("instance", hostname))
	return push.New(pushGatewayURL, "closet-worker").
		Grouping("instance", hostname).
		Gatherer(prometheus.DefaultGatherer)
}

// HandleDelivery обрабатывает одно сообщение.
// Возвращает true, если сообщение нужно подтвердить (ack), и false для nack с requeue.
func (h *Handler) HandleDelivery(ctx context.Context, msg amqp091.Delivery) bool {
	start := time.Now()
	defer func() {
		taskDuration.Observe(time.Since(start).Seconds())
		if h.pusher == nil {
			return
		}
		if err := h.pusher.Push(); err != nil {
			h.logger.Error("Failed to push metrics to Pushgateway", zap.Error(err))
		}
	}()

	var payload messaging.ClosetSaveTaskPayload
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		h.logger.Error("Failed to unmarshal closet save task, dropping", zap.String("correlation_id", msg.CorrelationId), zap.Error(err))
		tasksProcessed.WithLabelValues("invalid").Inc()
		return true
	}

	status, err := h.Process(ctx, payload)
	tasksProcessed.WithLabelValues(status).Inc()
	return err == nil || !isRetryable(err)
}

// Process сохраняет предмет и возвращает метку статуса для метрик.
func (h *Handler) Process(ctx context.Context, payload messaging.ClosetSaveTaskPayload) (string, error) {
	log := h.logger.With(append(sharedLogger.SessionFields(payload.UserID, payload.SessionID),
		zap.String("taskID", payload.TaskID),
		zap.String("itemID", payload.Item.ID.String()),
		zap.String("tier", payload.Tier),
	)...)

	if err := payload.Validate(); err != nil {
		log.Warn("Invalid closet save task, dropping", zap.Error(err))
		return "invalid", err
	}

	count, err := h.closet.CountByUser(ctx, payload.UserID)
	if err != nil {
		log.Error("Failed to count closet items", zap.Error(err))
		return "error", err
	}
	limit := h.quota(payload.Tier)
	if count >= limit {
		log.Warn("Closet quota exceeded, dropping task", zap.Int("count", count), zap.Int("limit", limit))
		return "quota_exceeded", models.ErrClosetQuotaExceeded
	}

	item := payload.Item
	item.SavedToCloset = true
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	inserted, err := h.closet.Save(ctx, &item)
	if err != nil {
		log.Error("Failed to save closet item", zap.Error(err))
		return "error", err
	}
	if !inserted {
		log.Info("Closet item already saved")
		return "duplicate", nil
	}
	log.Info("Closet item saved", zap.Int("count", count+1), zap.Int("limit", limit))
	return "saved", nil
}

// isRetryable: некорректные задачи и превышение квоты не повторяются.
func isRetryable(err error) bool {
	return !errors.Is(err, models.ErrInvalidInput) && !errors.Is(err, models.ErrClosetQuotaExceeded)
}
