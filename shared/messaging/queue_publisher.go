package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrPublisherClosed возвращается при публикации в закрытый канал.
var ErrPublisherClosed = errors.New("publisher channel is closed")

// QueuePublisher публикует JSON-сообщения напрямую в durable-очередь
// через default exchange.
type QueuePublisher struct {
	ch        *amqp091.Channel
	queueName string
	logger    *zap.Logger
	mu        sync.Mutex
}

// NewQueuePublisher открывает канал и объявляет очередь.
func NewQueuePublisher(conn *amqp091.Connection, queueName string, logger *zap.Logger) (*QueuePublisher, error) {
	if conn == nil {
		return nil, errors.New("rabbitmq connection is nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name is empty")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for publisher: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	log := logger.Named("QueuePublisher").With(zap.String("queue", queueName))
	log.Info("RabbitMQ publisher initialized")

	return &QueuePublisher{
		ch:        ch,
		queueName: queueName,
		logger:    log,
	}, nil
}

// Publish сериализует payload и отправляет его как persistent-сообщение.
func (p *QueuePublisher) Publish(ctx context.Context, payload interface{}, correlationID string) error {
	// amqp канал не потокобезопасен для публикации
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return ErrPublisherClosed
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		"",          // default exchange
		p.queueName, // routing key = имя очереди
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:   "application/json",
			CorrelationId: correlationID,
			Body:          body,
			DeliveryMode:  amqp091.Persistent,
			Timestamp:     time.Now().UTC(),
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish message", zap.String("correlation_id", correlationID), zap.Error(err))
		return fmt.Errorf("failed to publish message: %w", err)
	}
	p.logger.Debug("Message published", zap.String("correlation_id", correlationID))
	return nil
}

// Close закрывает канал. Повторный вызов безопасен.
func (p *QueuePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		err := p.ch.Close()
		p.ch = nil
		return err
	}
	return nil
}
