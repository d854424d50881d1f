package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DeliveryHandler обрабатывает сообщение и решает, подтверждать ли его.
type DeliveryHandler interface {
	HandleDelivery(ctx context.Context, msg amqp091.Delivery) bool
}

// Consumer читает очередь задач с QoS 1 и ручным подтверждением,
// переподключаясь при разрыве соединения.
type Consumer struct {
	url            string
	queueName      string
	consumerName   string
	handler        DeliveryHandler
	logger         *zap.Logger
	reconnectDelay time.Duration
}

// NewConsumer создает консьюмер; соединение открывается в Run.
func NewConsumer(url, queueName, consumerName string, handler DeliveryHandler, logger *zap.Logger) *Consumer {
	return &Consumer{
		url:            url,
		queueName:      queueName,
		consumerName:   consumerName,
		handler:        handler,
		logger:         logger.Named("Consumer").With(zap.String("queue", queueName)),
		reconnectDelay: 5 * time.Second,
	}
}

// Run блокируется до отмены ctx.
func (c *Consumer) Run(ctx context.Context) {
	for attempt := 1; ; attempt++ {
		err := c.consumeOnce(ctx)
		if ctx.Err() != nil {
			c.logger.Info("Context cancelled, consumer stopped")
			return
		}
		c.logger.Warn("Consumer interrupted, reconnecting", zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-time.After(c.reconnectDelay):
		case <-ctx.Done():
			c.logger.Info("Context cancelled, consumer stopped")
			return
		}
	}
}

func (c *Consumer) consumeOnce(ctx context.Context) error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	// Очередь durable, параметры совпадают с объявлением на стороне издателя
	q, err := ch.QueueDeclare(c.queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", c.queueName, err)
	}
	// Одна задача за раз: проверка квоты и вставка не должны гоняться между собой
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	// autoAck=false: подтверждаем только после обработки
	msgs, err := ch.Consume(q.Name, c.consumerName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}
	c.logger.Info("Consumer started, waiting for messages...", zap.Int("messages", q.Messages))

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				// Канал закрывается при разрыве соединения, Run переподключится
				return fmt.Errorf("delivery channel closed")
			}
			if c.handler.HandleDelivery(ctx, msg) {
				if ackErr := msg.Ack(false); ackErr != nil {
					c.logger.Error("Failed to ack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
				}
			} else if nackErr := msg.Nack(false, true); nackErr != nil { // requeue для временных ошибок
				c.logger.Error("Failed to nack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
