package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/register4u/inventory-service/internal/domain/inventory"
)

const correctionMessageType = "room_status_corrected"

// RabbitMQPublisher emits room-status correction events so downstream
// consumers (notification workers, audit trail) see every repair the
// reconciler makes.
type RabbitMQPublisher struct {
	conn         *amqp.Connection
	ch           *amqp.Channel
	primaryQueue string
	maxAttempts  int
}

type correctionMessage struct {
	ID   string               `json:"id"`
	Type string               `json:"type"`
	Data inventory.Correction `json:"data"`
}

func DialRabbitMQ(host string, port int, username, password string) (*amqp.Connection, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", username, password, host, port)
	return amqp.Dial(url)
}

func NewRabbitMQPublisher(amqpConnection *amqp.Connection, queueName string, maxAttempts int) (*RabbitMQPublisher, error) {
	amqpChannel, err := amqpConnection.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := amqpChannel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		_ = amqpChannel.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	if err := amqpChannel.Confirm(false); err != nil {
		_ = amqpChannel.Close()
		return nil, fmt.Errorf("failed to enable publish confirms: %w", err)
	}

	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	return &RabbitMQPublisher{
		conn:         amqpConnection,
		ch:           amqpChannel,
		primaryQueue: queueName,
		maxAttempts:  maxAttempts,
	}, nil
}

func (p *RabbitMQPublisher) PublishCorrections(ctx context.Context, corrections []inventory.Correction) error {
	if len(corrections) == 0 {
		return nil
	}

	messages := make([]correctionMessage, len(corrections))
	for i, correction := range corrections {
		messages[i] = correctionMessage{
			ID:   uuid.New().String(),
			Type: correctionMessageType,
			Data: correction,
		}
	}

	return p.publishWithRetry(ctx, messages)
}

func (p *RabbitMQPublisher) publishBatch(ctx context.Context, messages []correctionMessage) error {
	for _, message := range messages {
		b, _ := json.Marshal(message)
		pub := amqp.Publishing{ContentType: "application/json", Body: b, DeliveryMode: amqp.Persistent, Timestamp: time.Now()}
		if err := p.ch.PublishWithContext(ctx, "", p.primaryQueue, false, false, pub); err != nil {
			return err
		}
	}
	return nil
}

func (p *RabbitMQPublisher) publishWithRetry(ctx context.Context, messages []correctionMessage) error {
	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err = p.publishBatch(ctx, messages)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context canceled: %w", err)
		case <-time.After(p.backoffDelay(attempt)):
		}
	}
	return fmt.Errorf("publish failed after %d attempts: %w", p.maxAttempts, err)
}

func (p *RabbitMQPublisher) backoffDelay(attempt int) time.Duration {
	switch attempt {
	case 1:
		return 1 * time.Second
	case 2:
		return 5 * time.Second
	case 3:
		return 30 * time.Second
	default:
		return 2 * time.Minute
	}
}

func (p *RabbitMQPublisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
