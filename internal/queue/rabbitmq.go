// internal/queue/rabbitmq.go
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stratum-labs/stratum/internal/config"
	"github.com/stratum-labs/stratum/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ publishes run and task status events so external consumers
// can observe plan execution without polling the API.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  config.RabbitMQConfig
}

func NewRabbitMQ(cfg config.RabbitMQConfig) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open status channel: %w", err)
	}

	rmq := &RabbitMQ{
		conn:    conn,
		channel: ch,
		config:  cfg,
	}

	if err := rmq.setupQueue(); err != nil {
		rmq.Close()
		return nil, fmt.Errorf("failed to setup status queue: %w", err)
	}

	return rmq, nil
}

func (r *RabbitMQ) setupQueue() error {
	// Status messages expire after 72 hours
	args := make(amqp.Table)
	args["x-message-ttl"] = 72 * 60 * 60 * 1000

	_, err := r.channel.QueueDeclare(
		r.config.StatusQueue, // name
		true,                 // durable
		false,                // delete when unused
		false,                // exclusive
		false,                // no-wait
		args,                 // arguments - including TTL
	)
	return err
}

// PublishStatus sends a status message to the status queue
func (r *RabbitMQ) PublishStatus(ctx context.Context, status *models.StatusMessage) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	return r.channel.PublishWithContext(ctx,
		"",                   // exchange
		r.config.StatusQueue, // routing key
		false,                // mandatory
		false,                // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         data,
			DeliveryMode: amqp.Persistent,
		},
	)
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	return r.conn.Close()
}
