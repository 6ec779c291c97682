package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DeclareQueue declares the durable queue shared by the API and the email
// worker. Both sides must declare it with the same arguments.
func DeclareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declaring queue %s: %w", name, err)
	}
	return nil
}

// RabbitPublisher publishes JSON jobs to one queue over the default exchange.
// It is safe for concurrent use.
type RabbitPublisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
	AppID string
}

func NewRabbitPublisher(url, queue, appID string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}
	if err := DeclareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, Queue: queue, AppID: appID}, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON publishes body as a persistent message on the queue.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	msg, err := jsonMessage(body, p.AppID, time.Now())
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, "", p.Queue, false, false, msg)
}

func jsonMessage(body any, appID string, now time.Time) (amqp.Publishing, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encoding job: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		AppId:        appID,
		Timestamp:    now.UTC(),
		Body:         b,
	}, nil
}
