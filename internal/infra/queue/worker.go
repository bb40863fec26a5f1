package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Worker drains the notification queue into a delivery backend, usually the
// SMTP sender.
type Worker struct {
	Channel  consumer
	Delivery usecase.Notifier
}

func NewWorker(ch *amqp.Channel, delivery usecase.Notifier) *Worker {
	return &Worker{Channel: ch, Delivery: delivery}
}

// Start consumes until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	log.Printf("📬 [WORKER] consuming %s", queueName)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	if err := w.process(ctx, d.Body); err != nil {
		log.Printf("❌ [WORKER] %v", err)
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

func (w *Worker) process(ctx context.Context, body []byte) error {
	var n usecase.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if n.To == "" {
		return fmt.Errorf("notification %s has no recipient", n.Kind)
	}

	if err := w.Delivery.Notify(ctx, n); err != nil {
		return fmt.Errorf("deliver %s to %s: %w", n.Kind, n.To, err)
	}
	log.Printf("✅ [WORKER] %s sent to %s", n.Kind, n.To)
	return nil
}
