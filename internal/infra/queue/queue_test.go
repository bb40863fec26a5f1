package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type fakePublisher struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

type recordingNotifier struct {
	got []usecase.Notification
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, n usecase.Notification) error {
	r.got = append(r.got, n)
	return r.err
}

type fakeAcker struct {
	acked, nacked, requeued bool
}

func (a *fakeAcker) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *fakeAcker) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}
func (a *fakeAcker) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}

type fakeConsumer struct {
	ch chan amqp.Delivery
}

func (f *fakeConsumer) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.ch, nil
}

func TestProducerPublishesPersistentJSON(t *testing.T) {
	pub := &fakePublisher{}
	p := &Producer{Ch: pub}

	n := usecase.Notification{Kind: usecase.NotifyEmailOTP, To: "ana@example.com", Data: map[string]string{"code": "111222"}}
	require.NoError(t, p.Notify(context.Background(), n))

	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, RoutingKey, pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "email_otp", pub.msg.Type)

	var decoded usecase.Notification
	require.NoError(t, json.Unmarshal(pub.msg.Body, &decoded))
	assert.Equal(t, n, decoded)
}

func TestProducerWrapsPublishError(t *testing.T) {
	p := &Producer{Ch: &fakePublisher{err: amqp.ErrClosed}}
	err := p.Notify(context.Background(), usecase.Notification{Kind: usecase.NotifyNewsletter, To: "x@example.com"})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestWorkerAcksDeliveredMessages(t *testing.T) {
	sink := &recordingNotifier{}
	w := &Worker{Delivery: sink}
	acker := &fakeAcker{}

	body, _ := json.Marshal(usecase.Notification{Kind: usecase.NotifyNewsletter, To: "x@example.com"})
	w.handle(context.Background(), amqp.Delivery{Acknowledger: acker, Body: body})

	assert.True(t, acker.acked)
	assert.False(t, acker.nacked)
	require.Len(t, sink.got, 1)
	assert.Equal(t, "x@example.com", sink.got[0].To)
}

func TestWorkerDeadLettersFailures(t *testing.T) {
	cases := map[string]struct {
		body []byte
		err  error
	}{
		"malformed json":    {body: []byte("{not json")},
		"missing recipient": {body: []byte(`{"kind":"newsletter_welcome"}`)},
		"delivery failure":  {body: []byte(`{"kind":"newsletter_welcome","to":"x@example.com"}`), err: errors.New("smtp down")},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := &Worker{Delivery: &recordingNotifier{err: tc.err}}
			acker := &fakeAcker{}
			w.handle(context.Background(), amqp.Delivery{Acknowledger: acker, Body: tc.body})

			assert.False(t, acker.acked)
			assert.True(t, acker.nacked)
			assert.False(t, acker.requeued)
		})
	}
}

func TestWorkerStartStopsOnCancel(t *testing.T) {
	msgs := make(chan amqp.Delivery, 1)
	sink := &recordingNotifier{}
	w := &Worker{Channel: &fakeConsumer{ch: msgs}, Delivery: sink}

	body, _ := json.Marshal(usecase.Notification{Kind: usecase.NotifyNewsletter, To: "x@example.com"})
	msgs <- amqp.Delivery{Acknowledger: &fakeAcker{}, Body: body}
	close(msgs)

	require.NoError(t, w.Start(context.Background(), QueueName))
	assert.Len(t, sink.got, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w2 := &Worker{Channel: &fakeConsumer{ch: make(chan amqp.Delivery)}, Delivery: sink}
	assert.NoError(t, w2.Start(ctx, QueueName))
}
