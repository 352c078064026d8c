package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Enqueuer is what the gateway depends on; tests substitute a recorder.
type Enqueuer interface {
	EnqueuePersist(job PersistJob) error
	EnqueueNotify(job NotifyJob) error
}

// Client publishes jobs to and consumes jobs from the MEETUP_JOBS stream.
type Client struct {
	js jetstream.JetStream
}

// NewClient builds a JetStream client and makes sure the work-queue stream
// exists. WorkQueue retention removes a job once a consumer acks it.
func NewClient(ctx context.Context, nc *nats.Conn) (*Client, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, err
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{"jobs.>"},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
		MaxAge:    24 * time.Hour,
	})
	if err != nil {
		return nil, err
	}

	return &Client{js: js}, nil
}

func (c *Client) publish(subject string, job interface{}) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	// JetStream retries delivery to consumers, not publication; a failed
	// publish surfaces here for callers to report.
	_, err = c.js.Publish(context.Background(), subject, data)
	return err
}

func (c *Client) EnqueuePersist(job PersistJob) error {
	return c.publish(SubjectPersist, job)
}

func (c *Client) EnqueueNotify(job NotifyJob) error {
	return c.publish(SubjectNotify, job)
}

// Handler processes one decoded job payload. Returning an error triggers a
// Nak so the queue redelivers; nil acks the job.
type Handler func(data []byte) error

// Consume starts a durable consumer for one job subject and feeds every
// delivery through handler. The returned stop function drains the consumer.
func (c *Client) Consume(ctx context.Context, durable, subject string, handler Handler) (func(), error) {
	stream, err := c.js.Stream(ctx, StreamName)
	if err != nil {
		return nil, err
	}

	cons, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       durable,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		MaxDeliver:    MaxDeliver,
		BackOff: []time.Duration{
			2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second,
		},
	})
	if err != nil {
		return nil, err
	}

	cc, err := cons.Consume(func(msg jetstream.Msg) {
		if err := handler(msg.Data()); err != nil {
			msg.Nak()
			return
		}
		msg.Ack()
	})
	if err != nil {
		return nil, err
	}

	return cc.Stop, nil
}
