package notify

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	log "github.com/sirupsen/logrus"
)

// sender is the slice of *pubsub.Publisher we use; swapped in tests.
type sender interface {
	send(ctx context.Context, data []byte, attrs map[string]string) error
	stop()
}

type topicSender struct{ p *pubsub.Publisher }

func (s topicSender) send(ctx context.Context, data []byte, attrs map[string]string) error {
	res := s.p.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs})
	_, err := res.Get(ctx)
	return err
}

func (s topicSender) stop() { s.p.Stop() }

type PubSub struct {
	client *pubsub.Client
	out    sender
}

func NewPubSub(ctx context.Context, projectID, topic string) (*PubSub, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}
	log.WithFields(log.Fields{"project": projectID, "topic": topic}).Info("pubsub publisher created")
	return &PubSub{client: client, out: topicSender{p: client.Publisher(topic)}}, nil
}

func (p *PubSub) Publish(ctx context.Context, ev Event) error {
	data, attrs, err := encode(ev)
	if err != nil {
		return err
	}
	if err := p.out.send(ctx, data, attrs); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// Close flushes pending messages and closes the client.
func (p *PubSub) Close() error {
	if p == nil {
		return nil
	}
	if p.out != nil {
		p.out.stop()
	}
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
