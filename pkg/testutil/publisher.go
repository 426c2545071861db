package testutil

import (
	"context"
	"sync"

	"github.com/pulselab/backend/pkg/pubsub"
)

// MockPublisher records every pack it receives, keyed by topic.
type MockPublisher struct {
	mutex  sync.Mutex
	Packs  map[string][]*pubsub.Pack
	PubErr error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Packs: map[string][]*pubsub.Pack{}}
}

func (p *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if p.PubErr != nil {
		return p.PubErr
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.Packs[topic] = append(p.Packs[topic], pack)
	return nil
}

func (p *MockPublisher) Stop(ctx context.Context) error {
	return nil
}
