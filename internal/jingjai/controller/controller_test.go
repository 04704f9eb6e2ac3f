package controller

import (
	"context"
	"testing"
	"time"

	"github.com/gartstein/jingjai/internal/jingjai/db"
	"github.com/gartstein/jingjai/internal/jingjai/events"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testActor = "alice@jingjai.test"

// MockProducer is a test double for the Kafka producer.
type MockProducer struct {
	produced chan events.Event
}

func newMockProducer() *MockProducer {
	return &MockProducer{produced: make(chan events.Event, 256)}
}

func (m *MockProducer) Produce(event events.Event) {
	m.produced <- event
}

// next waits for the next published event.
func (m *MockProducer) next(t *testing.T) events.Event {
	t.Helper()
	select {
	case ev := <-m.produced:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
		return events.Event{}
	}
}

// none asserts that nothing was published.
func (m *MockProducer) none(t *testing.T) {
	t.Helper()
	select {
	case ev := <-m.produced:
		t.Fatalf("unexpected event %s", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

type fixture struct {
	repo     *db.Repository
	producer *MockProducer
	services *Services
}

func setup(t *testing.T, opts Options) *fixture {
	t.Helper()
	repo, err := db.NewRepository(&db.Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	producer := newMockProducer()
	return &fixture{
		repo:     repo,
		producer: producer,
		services: NewServices(repo, producer, zaptest.NewLogger(t), opts),
	}
}

func ctx() context.Context {
	return context.Background()
}
