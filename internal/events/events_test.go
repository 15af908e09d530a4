package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wargaid/apiserver/internal/mq"
)

type fakeBackend struct {
	published []mq.Message
	deliver   []mq.Message
}

func (f *fakeBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	f.published = append(f.published, mq.Message{Data: data, Attributes: attrs})
	return "msg-1", nil
}

func (f *fakeBackend) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	for _, msg := range f.deliver {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeBackend) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherAccount(t *testing.T) {
	backend := &fakeBackend{}
	publisher := NewPublisher(backend, discardLogger())

	publisher.Account(context.Background(), TypeRegistered, 9699)

	require.Len(t, backend.published, 1)
	assert.Equal(t, TypeRegistered, backend.published[0].Attributes["type"])

	var event Event
	require.NoError(t, json.Unmarshal(backend.published[0].Data, &event))
	assert.Equal(t, TypeRegistered, event.Type)
	assert.Equal(t, int64(9699), event.UserID)
	assert.False(t, event.At.IsZero())
}

func TestNilPublisherDropsEvents(t *testing.T) {
	var publisher *Publisher
	// Must not panic.
	publisher.Account(context.Background(), TypeLoggedIn, 1)
}

func TestConsumerRun(t *testing.T) {
	payload, err := json.Marshal(Event{Type: TypeLoggedOut, UserID: 9699})
	require.NoError(t, err)

	backend := &fakeBackend{deliver: []mq.Message{
		{ID: "good", Data: payload},
		{ID: "bad", Data: []byte("not json")},
	}}
	consumer := NewConsumer(backend, discardLogger())

	// Malformed payloads are dropped, not redelivered.
	assert.NoError(t, consumer.Run(context.Background()))
}
