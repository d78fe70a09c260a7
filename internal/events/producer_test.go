package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)
}

func TestPublishEvent_RejectsUnencodableEvent(t *testing.T) {
	p, err := NewProducer([]string{"127.0.0.1:1"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	err = p.PublishEvent(context.Background(), TopicArticles, "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestPublishEvent_DoesNotWaitForBroker(t *testing.T) {
	p, err := NewProducer([]string{"127.0.0.1:1"})
	require.NoError(t, err)
	p.logger = slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	t.Cleanup(func() { _ = p.Close() })

	start := time.Now()
	err = p.PublishEvent(context.Background(), TopicUsers, "u-1", map[string]any{"type": "user_registered"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCompleted_LogsFailedMessages(t *testing.T) {
	var buf bytes.Buffer
	p := &Producer{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	p.completed([]kafka.Message{{Topic: TopicArticles, Key: []byte("a-1")}}, nil)
	assert.Empty(t, buf.String())

	p.completed([]kafka.Message{{Topic: TopicArticles, Key: []byte("a-1")}}, errors.New("broker down"))
	assert.Contains(t, buf.String(), "publish_event_failed")
	assert.Contains(t, buf.String(), "a-1")
	assert.Contains(t, buf.String(), "broker down")
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.PublishEvent(context.Background(), TopicUsers, "k", map[string]any{"type": "x"}))
	assert.NoError(t, p.Close())
}
