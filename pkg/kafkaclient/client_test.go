package kafkaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

// mockReader serves queued messages and records commits.
type mockReader struct {
	messages  chan kafka.Message
	closed    chan struct{}
	closeOnce sync.Once

	mu        sync.Mutex
	committed []kafka.Message
	failures  int
}

func newMockReader(buffer int) *mockReader {
	return &mockReader{
		messages: make(chan kafka.Message, buffer),
		closed:   make(chan struct{}),
	}
}

func (mr *mockReader) produce(count int) {
	for i := 0; i < count; i++ {
		mr.messages <- kafka.Message{
			Topic:  "positions",
			Offset: int64(i),
			Value:  []byte(fmt.Sprintf("sample-%d", i)),
		}
	}
}

func (mr *mockReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	mr.mu.Lock()
	if mr.failures > 0 {
		mr.failures--
		mr.mu.Unlock()
		return kafka.Message{}, errors.New("broker not available")
	}
	mr.mu.Unlock()

	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case <-mr.closed:
		return kafka.Message{}, io.EOF
	case msg := <-mr.messages:
		return msg, nil
	}
}

func (mr *mockReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.committed = append(mr.committed, msgs...)
	return nil
}

func (mr *mockReader) Close() error {
	mr.closeOnce.Do(func() { close(mr.closed) })
	return nil
}

func (mr *mockReader) commits() int {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return len(mr.committed)
}

func receive(t *testing.T, c *Consumer) kafka.Message {
	t.Helper()
	select {
	case msg, ok := <-c.Messages():
		if !ok {
			t.Fatal("messages channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return kafka.Message{}
	}
}

func TestConsumer_DeliversAndCommits(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reader := newMockReader(3)
	reader.produce(3)
	consumer := newConsumer(reader)
	consumer.Start(ctx)

	for i := 0; i < 3; i++ {
		msg := receive(t, consumer)
		if want := fmt.Sprintf("sample-%d", i); string(msg.Value) != want {
			t.Errorf("message %d = %q, want %q", i, msg.Value, want)
		}
		if err := consumer.CommitOffset(ctx, msg); err != nil {
			t.Errorf("CommitOffset() failed: %v", err)
		}
	}

	consumer.Stop()
	if _, ok := <-consumer.Messages(); ok {
		t.Error("expected messages channel to be closed after Stop")
	}
	if got := reader.commits(); got != 3 {
		t.Errorf("committed %d messages, want 3", got)
	}
}

func TestConsumer_RetriesAfterFetchError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reader := newMockReader(1)
	reader.failures = 2
	reader.produce(1)
	consumer := newConsumer(reader)
	consumer.backoff = time.Millisecond
	consumer.Start(ctx)
	defer consumer.Stop()

	if msg := receive(t, consumer); string(msg.Value) != "sample-0" {
		t.Errorf("got %q after retries", msg.Value)
	}
}

func TestConsumer_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	consumer := newConsumer(newMockReader(0))
	consumer.Start(ctx)
	cancel()

	select {
	case _, ok := <-consumer.Messages():
		if ok {
			t.Error("unexpected message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop on cancel")
	}
	consumer.Stop()
	consumer.Stop()
}
