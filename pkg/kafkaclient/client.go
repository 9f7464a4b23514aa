// Package kafkaclient consumes a Kafka topic into a channel, leaving offset
// commits to the caller.
package kafkaclient

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Reader is the part of kafka.Reader the consumer uses. FetchMessage does not
// commit, so a message is only acknowledged once CommitOffset is called.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	Broker  string
	Topic   string
	GroupID string
}

// Consumer runs the fetch loop and exposes fetched messages on a channel.
type Consumer struct {
	reader   Reader
	backoff  time.Duration
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	messages chan kafka.Message
}

func NewConsumer(cfg Config) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.Broker},
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		CommitInterval: 0,
		// Position samples are tiny; do not wait for a batch to fill.
		MinBytes: 1,
		MaxBytes: 1e6,
	})
	return newConsumer(reader)
}

func newConsumer(reader Reader) *Consumer {
	return &Consumer{
		reader:   reader,
		backoff:  time.Second,
		done:     make(chan struct{}),
		messages: make(chan kafka.Message),
	}
}

func (c *Consumer) Messages() <-chan kafka.Message {
	return c.messages
}

func (c *Consumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	return c.reader.CommitMessages(ctx, msg)
}

// Start launches the fetch loop. Messages is closed when ctx is done, Stop is
// called or the reader is closed.
func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(c.messages)

		log.Println("Starting Kafka consumer loop...")
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, io.EOF) || c.stopped() {
					log.Println("Kafka consumer loop stopped.")
					return
				}
				log.Printf("Error fetching message: %v", err)
				select {
				case <-time.After(c.backoff):
					continue
				case <-ctx.Done():
					return
				case <-c.done:
					return
				}
			}

			select {
			case c.messages <- msg:
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}()
}

func (c *Consumer) stopped() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Stop ends the fetch loop and closes the reader. It is safe to call more
// than once.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		if err := c.reader.Close(); err != nil {
			log.Printf("Failed to close Kafka reader: %v", err)
		}
		c.wg.Wait()
		log.Println("Kafka consumer stopped.")
	})
}
