// Package position decodes device position samples published on a message
// topic into coordinates a watcher can follow.
package position

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"

	"places/internal/models"
)

// MessageIterator is a message source with explicit acknowledgement.
// pkg/kafkaclient.Consumer implements it.
type MessageIterator interface {
	Messages() <-chan kafka.Message
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// Sample is the payload of one position message.
type Sample struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// Feed adapts a MessageIterator to a position source. It does not own the
// iterator's lifecycle.
type Feed struct {
	messages MessageIterator
	validate *validator.Validate
}

func NewFeed(messages MessageIterator) *Feed {
	return &Feed{messages: messages, validate: validator.New()}
}

// Positions decodes every message into a coordinate. Malformed samples are
// logged and skipped without being committed; a decoded sample is committed
// once it has been handed over. The channel is closed when the iterator's
// channel closes or ctx is done.
func (f *Feed) Positions(ctx context.Context) (<-chan models.Coordinate, error) {
	out := make(chan models.Coordinate)
	go func() {
		defer close(out)

		for {
			var msg kafka.Message
			select {
			case <-ctx.Done():
				return
			case m, ok := <-f.messages.Messages():
				if !ok {
					return
				}
				msg = m
			}

			coord, err := f.decode(msg.Value)
			if err != nil {
				log.Printf("Skipping position sample at offset %d: %v", msg.Offset, err)
				continue
			}

			select {
			case out <- coord:
			case <-ctx.Done():
				return
			}

			if err := f.messages.CommitOffset(ctx, msg); err != nil {
				log.Printf("Failed to commit offset %d: %v", msg.Offset, err)
			}
		}
	}()
	return out, nil
}

func (f *Feed) decode(value []byte) (models.Coordinate, error) {
	var s Sample
	if err := json.Unmarshal(value, &s); err != nil {
		return models.Coordinate{}, err
	}
	if err := f.validate.Struct(s); err != nil {
		return models.Coordinate{}, err
	}
	return models.Coordinate{Latitude: *s.Latitude, Longitude: *s.Longitude}, nil
}
