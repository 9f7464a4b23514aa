package placesync

import (
	"context"

	"places/internal/models"
)

// Task is a sync operation running in its own goroutine. Its effect on the
// store is applied when the remote answer arrives, so independent tasks
// commit in completion order, not start order.
type Task[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn in a new goroutine and returns a handle to await it.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.val, t.err = fn(ctx)
	}()
	return t
}

// Done is closed once the task has finished and committed.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done. Giving up waiting does
// not cancel the task.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (c *Client) StartLoadAll(ctx context.Context, nickname string) *Task[struct{}] {
	return Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.LoadAll(ctx, nickname)
	})
}

func (c *Client) StartAddPlace(ctx context.Context, nickname, name string, at models.Coordinate) *Task[models.Place] {
	return Go(ctx, func(ctx context.Context) (models.Place, error) {
		return c.AddPlace(ctx, nickname, name, at)
	})
}

func (c *Client) StartAddCity(ctx context.Context, nickname, cityText string) *Task[models.Place] {
	return Go(ctx, func(ctx context.Context) (models.Place, error) {
		return c.AddCity(ctx, nickname, cityText)
	})
}

func (c *Client) StartDelete(ctx context.Context, nickname, name string) *Task[struct{}] {
	return Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.DeletePlace(ctx, nickname, name)
	})
}
