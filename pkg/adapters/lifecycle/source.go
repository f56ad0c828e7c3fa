// Package lifecycle adapts repository change notifications to the generic
// event source contract of github.com/aretw0/lifecycle.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"
)

// ChangeEvent reports that the document with ID changed on disk.
type ChangeEvent struct {
	ID string
}

// String implements lifecycle.Event.
func (e ChangeEvent) String() string {
	return "lesson changed: " + e.ID
}

type changeSource struct {
	changes <-chan string
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits a ChangeEvent per document
// ID received from changes (as returned by core.Watchable.Watch).
func NewSource(changes <-chan string) lifecycle.Source {
	return &changeSource{
		changes: changes,
		out:     make(chan lifecycle.Event),
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case id, ok := <-s.changes:
				if !ok {
					return nil
				}
				select {
				case s.out <- ChangeEvent{ID: id}:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
