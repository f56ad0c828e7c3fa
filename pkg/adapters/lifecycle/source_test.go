package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lessonlifecycle "github.com/aretw0/lessonkit/pkg/adapters/lifecycle"
)

func TestSource_ForwardsChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 2)
	changes <- "express-routing"
	changes <- "middleware"
	close(changes)

	src := lessonlifecycle.NewSource(changes)
	require.NoError(t, src.Start(ctx))

	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-src.Events():
			if !ok {
				assert.Equal(t, []string{"express-routing", "middleware"}, got)
				return
			}
			change, isChange := ev.(lessonlifecycle.ChangeEvent)
			require.True(t, isChange, "unexpected event %T", ev)
			got = append(got, change.ID)
		case <-timeout:
			t.Fatalf("timed out, got %v", got)
		}
	}
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan string)

	src := lessonlifecycle.NewSource(changes)
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "events channel should close after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("source did not stop")
	}
}

func TestChangeEvent_String(t *testing.T) {
	assert.Equal(t, "lesson changed: middleware", lessonlifecycle.ChangeEvent{ID: "middleware"}.String())
}
