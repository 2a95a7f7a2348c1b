package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherDeliversEvents(t *testing.T) {
	var delivered atomic.Int64
	d := NewDispatcher("test", func(_ context.Context, e Event) error {
		delivered.Add(1)
		return nil
	}, DispatcherConfig{Logger: zap.NewNop()})

	d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Emit(Event{Type: "request.status_changed"}))
	require.Eventually(t, func() bool { return delivered.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDispatcherRetriesThenDrops(t *testing.T) {
	var attempts atomic.Int64
	d := NewDispatcher("test", func(_ context.Context, e Event) error {
		attempts.Add(1)
		return errors.New("store down")
	}, DispatcherConfig{MaxRetries: 2, RetryDelay: time.Millisecond, Logger: zap.NewNop()})

	d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Emit(Event{Type: "request.status_changed"}))
	require.Eventually(t, func() bool { return attempts.Load() == 2 }, time.Second, 5*time.Millisecond)

	// the event is gone; nothing further is attempted
	time.Sleep(20 * time.Millisecond)
	require.EqualValues(t, 2, attempts.Load())
}

func TestDispatcherEmitBeforeStart(t *testing.T) {
	d := NewDispatcher("test", func(context.Context, Event) error { return nil }, DispatcherConfig{Logger: zap.NewNop()})
	require.Error(t, d.Emit(Event{Type: "noop"}))
}
