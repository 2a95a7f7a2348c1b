package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is a fire-and-forget unit of work handed to the dispatcher.
type Event struct {
	Type     string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// Handler processes an event.
type Handler func(context.Context, Event) error

// DispatcherConfig tunes buffering and retry behaviour.
type DispatcherConfig struct {
	Capacity   int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Dispatcher delivers events asynchronously with bounded retries. Delivery
// is best-effort: an event that exhausts its retries, or that arrives while
// the buffer is full, is logged and dropped. Callers must not rely on the
// dispatcher for anything that has to survive a crash.
type Dispatcher struct {
	name    string
	handler Handler

	capacity   int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	events  chan Event
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewDispatcher builds a dispatcher with the provided handler.
func NewDispatcher(name string, handler Handler, cfg DispatcherConfig) *Dispatcher {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 64
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Dispatcher{
		name:       name,
		handler:    handler,
		capacity:   cfg.Capacity,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		events:     make(chan Event, cfg.Capacity),
	}
}

// Start begins consuming events. Safe to call once.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.wg.Add(1)
	go d.consume()
	d.started = true
	d.logger.Sugar().Infow("dispatcher started", "dispatcher", d.name)
}

// Stop cancels the consumer and waits for it to exit. Buffered events that
// were not yet delivered are discarded.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.cancel()
	d.started = false
	d.mu.Unlock()
	d.wg.Wait()
	d.logger.Sugar().Infow("dispatcher stopped", "dispatcher", d.name)
}

// Emit offers an event for asynchronous delivery. It never blocks: when the
// buffer is full the event is dropped and the loss logged.
func (d *Dispatcher) Emit(event Event) error {
	d.mu.Lock()
	started := d.started
	d.mu.Unlock()
	if !started {
		return fmt.Errorf("dispatcher %s not started", d.name)
	}

	event.Enqueued = time.Now().UTC()
	select {
	case d.events <- event:
		return nil
	default:
		d.logger.Sugar().Warnw("event dropped, buffer full", "dispatcher", d.name, "type", event.Type)
		return fmt.Errorf("dispatcher %s buffer full", d.name)
	}
}

func (d *Dispatcher) consume() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case event := <-d.events:
			d.deliver(event)
		}
	}
}

func (d *Dispatcher) deliver(event Event) {
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		event.Attempt = attempt
		err := d.handler(d.ctx, event)
		if err == nil {
			return
		}
		d.logger.Sugar().Warnw("event delivery failed",
			"dispatcher", d.name, "type", event.Type, "attempt", attempt, "error", err)
		if attempt == d.maxRetries {
			d.logger.Sugar().Errorw("event lost after retries", "dispatcher", d.name, "type", event.Type)
			return
		}
		select {
		case <-d.ctx.Done():
			return
		case <-time.After(d.retryDelay):
		}
	}
}
