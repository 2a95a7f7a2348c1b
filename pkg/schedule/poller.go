package schedule

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is the unit of work executed on every tick.
type Task func(context.Context) error

// Poller runs a task on a fixed interval until stopped. It is the explicit
// replacement for an uncontrolled UI timer: the interval is configurable and
// teardown cancels the loop deterministically.
type Poller struct {
	name     string
	interval time.Duration
	task     Task
	logger   *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewPoller builds a poller. A non-positive interval falls back to a minute,
// matching the documented delivery period.
func NewPoller(name string, interval time.Duration, task Task, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{name: name, interval: interval, task: task, logger: logger}
}

// Start launches the polling loop. Safe to call once; subsequent calls are
// no-ops until Stop.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.started = true

	go p.run(ctx)
	p.logger.Sugar().Infow("poller started", "poller", p.name, "interval", p.interval)
}

// Stop cancels the loop and waits for the in-flight tick to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.cancel()
	done := p.done
	p.started = false
	p.mu.Unlock()

	<-done
	p.logger.Sugar().Infow("poller stopped", "poller", p.name)
}

// Trigger runs the task immediately, outside the timer cadence. Consumers
// call it right after a read action so the refreshed state is visible
// without waiting for the next tick.
func (p *Poller) Trigger(ctx context.Context) {
	p.execute(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.execute(ctx)
		}
	}
}

func (p *Poller) execute(ctx context.Context) {
	if p.task == nil {
		return
	}
	if err := p.task(ctx); err != nil {
		p.logger.Sugar().Warnw("poll tick failed", "poller", p.name, "error", err)
	}
}
