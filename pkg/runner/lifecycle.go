package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var errAlreadyRun = errors.New("runner: already started")

// LifecycleRunner blocks until its context ends, then drains with a deadline.
// It runs once; a second Run is rejected.
type LifecycleRunner struct {
	Title string

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	hooks   Hooks
	drainer Drainer
	timeout time.Duration

	stopOnce sync.Once
	stopErr  error
}

func NewLifecycleRunner(drainer Drainer, hooks Hooks, timeout time.Duration) *LifecycleRunner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LifecycleRunner{
		state:   StateNew,
		hooks:   hooks,
		drainer: drainer,
		timeout: timeout,
	}
}

func (r *LifecycleRunner) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.mu.Lock()
	if r.state != StateNew {
		r.mu.Unlock()
		return errAlreadyRun
	}
	r.state = StateStarting
	r.cancel = cancel
	r.mu.Unlock()

	if r.Title != "" {
		PrintBanner(r.Title)
	}
	if r.hooks.OnStart != nil {
		if err := r.hooks.OnStart(ctx); err != nil {
			return errors.Join(fmt.Errorf("start: %w", err), r.stop())
		}
	}
	r.setState(StateRunning)
	<-ctx.Done()
	return r.stop()
}

// Stop ends a running Run, or drains directly if Run was never called.
func (r *LifecycleRunner) Stop() error {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return r.stop()
}

func (r *LifecycleRunner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *LifecycleRunner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *LifecycleRunner) stop() error {
	r.stopOnce.Do(func() {
		r.setState(StateDraining)
		r.stopErr = r.drain()
		if r.hooks.OnStop != nil {
			r.hooks.OnStop()
		}
		r.setState(StateStopped)
	})
	return r.stopErr
}

func (r *LifecycleRunner) drain() error {
	if r.drainer == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- r.drainer.Drain() }()
	timer := time.NewTimer(r.timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("drain did not finish within %s", r.timeout)
	}
}
