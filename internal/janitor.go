package internal

import (
	"context"
	"sync"
	"time"
)

// Janitor runs a sweep function on a fixed interval until stopped.
// The session store and the response cache each own one.
type Janitor struct {
	name     string
	interval time.Duration
	sweep    func() int

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewJanitor creates a janitor; sweep returns how many items it removed
func NewJanitor(name string, interval time.Duration, sweep func() int) *Janitor {
	return &Janitor{
		name:     name,
		interval: interval,
		sweep:    sweep,
	}
}

// Start launches the sweep loop. Calling Start on a running janitor is a no-op.
func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.done = make(chan struct{})
	j.running = true

	go j.run(loopCtx, j.done)
}

// Run blocks running the sweep loop until ctx is cancelled
func (j *Janitor) Run(ctx context.Context) error {
	j.Start(ctx)
	j.mu.Lock()
	done := j.done
	j.mu.Unlock()

	<-ctx.Done()
	j.Stop()
	if done != nil {
		<-done
	}
	return nil
}

// Stop cancels the loop and waits for it to exit
func (j *Janitor) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	cancel := j.cancel
	done := j.done
	j.mu.Unlock()

	cancel()
	<-done
}

// IsRunning reports whether the sweep loop is active
func (j *Janitor) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// SweepNow runs one sweep synchronously
func (j *Janitor) SweepNow() int {
	removed := j.sweep()
	if removed > 0 {
		LogInfo("%s: removed %d expired entries", j.name, removed)
	}
	return removed
}

func (j *Janitor) run(ctx context.Context, done chan struct{}) {
	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			LogDebug("%s: sweeper stopping", j.name)
			return
		case <-ticker.C:
			j.SweepNow()
		}
	}
}
