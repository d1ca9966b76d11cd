// Package janitor runs a cleanup function on a ticker in the background.
package janitor

import (
	"sync"
	"time"
)

// Janitor owns at most one running cleanup loop. The zero value is ready to use.
type Janitor struct {
	mu   sync.Mutex
	stop chan struct{}
}

// Start calls fn every interval until the returned function is called.
// Starting again stops the previous loop; a stale stop function is a no-op.
func (j *Janitor) Start(interval time.Duration, fn func()) func() {
	j.mu.Lock()
	if j.stop != nil {
		close(j.stop)
	}
	stop := make(chan struct{})
	j.stop = stop
	j.mu.Unlock()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-stop:
				return
			}
		}
	}()

	return func() {
		j.mu.Lock()
		if j.stop == stop {
			close(stop)
			j.stop = nil
		}
		j.mu.Unlock()
	}
}

// Running reports whether a loop is active
func (j *Janitor) Running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stop != nil
}
