package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

// SessionPurger removes expired sessions
type SessionPurger interface {
	Purge(ctx context.Context) (int64, error)
}

// LimiterPruner forgets rate limiters that have been idle for maxIdle
type LimiterPruner interface {
	Cleanup(maxIdle time.Duration) int
}

// CleanupJob periodically drops expired sessions and idle rate limiters
type CleanupJob struct {
	sessions SessionPurger
	limiters LimiterPruner
	interval time.Duration

	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewCleanupJob creates a new cleanup job; limiters may be nil
func NewCleanupJob(sessions SessionPurger, limiters LimiterPruner, interval time.Duration) *CleanupJob {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &CleanupJob{
		sessions: sessions,
		limiters: limiters,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the cleanup job
func (j *CleanupJob) Start() {
	go j.run()
	log.Printf("🚀 Cleanup job started (every %v)", j.interval)
}

// Stop stops the cleanup job and waits for a running pass to finish
func (j *CleanupJob) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChan)
		<-j.done
		log.Println("🛑 Cleanup job stopped")
	})
}

func (j *CleanupJob) run() {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.RunOnce(context.Background())
		case <-j.stopChan:
			return
		}
	}
}

// RunOnce performs a single cleanup pass
func (j *CleanupJob) RunOnce(ctx context.Context) {
	removed, err := j.sessions.Purge(ctx)
	if err != nil {
		log.Printf("❌ Error purging expired sessions: %v", err)
	} else if removed > 0 {
		log.Printf("⏰ Purged %d expired sessions", removed)
	}

	if j.limiters != nil {
		if n := j.limiters.Cleanup(2 * j.interval); n > 0 {
			log.Printf("🧹 Dropped %d idle rate limiters", n)
		}
	}
}
