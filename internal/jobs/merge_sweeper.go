package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/campushub/api/internal/service"
)

// MergeSweeper periodically removes stale pending merge requests.
// A proposal that neither side has touched within maxAge is considered
// abandoned and deleted; completed merges are never swept.
type MergeSweeper struct {
	mergeService *service.MergeService
	interval     time.Duration
	maxAge       time.Duration
	stopCh       chan struct{}
	wg           sync.WaitGroup
	running      bool
	mu           sync.Mutex
}

// NewMergeSweeper creates a new merge sweeper job
func NewMergeSweeper(mergeService *service.MergeService, interval, maxAge time.Duration) *MergeSweeper {
	if interval == 0 {
		interval = time.Hour
	}
	if maxAge == 0 {
		maxAge = 30 * 24 * time.Hour
	}
	return &MergeSweeper{
		mergeService: mergeService,
		interval:     interval,
		maxAge:       maxAge,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the merge sweeper job
func (s *MergeSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	slog.Info("merge sweeper started",
		slog.Duration("interval", s.interval),
		slog.Duration("max_age", s.maxAge),
	)
}

// Stop gracefully stops the merge sweeper job
func (s *MergeSweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	slog.Info("merge sweeper stopped")
}

// run is the main loop
func (s *MergeSweeper) run() {
	defer s.wg.Done()

	// Short delay on start to let services initialize
	time.Sleep(5 * time.Second)
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep deletes stale pending merge requests
func (s *MergeSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := s.mergeService.ExpireStale(ctx, s.maxAge)
	if err != nil {
		slog.Error("merge sweep failed", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		slog.Info("swept stale merge requests", slog.Int("count", n))
	}
}

// RunOnce runs the sweep once (for testing or manual trigger)
func (s *MergeSweeper) RunOnce(ctx context.Context) (int, error) {
	return s.mergeService.ExpireStale(ctx, s.maxAge)
}

// IsRunning returns whether the sweeper is running
func (s *MergeSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
