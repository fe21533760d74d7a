package renderq

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"gradectl/internal/logging"
	"gradectl/internal/resolve"
)

// Snapshot is one poll of the render queue while monitoring.
type Snapshot struct {
	Elapsed   time.Duration
	Rendering bool
	Jobs      []resolve.RenderJob
}

// Monitor polls the host until rendering finishes. A lock file keeps
// concurrent monitors off the same queue.
type Monitor struct {
	Project  resolve.Project
	Interval time.Duration
	LockPath string
	Logger   *slog.Logger

	// OnPoll receives every queue snapshot, including the final one.
	OnPoll func(Snapshot)
}

// Summary reports how a monitoring session ended.
type Summary struct {
	SessionID string
	Polls     int
	Elapsed   time.Duration
}

// Run blocks until the host reports rendering is no longer in
// progress, polling at the configured interval. It returns an error
// when another monitor already holds the lock or the context is
// cancelled.
func (m *Monitor) Run(ctx context.Context) (Summary, error) {
	logger := m.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	interval := m.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	summary := Summary{SessionID: uuid.NewString()}

	if m.LockPath != "" {
		if err := os.MkdirAll(filepath.Dir(m.LockPath), 0o755); err != nil {
			return summary, fmt.Errorf("create lock directory: %w", err)
		}
		lock := flock.New(m.LockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return summary, fmt.Errorf("acquire monitor lock: %w", err)
		}
		if !locked {
			return summary, fmt.Errorf("another render monitor is already running (lock %s)", m.LockPath)
		}
		defer func() {
			_ = lock.Unlock()
		}()
	}

	logger.Info("render monitor started",
		logging.String("session_id", summary.SessionID),
		logging.Duration("interval", interval))

	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		rendering, err := m.Project.IsRenderingInProgress(ctx)
		if err != nil {
			return summary, fmt.Errorf("poll render status: %w", err)
		}
		summary.Polls++
		summary.Elapsed = time.Since(start)

		jobs, err := m.Project.RenderJobs(ctx)
		if err != nil {
			return summary, fmt.Errorf("list render jobs: %w", err)
		}
		if m.OnPoll != nil {
			m.OnPoll(Snapshot{Elapsed: summary.Elapsed, Rendering: rendering, Jobs: jobs})
		}

		if !rendering {
			logger.Info("render monitor finished",
				logging.String("session_id", summary.SessionID),
				logging.Int("polls", summary.Polls),
				logging.Duration("elapsed", summary.Elapsed))
			return summary, nil
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		case <-ticker.C:
		}
	}
}

// FormatTimeRemaining renders a seconds estimate as 2h 3m 4s.
func FormatTimeRemaining(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
