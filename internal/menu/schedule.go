package menu

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Window maps a category to the local-time hour range during which it is orderable.
// A window whose EndHour is less than its StartHour wraps past midnight.
type Window struct {
	Category  string
	StartHour int
	EndHour   int
}

// Contains reports whether the given hour falls inside the window.
func (w Window) Contains(hour int) bool {
	if w.StartHour <= w.EndHour {
		return hour >= w.StartHour && hour < w.EndHour
	}
	return hour >= w.StartHour || hour < w.EndHour
}

// DefaultWindows covers a full day with no gaps: breakfast, lunch, then dinner
// wrapping past midnight. Starters carries no window and is never orderable.
func DefaultWindows() []Window {
	return []Window{
		{Category: CategoryBreakfast, StartHour: 5, EndHour: 11},
		{Category: CategoryLunch, StartHour: 11, EndHour: 17},
		{Category: CategoryDinner, StartHour: 17, EndHour: 5},
	}
}

// Snapshot is the scheduler's view of the menu at a point in time.
type Snapshot struct {
	Day       time.Weekday
	Available []string
}

// HasCategory reports whether the category is currently orderable.
func (s Snapshot) HasCategory(category string) bool {
	for _, c := range s.Available {
		if c == category {
			return true
		}
	}
	return false
}

// Scheduler recomputes category availability on a fixed interval and rolls the
// menu day over at local midnight.
type Scheduler struct {
	windows  []Window
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
	onChange func(Snapshot)

	mu   sync.RWMutex
	snap Snapshot

	cancel context.CancelFunc
	done   chan struct{}
}

// SchedulerOption customises scheduler construction.
type SchedulerOption func(*Scheduler)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// WithOnChange registers a callback invoked whenever the snapshot changes.
func WithOnChange(fn func(Snapshot)) SchedulerOption {
	return func(s *Scheduler) { s.onChange = fn }
}

// NewScheduler builds a scheduler over the given windows. The snapshot is
// computed eagerly and pushed to the change callback so callers and gauges
// see correct availability before Start.
func NewScheduler(windows []Window, interval time.Duration, logger zerolog.Logger, opts ...SchedulerOption) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	s := &Scheduler{
		windows:  windows,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap = s.compute(s.now())
	if s.onChange != nil {
		s.onChange(s.snap)
	}
	return s
}

// Current returns the latest availability snapshot.
func (s *Scheduler) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	out := Snapshot{Day: snap.Day, Available: make([]string, len(snap.Available))}
	copy(out.Available, snap.Available)
	return out
}

// Start launches the polling loop and the midnight day-rollover timer.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
}

// Stop terminates the background loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	midnight := time.NewTimer(s.untilMidnight())
	defer midnight.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh()
		case <-midnight.C:
			s.refresh()
			midnight.Reset(s.untilMidnight())
		}
	}
}

func (s *Scheduler) untilMidnight() time.Duration {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
	d := next.Sub(now)
	if d <= 0 {
		d = time.Second
	}
	return d
}

func (s *Scheduler) refresh() {
	next := s.compute(s.now())

	s.mu.Lock()
	changed := !equalSnapshots(s.snap, next)
	if changed {
		s.snap = next
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	s.logger.Info().
		Str("day", next.Day.String()).
		Strs("available", next.Available).
		Msg("menu availability changed")
	if s.onChange != nil {
		s.onChange(next)
	}
}

func (s *Scheduler) compute(at time.Time) Snapshot {
	hour := at.Hour()
	available := make([]string, 0, len(s.windows))
	for _, w := range s.windows {
		if w.Contains(hour) {
			available = append(available, w.Category)
		}
	}
	return Snapshot{Day: at.Weekday(), Available: available}
}

func equalSnapshots(a, b Snapshot) bool {
	if a.Day != b.Day || len(a.Available) != len(b.Available) {
		return false
	}
	for i := range a.Available {
		if a.Available[i] != b.Available[i] {
			return false
		}
	}
	return true
}
