// Package rollover decides when a weekly snapshot is due and performs it:
// archive live scores, reset them, then advance the marker.
package rollover

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ecoscore-go/internal/models"
	"ecoscore-go/internal/store"

	"go.uber.org/zap"
)

const DefaultPeriodDays = 7

// Clock returns the current time; tests pin it
type Clock func() time.Time

type State int

const (
	StateCurrent State = iota
	StateDue
)

func (s State) String() string {
	switch s {
	case StateCurrent:
		return "current"
	case StateDue:
		return "due"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// UserArchiver snapshots and zeroes every live user for a date
type UserArchiver interface {
	Archive(ctx context.Context, date models.Date) (int, error)
}

// Status describes where the scheduler stands relative to the marker
type Status struct {
	State        State
	Today        models.Date
	HasMarker    bool
	LastRollover models.Date
	ElapsedDays  int
	NextDue      models.Date
}

// Result reports what a RunIfDue call did
type Result struct {
	Ran          bool
	Date         models.Date
	Archived     int
	LastRollover models.Date
	ElapsedDays  int
}

type Option func(*Scheduler)

func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithPeriod sets the rollover period in days; non-positive values are ignored
func WithPeriod(days int) Option {
	return func(s *Scheduler) {
		if days > 0 {
			s.period = days
		}
	}
}

type Scheduler struct {
	mu       sync.Mutex
	store    store.Store
	archiver UserArchiver
	clock    Clock
	period   int
}

func New(st store.Store, archiver UserArchiver, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    st,
		archiver: archiver,
		clock:    time.Now,
		period:   DefaultPeriodDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Period() int {
	return s.period
}

func (s *Scheduler) Status(ctx context.Context) (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status(ctx)
}

func (s *Scheduler) status(ctx context.Context) (*Status, error) {
	today := models.DateOf(s.clock())
	st := &Status{Today: today}

	marker, err := s.store.LoadMarker(ctx)
	if errors.Is(err, store.ErrNoMarker) {
		st.State = StateDue
		st.NextDue = today
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rollover marker: %w", err)
	}

	st.HasMarker = true
	st.LastRollover = marker
	st.ElapsedDays = today.DaysSince(marker)
	st.NextDue = marker.AddDays(s.period)
	if st.ElapsedDays >= s.period {
		st.State = StateDue
	} else {
		st.State = StateCurrent
	}
	return st, nil
}

// RunIfDue performs the rollover when the period has elapsed since the last
// one, otherwise it does nothing.
func (s *Scheduler) RunIfDue(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.status(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Date:         st.Today,
		LastRollover: st.LastRollover,
		ElapsedDays:  st.ElapsedDays,
	}
	if st.State != StateDue {
		zap.L().Debug("Rollover not due",
			zap.String("last_rollover", st.LastRollover.String()),
			zap.Int("elapsed_days", st.ElapsedDays),
			zap.Int("period_days", s.period))
		return result, nil
	}

	zap.L().Info("Rollover due",
		zap.String("last_rollover", st.LastRollover.String()),
		zap.Int("elapsed_days", st.ElapsedDays),
		zap.String("snapshot_date", st.Today.String()))

	archived, err := s.archiver.Archive(ctx, st.Today)
	if err != nil {
		return nil, fmt.Errorf("rollover archive failed: %w", err)
	}
	if err := s.store.SaveMarker(ctx, st.Today); err != nil {
		return nil, fmt.Errorf("rollover marker update failed: %w", err)
	}

	result.Ran = true
	result.Archived = archived

	zap.L().Info("Rollover completed",
		zap.String("snapshot_date", st.Today.String()),
		zap.Int("archived", archived))
	return result, nil
}
