package rollover

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ecoscore-go/internal/catalog"
	"ecoscore-go/internal/csvstore"
	"ecoscore-go/internal/database"
	"ecoscore-go/internal/ledger"
	"ecoscore-go/internal/models"
	"ecoscore-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC)

type backend struct {
	name string
	open func(t *testing.T) store.Store
}

var backends = []backend{
	{"csv", func(t *testing.T) store.Store {
		s, err := csvstore.New(t.TempDir(), testNow)
		require.NoError(t, err)
		return s
	}},
	{"sqlite", func(t *testing.T) store.Store {
		s, err := database.NewService(context.Background(), models.DatabaseConfig{
			Path:         filepath.Join(t.TempDir(), "rollover.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			PingTimeout:  time.Second,
		})
		require.NoError(t, err)
		t.Cleanup(s.Close)
		return s
	}},
}

type fixture struct {
	store     store.Store
	ledger    *ledger.Ledger
	scheduler *Scheduler
	now       time.Time
}

func newFixture(t *testing.T, b backend, markerAge int) *fixture {
	t.Helper()
	f := &fixture{now: testNow}
	f.store = b.open(t)
	f.ledger = ledger.New(f.store, catalog.Default(), ledger.WithPasswordCost(bcrypt.MinCost))
	f.scheduler = New(f.store, f.ledger, WithClock(func() time.Time { return f.now }))

	if markerAge >= 0 {
		require.NoError(t, f.store.SaveMarker(context.Background(), models.DateOf(testNow).AddDays(-markerAge)))
	}
	return f
}

func forEachBackend(t *testing.T, fn func(t *testing.T, b backend)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) { fn(t, b) })
	}
}

func TestRunIfDue_ArchivesAndResets(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		f := newFixture(t, b, 8)

		require.NoError(t, f.ledger.Register(ctx, "ana", "pw"))
		require.NoError(t, f.ledger.AddPoints(ctx, "ana", models.CategoryRecycling, 10))
		require.NoError(t, f.ledger.AddPoints(ctx, "ana", models.CategoryWaterEnergy, 20))
		require.NoError(t, f.ledger.AddPoints(ctx, "ana", models.CategoryHabits, 30))
		require.NoError(t, f.ledger.AddPoints(ctx, "ana", models.CategoryEmissions, 40))

		res, err := f.scheduler.RunIfDue(ctx)
		require.NoError(t, err)
		assert.True(t, res.Ran)
		assert.Equal(t, 1, res.Archived)
		assert.Equal(t, 8, res.ElapsedDays)

		history, err := f.store.LoadHistory(ctx)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "ana", history[0].Username)
		assert.Equal(t, "2025-03-10", history[0].SnapshotDate.String())
		assert.Equal(t, models.Scores{Recycling: 10, WaterEnergy: 20, Habits: 30, Emissions: 40, Total: 100}, history[0].Scores)

		users, err := f.store.LoadUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, models.Scores{}, users[0].Scores)

		marker, err := f.store.LoadMarker(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-10", marker.String())
	})
}

func TestRunIfDue_SecondCallIsNoop(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		f := newFixture(t, b, 8)

		require.NoError(t, f.ledger.Register(ctx, "ana", "pw"))
		require.NoError(t, f.ledger.AddPoints(ctx, "ana", models.CategoryHabits, 5))

		first, err := f.scheduler.RunIfDue(ctx)
		require.NoError(t, err)
		require.True(t, first.Ran)

		require.NoError(t, f.ledger.AddPoints(ctx, "ana", models.CategoryHabits, 3))

		second, err := f.scheduler.RunIfDue(ctx)
		require.NoError(t, err)
		assert.False(t, second.Ran)
		assert.Zero(t, second.ElapsedDays)

		history, err := f.store.LoadHistory(ctx)
		require.NoError(t, err)
		assert.Len(t, history, 1)

		u, err := f.ledger.GetUser(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, models.Points(3), u.Total)
	})
}

func TestRunIfDue_NoUsersStillAdvancesMarker(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		f := newFixture(t, b, 30)

		res, err := f.scheduler.RunIfDue(ctx)
		require.NoError(t, err)
		assert.True(t, res.Ran)
		assert.Zero(t, res.Archived)

		marker, err := f.store.LoadMarker(ctx)
		require.NoError(t, err)
		assert.True(t, marker.Equal(models.DateOf(testNow)))

		history, err := f.store.LoadHistory(ctx)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestStatus_PeriodBoundary(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()

		tests := []struct {
			age  int
			want State
		}{
			{0, StateCurrent},
			{6, StateCurrent},
			{7, StateDue},
			{40, StateDue},
			{-2, StateCurrent},
		}
		for _, tt := range tests {
			f := newFixture(t, b, tt.age)
			st, err := f.scheduler.Status(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.State, "marker age %d", tt.age)
			assert.True(t, st.HasMarker)
			assert.Equal(t, tt.age, st.ElapsedDays)
			assert.True(t, st.NextDue.Equal(models.DateOf(testNow).AddDays(DefaultPeriodDays-tt.age)))
		}
	})
}

func TestStatus_CustomPeriod(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, backends[0], 2)
	f.scheduler = New(f.store, f.ledger, WithClock(func() time.Time { return f.now }), WithPeriod(1))

	st, err := f.scheduler.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateDue, st.State)
	assert.Equal(t, 1, f.scheduler.Period())
}

func TestRunIfDue_UnreadableMarkerIsDue(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := csvstore.New(dir, testNow)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, csvstore.MarkerFile), []byte("not a date"), 0o644))

	l := ledger.New(s, catalog.Default(), ledger.WithPasswordCost(bcrypt.MinCost))
	sched := New(s, l, WithClock(func() time.Time { return testNow }))

	st, err := sched.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateDue, st.State)
	assert.False(t, st.HasMarker)

	res, err := sched.RunIfDue(ctx)
	require.NoError(t, err)
	assert.True(t, res.Ran)

	marker, err := s.LoadMarker(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", marker.String())
}

func TestRunIfDue_RecoversAfterPartialRollover(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		f := newFixture(t, b, 8)

		require.NoError(t, f.ledger.Register(ctx, "ana", "pw"))
		require.NoError(t, f.ledger.Register(ctx, "bob", "pw"))
		require.NoError(t, f.ledger.AddPoints(ctx, "ana", models.CategoryHabits, 50))
		require.NoError(t, f.ledger.AddPoints(ctx, "bob", models.CategoryEmissions, 20))

		// history written for ana, then the process stopped before reset
		today := models.DateOf(testNow)
		require.NoError(t, f.store.AppendHistory(ctx, []models.Snapshot{
			{Username: "ana", SnapshotDate: today, Scores: models.Scores{Habits: 50, Total: 50}},
		}))

		res, err := f.scheduler.RunIfDue(ctx)
		require.NoError(t, err)
		assert.True(t, res.Ran)
		assert.Equal(t, 1, res.Archived)

		history, err := f.store.LoadHistory(ctx)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "ana", history[0].Username)
		assert.Equal(t, "bob", history[1].Username)

		users, err := f.ledger.ListUsers(ctx)
		require.NoError(t, err)
		for _, u := range users {
			assert.Zero(t, u.Total, u.Username)
		}
	})
}

func TestRunIfDue_NextWeek(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()
		f := newFixture(t, b, 8)
		require.NoError(t, f.ledger.Register(ctx, "ana", "pw"))

		_, err := f.scheduler.RunIfDue(ctx)
		require.NoError(t, err)

		f.now = testNow.AddDate(0, 0, 6)
		res, err := f.scheduler.RunIfDue(ctx)
		require.NoError(t, err)
		assert.False(t, res.Ran)

		f.now = testNow.AddDate(0, 0, 7)
		res, err = f.scheduler.RunIfDue(ctx)
		require.NoError(t, err)
		assert.True(t, res.Ran)
		assert.Equal(t, "2025-03-17", res.Date.String())

		history, err := f.store.LoadHistory(ctx)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "current", StateCurrent.String())
	assert.Equal(t, "due", StateDue.String())
	assert.Equal(t, "State(9)", State(9).String())
}
