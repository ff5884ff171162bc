package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ecoscore-go/internal/models"
	"ecoscore-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := New(dir, fixedNow)
	require.NoError(t, err)
	return s, dir
}

func TestNew_CreatesFilesAndSeedsMarker(t *testing.T) {
	s, dir := newTestStore(t)

	for _, name := range []string{UsersFile, HistoryFile, MarkerFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	marker, err := s.LoadMarker(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", marker.String())
}

func TestNew_KeepsExistingMarker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), []byte("2025-01-01\n"), 0o644))

	s, err := New(dir, fixedNow)
	require.NoError(t, err)

	marker, err := s.LoadMarker(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", marker.String())
}

func TestNew_RejectsEmptyDir(t *testing.T) {
	_, err := New("", fixedNow)
	assert.Error(t, err)
}

func TestUsers_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	users := []models.User{
		models.RecomputeTotal(models.User{Username: "b", Password: "p,1", Scores: models.Scores{Recycling: 5, Emissions: 2}}),
		models.RecomputeTotal(models.User{Username: "a", Password: `q"2`, Scores: models.Scores{Habits: 7}}),
	}
	require.NoError(t, s.SaveUsers(ctx, users))

	loaded, err := s.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, loaded)
}

func TestLoadUsers_MissingColumnAndMalformedValues(t *testing.T) {
	s, dir := newTestStore(t)

	legacy := "username,password,recycling,water_energy,emissions,total\n" +
		"ana,pw,10,abc,,99\n" +
		"rui,pw2,3.0,4,5,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, UsersFile), []byte(legacy), 0o644))

	users, err := s.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, models.Scores{Recycling: 10, Total: 99}, users[0].Scores)
	assert.Equal(t, models.Scores{Recycling: 3, WaterEnergy: 4, Emissions: 5}, users[1].Scores)
}

func TestHistory_AppendAccumulates(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	d1, _ := models.ParseDate("2025-03-01")
	d2, _ := models.ParseDate("2025-03-08")

	require.NoError(t, s.AppendHistory(ctx, []models.Snapshot{
		{Username: "ana", SnapshotDate: d1, Scores: models.Scores{Recycling: 40, Total: 40}},
	}))
	require.NoError(t, s.AppendHistory(ctx, []models.Snapshot{
		{Username: "ana", SnapshotDate: d2, Scores: models.Scores{Habits: 70, Total: 70}},
		{Username: "rui", SnapshotDate: d2, Scores: models.Scores{}},
	}))
	require.NoError(t, s.AppendHistory(ctx, nil))

	history, err := s.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, "ana", history[0].Username)
	assert.True(t, history[0].SnapshotDate.Equal(d1))
	assert.Equal(t, models.Points(40), history[0].Total)
	assert.Equal(t, models.Points(70), history[1].Habits)
	assert.Equal(t, "rui", history[2].Username)
}

func TestAppendHistory_KeepsExistingRowsVerbatim(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()
	path := filepath.Join(dir, HistoryFile)

	before := "username,snapshot_date,recycling,water_energy,habits,emissions,total\r\n" +
		"ana,2025-01-06,12.7,abc,0,0,0\r\n" +
		"bob,06/01/2025,1,1,1,1,4\r\n" +
		"carl,2025-01-06,\"1\"x,1,1,1,4\r\n"
	require.NoError(t, os.WriteFile(path, []byte(before), 0o644))

	d, _ := models.ParseDate("2025-01-13")
	require.NoError(t, s.AppendHistory(ctx, []models.Snapshot{
		{Username: "dan", SnapshotDate: d, Scores: models.Scores{Recycling: 1, WaterEnergy: 2, Habits: 3, Emissions: 4, Total: 10}},
	}))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before+"dan,2025-01-13,1,2,3,4,10\n", string(after))

	history, err := s.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, []string{"ana", "bob", "carl", "dan"},
		[]string{history[0].Username, history[1].Username, history[2].Username, history[3].Username})
	assert.Equal(t, models.Points(12), history[0].Recycling)
	assert.Zero(t, history[0].WaterEnergy)
	assert.True(t, history[1].SnapshotDate.IsZero())
	assert.Equal(t, models.Points(10), history[3].Total)
}

func TestAppendHistory_ExtendsLegacyHeader(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()
	path := filepath.Join(dir, HistoryFile)

	legacy := "username,snapshot_date,recycling,water_energy,emissions\n" +
		"ana,2025-01-06,1,2,4"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	d, _ := models.ParseDate("2025-01-13")
	require.NoError(t, s.AppendHistory(ctx, []models.Snapshot{
		{Username: "dan", SnapshotDate: d, Scores: models.Scores{Recycling: 1, Habits: 3, Total: 4}},
	}))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "username,snapshot_date,recycling,water_energy,emissions,habits,total\n"+
		"ana,2025-01-06,1,2,4\n"+
		"dan,2025-01-13,1,0,0,3,4\n", string(after))

	history, err := s.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.Scores{Recycling: 1, WaterEnergy: 2, Emissions: 4}, history[0].Scores)
	assert.Equal(t, models.Scores{Recycling: 1, Habits: 3, Total: 4}, history[1].Scores)
}

func TestUsers_StrayQuoteRowSurvivesSave(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	content := "username,password,recycling,water_energy,habits,emissions,total\n" +
		"ana,pw,1,0,0,0,1\n" +
		"bo\"b,pw,5,0,0,0,5\n" +
		"cy,pw,NaN,Inf,1e30,2,2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, UsersFile), []byte(content), 0o644))

	users, err := s.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, `bo"b`, users[1].Username)
	assert.Equal(t, models.Points(5), users[1].Recycling)
	assert.Equal(t, models.Scores{Emissions: 2, Total: 2}, users[2].Scores)

	require.NoError(t, s.SaveUsers(ctx, users))

	reloaded, err := s.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, reloaded)
}

func TestLoadHistory_BadDateLoadsAsZero(t *testing.T) {
	s, dir := newTestStore(t)

	content := "username,snapshot_date,total\nana,yesterday,12\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, HistoryFile), []byte(content), 0o644))

	history, err := s.LoadHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].SnapshotDate.IsZero())
	assert.Equal(t, models.Points(12), history[0].Total)
}

func TestMarker_SaveLoadAndMalformed(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	date, _ := models.ParseDate("2025-04-07")
	require.NoError(t, s.SaveMarker(ctx, date))

	loaded, err := s.LoadMarker(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(date))

	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), []byte("garbage"), 0o644))
	_, err = s.LoadMarker(ctx)
	assert.ErrorIs(t, err, store.ErrNoMarker)

	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), []byte("  \n"), 0o644))
	_, err = s.LoadMarker(ctx)
	assert.ErrorIs(t, err, store.ErrNoMarker)

	require.NoError(t, os.Remove(filepath.Join(dir, MarkerFile)))
	_, err = s.LoadMarker(ctx)
	assert.ErrorIs(t, err, store.ErrNoMarker)
}
