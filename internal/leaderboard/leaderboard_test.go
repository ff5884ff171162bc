package leaderboard

import (
	"context"
	"errors"
	"testing"

	"ecoscore-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticUsers struct {
	users []models.User
	err   error
}

func (s staticUsers) ListUsers(context.Context) ([]models.User, error) {
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, s.err
}

func user(name string, r, w, h, e int) models.User {
	return models.RecomputeTotal(models.User{
		Username: name,
		Password: "hash-" + name,
		Scores: models.Scores{
			Recycling:   models.Points(r),
			WaterEnergy: models.Points(w),
			Habits:      models.Points(h),
			Emissions:   models.Points(e),
		},
	})
}

func names(ranked []models.RankedUser) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.User.Username
	}
	return out
}

func TestRank_TotalWithTies(t *testing.T) {
	e := New(staticUsers{users: []models.User{
		user("A", 50, 0, 0, 0),
		user("B", 0, 90, 0, 0),
		user("C", 0, 0, 90, 0),
	}})

	ranked, err := e.Rank(context.Background(), KeyTotal, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, names(ranked))
	assert.Equal(t, 1, ranked[0].Position)
	assert.Equal(t, 2, ranked[1].Position)
}

func TestRank_ByCategory(t *testing.T) {
	e := New(staticUsers{users: []models.User{
		user("a", 5, 0, 1, 0),
		user("b", 20, 0, 0, 0),
		user("c", 20, 0, 0, 0),
		user("d", 0, 0, 0, 100),
	}})

	ranked, err := e.Rank(context.Background(), Key(models.CategoryRecycling), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "d"}, names(ranked))
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Position)
	}
}

func TestRank_LimitAndPasswords(t *testing.T) {
	e := New(staticUsers{users: []models.User{user("a", 1, 0, 0, 0), user("b", 2, 0, 0, 0)}})

	ranked, err := e.Rank(context.Background(), KeyTotal, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	for _, r := range ranked {
		assert.Empty(t, r.User.Password)
	}

	ranked, err = e.Rank(context.Background(), KeyTotal, -1)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}

func TestRank_Errors(t *testing.T) {
	_, err := New(staticUsers{}).Rank(context.Background(), Key("space"), 0)
	assert.ErrorIs(t, err, models.ErrUnknownCategory)

	boom := errors.New("read failed")
	_, err = New(staticUsers{err: boom}).Rank(context.Background(), KeyTotal, 0)
	assert.ErrorIs(t, err, boom)

	ranked, err := New(staticUsers{}).Rank(context.Background(), KeyTotal, 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		raw     string
		want    Key
		wantErr bool
	}{
		{"", KeyTotal, false},
		{"TOTAL", KeyTotal, false},
		{"habits", Key(models.CategoryHabits), false},
		{" Water_Energy ", Key(models.CategoryWaterEnergy), false},
		{"gases", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}

	assert.Len(t, Keys(), 5)
	assert.Equal(t, "Total", KeyTotal.Label())
	assert.Equal(t, "Healthy Habits", Key(models.CategoryHabits).Label())
}
