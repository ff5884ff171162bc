package goals

import (
	"context"
	"errors"
	"testing"

	"ecoscore-go/internal/catalog"
	"ecoscore-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type oneUser struct {
	user models.User
}

func (o oneUser) GetUser(_ context.Context, username string) (*models.User, error) {
	if username != o.user.Username {
		return nil, errors.New("not found")
	}
	u := o.user
	return &u, nil
}

func TestProgress_MixedGoals(t *testing.T) {
	u := models.RecomputeTotal(models.User{Username: "ana", Scores: models.Scores{
		Recycling: 120, WaterEnergy: 35, Habits: 100, Emissions: 0,
	}})
	e := New(oneUser{u}, catalog.Default())

	report, err := e.Progress(context.Background(), "ana")
	require.NoError(t, err)
	assert.False(t, report.AllMet)
	require.Len(t, report.Categories, 4)

	byCat := map[models.Category]models.CategoryProgress{}
	for _, c := range report.Categories {
		byCat[c.Category] = c
	}

	assert.True(t, byCat[models.CategoryRecycling].Met)
	assert.Equal(t, "120", byCat[models.CategoryRecycling].Percent.String())
	assert.Empty(t, byCat[models.CategoryRecycling].Tip)

	assert.False(t, byCat[models.CategoryWaterEnergy].Met)
	assert.Equal(t, "35", byCat[models.CategoryWaterEnergy].Percent.String())
	assert.NotEmpty(t, byCat[models.CategoryWaterEnergy].Tip)

	assert.True(t, byCat[models.CategoryHabits].Met)
	assert.False(t, byCat[models.CategoryEmissions].Met)

	tips := Tips(report)
	require.Len(t, tips, 2)
	assert.Contains(t, tips[0], "Water & Energy")
	assert.Contains(t, tips[1], "Polluting Emissions")
}

func TestProgress_AllMet(t *testing.T) {
	u := models.User{Username: "ana", Scores: models.Scores{Recycling: 100, WaterEnergy: 100, Habits: 100, Emissions: 100}}
	report, err := New(oneUser{u}, catalog.Default()).Progress(context.Background(), "ana")
	require.NoError(t, err)
	assert.True(t, report.AllMet)
	assert.Equal(t, []string{CongratulationsTip}, Tips(report))
}

func TestProgress_UnknownUser(t *testing.T) {
	_, err := New(oneUser{}, catalog.Default()).Progress(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestEvaluate_ZeroTargetAndRounding(t *testing.T) {
	u := models.User{Username: "ana", Scores: models.Scores{Habits: 1, Emissions: -5}}
	report := Evaluate(u, []models.Goal{
		{Category: models.CategoryRecycling, Target: 0},
		{Category: models.CategoryHabits, Target: 3, Tip: "move"},
		{Category: models.CategoryEmissions, Target: 10, Tip: "bike"},
	})

	require.Len(t, report.Categories, 3)
	assert.True(t, report.Categories[0].Met)
	assert.Equal(t, "100", report.Categories[0].Percent.String())
	assert.Equal(t, "33.3", report.Categories[1].Percent.String())
	assert.Equal(t, "move", report.Categories[1].Tip)
	assert.Equal(t, "-50", report.Categories[2].Percent.String())
	assert.False(t, report.AllMet)
}
