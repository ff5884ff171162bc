// Package trend compares a user's live week against their archived weeks.
package trend

import (
	"context"
	"fmt"
	"sort"

	"ecoscore-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// Source provides a user's live record and archived snapshots
type Source interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
	History(ctx context.Context, username string) ([]models.Snapshot, error)
}

type Engine struct {
	source Source
}

func New(source Source) *Engine {
	return &Engine{source: source}
}

// CompareWeeks summarizes the user's latest, previous and best archived weeks
// against the live total. A user with no snapshots gets HasHistory false.
func (e *Engine) CompareWeeks(ctx context.Context, username string) (*models.TrendSummary, error) {
	user, err := e.source.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	snaps, err := e.source.History(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", username, err)
	}

	summary := &models.TrendSummary{
		Username: username,
		Current:  user.Total,
		Points:   []models.TrendPoint{},
	}
	if len(snaps) == 0 {
		return summary, nil
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].SnapshotDate.Before(snaps[j].SnapshotDate)
	})

	summary.HasHistory = true
	latest := snaps[len(snaps)-1]
	summary.Latest = &latest

	if len(snaps) >= 2 {
		previous := snaps[len(snaps)-2]
		summary.Previous = &previous
		summary.Points = append(summary.Points, models.TrendPoint{Label: models.TrendPreviousWeek, Total: previous.Total})
		summary.ChangeVsPrevious = percentChange(previous.Total, user.Total)
	}

	best := snaps[0]
	for _, snap := range snaps[1:] {
		if snap.Total > best.Total {
			best = snap
		}
	}
	summary.Best = &best

	summary.Points = append(summary.Points,
		models.TrendPoint{Label: models.TrendBestWeek, Total: best.Total},
		models.TrendPoint{Label: models.TrendCurrentWeek, Total: user.Total},
	)

	zap.L().Debug("Weekly trend computed",
		zap.String("username", username),
		zap.Int("snapshots", len(snaps)),
		zap.Int("best_total", int(best.Total)),
		zap.Int("current_total", int(user.Total)))
	return summary, nil
}

// percentChange returns (current-previous)/previous as a percentage rounded to
// two places, or nil when previous is zero.
func percentChange(previous, current models.Points) *decimal.Decimal {
	if previous == 0 {
		return nil
	}
	change := decimal.NewFromInt(int64(current - previous)).
		Div(decimal.NewFromInt(int64(previous))).
		Mul(hundred).
		Round(2)
	return &change
}
