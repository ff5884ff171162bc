// Package goals evaluates a user's live scores against the weekly
// per-category goals and picks improvement tips.
package goals

import (
	"context"

	"ecoscore-go/internal/models"

	"github.com/shopspring/decimal"
)

// CongratulationsTip is shown when every category goal is met
const CongratulationsTip = "Congratulations! You reached every goal, keep it up!"

var hundred = decimal.NewFromInt(100)

type UserGetter interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
}

type GoalSource interface {
	Goals() []models.Goal
}

type Evaluator struct {
	users UserGetter
	goals GoalSource
}

func New(users UserGetter, goals GoalSource) *Evaluator {
	return &Evaluator{users: users, goals: goals}
}

func (e *Evaluator) Progress(ctx context.Context, username string) (*models.ProgressReport, error) {
	user, err := e.users.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return Evaluate(*user, e.goals.Goals()), nil
}

// Evaluate scores one user against goals, in the order the goals are given
func Evaluate(user models.User, goals []models.Goal) *models.ProgressReport {
	report := &models.ProgressReport{
		Username:   user.Username,
		Categories: make([]models.CategoryProgress, 0, len(goals)),
		AllMet:     true,
	}

	for _, g := range goals {
		points := user.Get(g.Category)
		p := models.CategoryProgress{
			Category: g.Category,
			Label:    g.Category.Label(),
			Points:   points,
			Target:   g.Target,
			Met:      points >= g.Target,
		}
		if g.Target > 0 {
			p.Percent = decimal.NewFromInt(int64(points)).
				Div(decimal.NewFromInt(int64(g.Target))).
				Mul(hundred).
				Round(1)
		} else {
			p.Percent = hundred
		}
		if !p.Met {
			p.Tip = g.Tip
			report.AllMet = false
		}
		report.Categories = append(report.Categories, p)
	}
	return report
}

// Tips returns the tips for unmet goals, or the congratulations line
func Tips(report *models.ProgressReport) []string {
	if report.AllMet {
		return []string{CongratulationsTip}
	}
	var tips []string
	for _, c := range report.Categories {
		if !c.Met && c.Tip != "" {
			tips = append(tips, c.Label+": "+c.Tip)
		}
	}
	return tips
}
