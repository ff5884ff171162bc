// Package catalog holds the fixed list of sustainable actions a user can
// record, and the weekly per-category goals.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"ecoscore-go/internal/models"
)

var ErrUnknownAction = errors.New("unknown action")

type Catalog struct {
	actions []models.Action
	index   map[string]int
	goals   map[models.Category]models.Goal
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := New(defaultActions(), defaultGoals())
	if err != nil {
		panic(fmt.Sprintf("invalid default catalog: %v", err))
	}
	return c
}

// New validates actions and goals and builds a catalog. Categories without a
// goal get DefaultGoalTarget and no tip.
func New(actions []models.Action, goals []models.Goal) (*Catalog, error) {
	c := &Catalog{
		actions: make([]models.Action, 0, len(actions)),
		index:   make(map[string]int, len(actions)),
		goals:   make(map[models.Category]models.Goal, len(models.Categories)),
	}

	for i, a := range actions {
		a.Id = strings.TrimSpace(a.Id)
		if a.Id == "" {
			return nil, fmt.Errorf("action at index %d missing id", i)
		}
		if _, dup := c.index[a.Id]; dup {
			return nil, fmt.Errorf("duplicate action id %q", a.Id)
		}
		if a.Description == "" {
			return nil, fmt.Errorf("action %q missing description", a.Id)
		}
		if !a.Category.Valid() {
			return nil, fmt.Errorf("action %q: %w: %q", a.Id, models.ErrUnknownCategory, a.Category)
		}
		if a.Points <= 0 {
			return nil, fmt.Errorf("action %q must be worth a positive number of points", a.Id)
		}
		c.index[a.Id] = len(c.actions)
		c.actions = append(c.actions, a)
	}

	for _, g := range goals {
		if !g.Category.Valid() {
			return nil, fmt.Errorf("goal: %w: %q", models.ErrUnknownCategory, g.Category)
		}
		if _, dup := c.goals[g.Category]; dup {
			return nil, fmt.Errorf("duplicate goal for category %s", g.Category)
		}
		if g.Target < 0 {
			return nil, fmt.Errorf("goal for %s has negative target", g.Category)
		}
		c.goals[g.Category] = g
	}
	for _, cat := range models.Categories {
		if _, ok := c.goals[cat]; !ok {
			c.goals[cat] = models.Goal{Category: cat, Target: DefaultGoalTarget}
		}
	}

	return c, nil
}

// Actions returns every action in catalog order
func (c *Catalog) Actions() []models.Action {
	out := make([]models.Action, len(c.actions))
	copy(out, c.actions)
	return out
}

func (c *Catalog) ByCategory(cat models.Category) []models.Action {
	var out []models.Action
	for _, a := range c.actions {
		if a.Category == cat {
			out = append(out, a)
		}
	}
	return out
}

func (c *Catalog) Lookup(id string) (models.Action, bool) {
	i, ok := c.index[strings.TrimSpace(id)]
	if !ok {
		return models.Action{}, false
	}
	return c.actions[i], true
}

// Deltas resolves a selection to per-category point increments. The
// selection is a set: a repeated id counts once. Every id is checked before
// anything is summed.
func (c *Catalog) Deltas(ids []string) (map[models.Category]models.Points, models.Points, error) {
	selected := make([]models.Action, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		a, ok := c.Lookup(id)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %q", ErrUnknownAction, id)
		}
		if seen[a.Id] {
			continue
		}
		seen[a.Id] = true
		selected = append(selected, a)
	}

	deltas := make(map[models.Category]models.Points)
	var total models.Points
	for _, a := range selected {
		deltas[a.Category] += a.Points
		total += a.Points
	}
	return deltas, total, nil
}

// Goal returns the weekly goal for a category
func (c *Catalog) Goal(cat models.Category) models.Goal {
	return c.goals[cat]
}

// Goals returns one goal per category in models.Categories order
func (c *Catalog) Goals() []models.Goal {
	out := make([]models.Goal, 0, len(models.Categories))
	for _, cat := range models.Categories {
		out = append(out, c.goals[cat])
	}
	return out
}
