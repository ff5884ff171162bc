// Package leaderboard ranks users by total score or by a single category.
package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ecoscore-go/internal/models"

	"go.uber.org/zap"
)

// Key selects the score a ranking is ordered by: "total" or a category
type Key string

const KeyTotal Key = "total"

// Keys lists every valid ranking key, total first
func Keys() []Key {
	keys := []Key{KeyTotal}
	for _, c := range models.Categories {
		keys = append(keys, Key(c))
	}
	return keys
}

func ParseKey(raw string) (Key, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == string(KeyTotal) {
		return KeyTotal, nil
	}
	c, err := models.ParseCategory(s)
	if err != nil {
		return "", fmt.Errorf("invalid ranking key %q: %w", raw, err)
	}
	return Key(c), nil
}

// Label returns the display name of the ranked field
func (k Key) Label() string {
	if k == KeyTotal {
		return "Total"
	}
	return models.Category(k).Label()
}

// Value returns the ranked field of u
func (k Key) Value(u models.User) models.Points {
	if k == KeyTotal {
		return u.Total
	}
	return u.Get(models.Category(k))
}

// UserLister supplies the users to rank
type UserLister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

type Engine struct {
	users UserLister
}

func New(users UserLister) *Engine {
	return &Engine{users: users}
}

// Rank orders users descending by key. Ties keep the lister's order. A
// non-positive limit returns every user. Passwords are never included.
func (e *Engine) Rank(ctx context.Context, by Key, limit int) ([]models.RankedUser, error) {
	if by != KeyTotal && !models.Category(by).Valid() {
		return nil, fmt.Errorf("invalid ranking key %q: %w", by, models.ErrUnknownCategory)
	}

	users, err := e.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	sort.SliceStable(users, func(i, j int) bool {
		return by.Value(users[i]) > by.Value(users[j])
	})

	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}

	ranked := make([]models.RankedUser, len(users))
	for idx, u := range users {
		ranked[idx] = models.RankedUser{Position: idx + 1, User: u.Public()}
	}

	zap.L().Debug("Ranking computed",
		zap.String("by", string(by)),
		zap.Int("limit", limit),
		zap.Int("entries", len(ranked)))
	return ranked, nil
}
