// Package ledger owns the live user records: registration, authentication
// and point additions. Every mutation is a load-mutate-save of the full user
// set, serialized by one mutex.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ecoscore-go/internal/catalog"
	"ecoscore-go/internal/models"
	"ecoscore-go/internal/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Option func(*Ledger)

// WithPasswordCost sets the bcrypt cost used for new credentials
func WithPasswordCost(cost int) Option {
	return func(l *Ledger) {
		l.passwordCost = cost
	}
}

type Ledger struct {
	mu           sync.Mutex
	store        store.Store
	catalog      *catalog.Catalog
	passwordCost int
}

func New(st store.Store, cat *catalog.Catalog, opts ...Option) *Ledger {
	if cat == nil {
		cat = catalog.Default()
	}
	l := &Ledger{
		store:        st,
		catalog:      cat,
		passwordCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register creates a user with zero scores. Usernames are matched exactly
// (case and surrounding whitespace included) by every ledger operation.
func (l *Ledger) Register(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password longer than %d bytes", ErrInvalidInput, maxPasswordBytes)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.store.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	if indexOf(users, username) >= 0 {
		return fmt.Errorf("%w: %s", ErrUserExists, username)
	}

	hash, err := hashPassword(password, l.passwordCost)
	if err != nil {
		return err
	}

	users = append(users, models.User{Username: username, Password: hash})
	if err := l.save(ctx, users); err != nil {
		return err
	}

	zap.L().Info("User registered", zap.String("username", username))
	return nil
}

func (l *Ledger) Authenticate(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.store.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	i := indexOf(users, username)
	if i < 0 {
		zap.L().Info("Authentication failed: unknown user", zap.String("username", username))
		return ErrAuthUserNotFound
	}
	if !checkPassword(users[i].Password, password) {
		zap.L().Info("Authentication failed: wrong password", zap.String("username", username))
		return ErrAuthWrongPassword
	}
	return nil
}

// AddPoints adds points (which may be negative) to one category
func (l *Ledger) AddPoints(ctx context.Context, username string, category models.Category, points models.Points) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidInput, models.ErrUnknownCategory, category)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.store.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	i := indexOf(users, username)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	users[i].Add(category, points)
	if err := l.save(ctx, users); err != nil {
		return err
	}

	zap.L().Info("Points added",
		zap.String("username", username),
		zap.String("category", string(category)),
		zap.Int("points", int(points)))
	return nil
}

// ApplyActions adds the points of every selected catalog action in a single
// save and returns the total added. Repeated ids count once. Unknown ids fail
// before any change.
func (l *Ledger) ApplyActions(ctx context.Context, username string, actionIds []string) (models.Points, error) {
	if len(actionIds) == 0 {
		return 0, nil
	}

	deltas, total, err := l.catalog.Deltas(actionIds)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.store.LoadUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load users: %w", err)
	}
	i := indexOf(users, username)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	for _, cat := range models.Categories {
		if p, ok := deltas[cat]; ok {
			users[i].Add(cat, p)
		}
	}
	if err := l.save(ctx, users); err != nil {
		return 0, err
	}

	zap.L().Info("Actions applied",
		zap.String("username", username),
		zap.Int("actions", len(actionIds)),
		zap.Int("points", int(total)))
	return total, nil
}

func (l *Ledger) GetUser(ctx context.Context, username string) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.store.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	i := indexOf(users, username)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	u := models.RecomputeTotal(users[i])
	return &u, nil
}

// ListUsers returns every user in store order with totals recomputed
func (l *Ledger) ListUsers(ctx context.Context) ([]models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.store.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for i := range users {
		users[i] = models.RecomputeTotal(users[i])
	}
	return users, nil
}

// History returns every snapshot of username in store order
func (l *Ledger) History(ctx context.Context, username string) ([]models.Snapshot, error) {
	history, err := l.store.LoadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	var out []models.Snapshot
	for _, snap := range history {
		if snap.Username == username {
			out = append(out, snap)
		}
	}
	return out, nil
}

// Archive snapshots every user's live scores dated date, then zeroes them.
// Users that already have a snapshot for date are only reset. It returns the
// number of snapshots written.
func (l *Ledger) Archive(ctx context.Context, date models.Date) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.store.LoadUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load users: %w", err)
	}
	if len(users) == 0 {
		zap.L().Info("No users to archive", zap.String("snapshot_date", date.String()))
		return 0, nil
	}

	history, err := l.store.LoadHistory(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load history: %w", err)
	}
	archived := make(map[string]bool)
	for _, snap := range history {
		if snap.SnapshotDate.Equal(date) {
			archived[snap.Username] = true
		}
	}

	snapshots := make([]models.Snapshot, 0, len(users))
	zeroed := make([]models.User, 0, len(users))
	for _, u := range users {
		if archived[u.Username] {
			zap.L().Warn("Snapshot already taken, resetting only",
				zap.String("username", u.Username),
				zap.String("snapshot_date", date.String()))
		} else {
			snapshots = append(snapshots, models.Snapshot{
				Username:     u.Username,
				SnapshotDate: date,
				Scores:       u.Scores,
			})
		}
		zeroed = append(zeroed, u.Reset())
	}

	if archiver, ok := l.store.(store.Archiver); ok {
		if err := archiver.ArchiveAndReset(ctx, snapshots, zeroed); err != nil {
			return 0, err
		}
	} else {
		if err := l.store.AppendHistory(ctx, snapshots); err != nil {
			return 0, err
		}
		if err := l.store.SaveUsers(ctx, zeroed); err != nil {
			return 0, err
		}
	}

	zap.L().Info("Users archived",
		zap.String("snapshot_date", date.String()),
		zap.Int("snapshots", len(snapshots)),
		zap.Int("users", len(zeroed)))
	return len(snapshots), nil
}

func (l *Ledger) save(ctx context.Context, users []models.User) error {
	for i := range users {
		users[i] = models.RecomputeTotal(users[i])
	}
	if err := l.store.SaveUsers(ctx, users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

func indexOf(users []models.User, username string) int {
	for i, u := range users {
		if u.Username == username {
			return i
		}
	}
	return -1
}
