package models

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used for every persisted date
const DateLayout = "2006-01-02"

// Points is an integer score. Scanning never fails: malformed values become 0.
type Points int

// ParsePoints converts a stored value to Points. ok is false when the value
// was not a number and 0 was substituted.
func ParsePoints(raw string) (Points, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Points(n), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return pointsFromFloat(f)
	}
	return 0, false
}

// pointsFromFloat truncates f, rejecting NaN, infinities and values outside
// the int64 range.
func pointsFromFloat(f float64) (Points, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return Points(int64(f)), true
}

// Scan implements sql.Scanner
func (p *Points) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = 0
	case int64:
		*p = Points(v)
	case float64:
		*p, _ = pointsFromFloat(v)
	case bool:
		*p = 0
	case []byte:
		*p, _ = ParsePoints(string(v))
	case string:
		*p, _ = ParsePoints(v)
	default:
		*p = 0
	}
	return nil
}

// Value implements driver.Valuer
func (p Points) Value() (driver.Value, error) {
	return int64(p), nil
}

// Date is a UTC calendar date with no time-of-day component.
type Date struct {
	time.Time
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Full RFC3339 timestamps are accepted
// and truncated to their UTC date.
func ParseDate(raw string) (Date, error) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// DaysSince returns the number of whole days from earlier to d.
func (d Date) DaysSince(earlier Date) int {
	return int(d.Sub(earlier.Time).Hours() / 24)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// Equal reports whether both values name the same calendar date
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// Scan implements sql.Scanner. Unparseable values scan as the zero Date.
func (d *Date) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scores holds the four category scores and their derived total
type Scores struct {
	Recycling   Points `db:"recycling"`
	WaterEnergy Points `db:"water_energy"`
	Habits      Points `db:"habits"`
	Emissions   Points `db:"emissions"`
	Total       Points `db:"total"`
}

// Get returns the score for a category
func (s Scores) Get(c Category) Points {
	switch c {
	case CategoryRecycling:
		return s.Recycling
	case CategoryWaterEnergy:
		return s.WaterEnergy
	case CategoryHabits:
		return s.Habits
	case CategoryEmissions:
		return s.Emissions
	}
	return 0
}

// Add increments a single category. Total is left untouched; callers go
// through RecomputeTotal.
func (s *Scores) Add(c Category, p Points) {
	switch c {
	case CategoryRecycling:
		s.Recycling += p
	case CategoryWaterEnergy:
		s.WaterEnergy += p
	case CategoryHabits:
		s.Habits += p
	case CategoryEmissions:
		s.Emissions += p
	}
}

// Sum returns the sum of the four categories
func (s Scores) Sum() Points {
	return s.Recycling + s.WaterEnergy + s.Habits + s.Emissions
}

// Recomputed returns a copy whose Total equals Sum
func (s Scores) Recomputed() Scores {
	s.Total = s.Sum()
	return s
}

// User represents a registered user and their live weekly scores
type User struct {
	Username string `db:"username"`
	Password string `db:"password"`
	Scores
}

// RecomputeTotal returns u with Total derived from the four categories.
func RecomputeTotal(u User) User {
	u.Scores = u.Scores.Recomputed()
	return u
}

// Reset returns a copy of u with every score zeroed
func (u User) Reset() User {
	u.Scores = Scores{}
	return u
}

// Public returns a copy of u without the stored credential
func (u User) Public() User {
	u.Password = ""
	return u
}

// Snapshot is a frozen copy of a user's scores taken at rollover time
type Snapshot struct {
	Id           string `db:"id"`
	Username     string `db:"username"`
	SnapshotDate Date   `db:"snapshot_date"`
	Scores
}
