package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCategory = errors.New("unknown category")

// Category is one of the four fixed scoring buckets
type Category string

const (
	CategoryRecycling   Category = "recycling"
	CategoryWaterEnergy Category = "water_energy"
	CategoryHabits      Category = "habits"
	CategoryEmissions   Category = "emissions"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryRecycling,
	CategoryWaterEnergy,
	CategoryHabits,
	CategoryEmissions,
}

var categoryLabels = map[Category]string{
	CategoryRecycling:   "Recycling",
	CategoryWaterEnergy: "Water & Energy",
	CategoryHabits:      "Healthy Habits",
	CategoryEmissions:   "Polluting Emissions",
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable category name
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseCategory accepts the canonical identifiers, case-insensitively.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	return c, nil
}
