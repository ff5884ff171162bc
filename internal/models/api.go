/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"github.com/shopspring/decimal"
)

// Action is a catalog entry: a named sustainable action worth fixed points
type Action struct {
	Id          string   `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Category    Category `json:"category" yaml:"category"`
	Points      Points   `json:"points" yaml:"points"`
}

// Goal is the weekly target for one category
type Goal struct {
	Category Category `json:"category" yaml:"category"`
	Target   Points   `json:"target" yaml:"target"`
	Tip      string   `json:"tip" yaml:"tip"`
}

// RankedUser is a single leaderboard row
type RankedUser struct {
	Position int  `json:"position"`
	User     User `json:"user"`
}

// TrendPoint labels one value of the weekly comparison line
type TrendPoint struct {
	Label string `json:"label"` // "previous_week", "best_week", "current_week"
	Total Points `json:"total"`
}

const (
	TrendPreviousWeek = "previous_week"
	TrendBestWeek     = "best_week"
	TrendCurrentWeek  = "current_week"
)

// TrendSummary compares a user's live total against their weekly history
type TrendSummary struct {
	Username   string    `json:"username"`
	HasHistory bool      `json:"has_history"`
	Latest     *Snapshot `json:"latest,omitempty"`
	Previous   *Snapshot `json:"previous,omitempty"`
	Best       *Snapshot `json:"best,omitempty"`
	Current    Points    `json:"current"`

	// Points is [previous?, best, current] when history exists, empty otherwise
	Points []TrendPoint `json:"points"`

	// ChangeVsPrevious is the percent change of Current against Previous.Total,
	// nil when there is no previous week or its total was zero
	ChangeVsPrevious *decimal.Decimal `json:"change_vs_previous,omitempty"`
}

// CategoryProgress reports a user's live score against a category goal
type CategoryProgress struct {
	Category Category        `json:"category"`
	Label    string          `json:"label"`
	Points   Points          `json:"points"`
	Target   Points          `json:"target"`
	Percent  decimal.Decimal `json:"percent"`
	Met      bool            `json:"met"`
	Tip      string          `json:"tip,omitempty"`
}

// ProgressReport is the goal evaluation for one user
type ProgressReport struct {
	Username   string             `json:"username"`
	Categories []CategoryProgress `json:"categories"`
	AllMet     bool               `json:"all_met"`
}
