package common

import (
	"fmt"
	"strings"

	"ecoscore-go/internal/models"

	"github.com/shopspring/decimal"
)

const (
	// Default separator widths
	DefaultWidth = 80
	WideWidth    = 100

	barWidth = 20
)

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintSeparatorNewline prints a separator with a newline before it
func PrintSeparatorNewline(char string, width int) {
	fmt.Println("\n" + strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(title string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(title)
	PrintSeparator("=", width)
}

// PrintFooter prints a formatted footer with message and separators
func PrintFooter(message string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// PrintBoxSeparator prints a box-drawing separator line (for sub-sections)
func PrintBoxSeparator(width int) {
	fmt.Println("├" + strings.Repeat("─", width))
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// PrintScoreLines prints one box line per category followed by the total
func PrintScoreLines(scores models.Scores) {
	for _, c := range models.Categories {
		fmt.Printf("%s %-22s %6d pts\n", BoxPrefix(false), c.Label(), scores.Get(c))
	}
	fmt.Printf("%s %-22s %6d pts\n", BoxPrefix(true), "Total", scores.Total)
}

// ProgressBar renders percent (0-100, clamped) as a fixed-width bar
func ProgressBar(percent decimal.Decimal) string {
	filled := percent.Mul(decimal.NewFromInt(barWidth)).Div(decimal.NewFromInt(100)).IntPart()
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + strings.Repeat("#", int(filled)) + strings.Repeat(".", barWidth-int(filled)) + "]"
}

// FormatChange renders a percent change with an explicit sign, or "n/a"
func FormatChange(change *decimal.Decimal) string {
	if change == nil {
		return "n/a"
	}
	if change.IsPositive() {
		return "+" + change.StringFixed(1) + "%"
	}
	return change.StringFixed(1) + "%"
}

// TrendLabel returns the display name of a trend point label
func TrendLabel(label string) string {
	switch label {
	case models.TrendPreviousWeek:
		return "Previous week"
	case models.TrendBestWeek:
		return "Best week"
	case models.TrendCurrentWeek:
		return "Current week"
	}
	return label
}
