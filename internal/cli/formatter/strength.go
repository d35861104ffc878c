package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/signup/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

var strengthLabels = [domain.MaxPasswordScore + 1]string{
	"very weak", "weak", "fair", "strong", "very strong",
}

// StrengthLabel names a strength score. Out-of-range scores are clamped.
func StrengthLabel(score int) string {
	return strengthLabels[clampScore(score)]
}

// RenderStrength renders a meter like [███░] strong. Scores below minScore
// are red, the minimum itself yellow, anything above green.
func RenderStrength(score, minScore, cellWidth int) string {
	score = clampScore(score)
	if cellWidth < 1 {
		cellWidth = 1
	}

	bar := strings.Repeat(filledBlock, score*cellWidth) +
		strings.Repeat(emptyBlock, (domain.MaxPasswordScore-score)*cellWidth)

	style := StyleGreen
	switch {
	case score < minScore:
		style = StyleRed
	case score == minScore:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %s", style.Render(bar), style.Render(StrengthLabel(score)))
}

// RenderFeedback renders the strength warning and suggestions, one per line.
func RenderFeedback(s domain.PasswordStrength) string {
	var lines []string
	if s.Warning != "" {
		lines = append(lines, StyleYellow.Render("! "+s.Warning))
	}
	for _, sug := range s.Suggestions {
		lines = append(lines, Dim("· "+sug))
	}
	return strings.Join(lines, "\n")
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > domain.MaxPasswordScore {
		return domain.MaxPasswordScore
	}
	return score
}
