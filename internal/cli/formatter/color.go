package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/signup/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// VerdictMark returns a one-rune indicator for a field verdict.
func VerdictMark(v domain.Verdict) string {
	switch v.State {
	case domain.VerdictValid:
		return StyleGreen.Render("✔")
	case domain.VerdictInvalid:
		return StyleRed.Render("✖")
	default:
		return StyleDim.Render("…")
	}
}

// StatusLine renders the submit status region. Idle renders as "".
func StatusLine(status domain.SubmitStatus) string {
	switch status {
	case domain.SubmitSuccess:
		return StyleGreen.Render(domain.StatusSuccessText)
	case domain.SubmitError:
		return StyleRed.Render(domain.StatusErrorText)
	default:
		return ""
	}
}

// StatusPill renders an attempt status for the history table.
func StatusPill(status domain.SubmitStatus) string {
	switch status {
	case domain.SubmitSuccess:
		return StyleGreen.Render("● success")
	case domain.SubmitError:
		return StyleRed.Render("✖ error")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
