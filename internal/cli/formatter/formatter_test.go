package formatter

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/signup/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStrength(t *testing.T) {
	tests := []struct {
		name  string
		score int
		label string
	}{
		{"zero", 0, "very weak"},
		{"weak", 1, "weak"},
		{"at minimum", 3, "strong"},
		{"max", 4, "very strong"},
		{"above range clamps", 9, "very strong"},
		{"below range clamps", -2, "very weak"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderStrength(tt.score, domain.DefaultMinPasswordScore, 2)
			assert.Contains(t, got, tt.label)
			// Bar is always MaxPasswordScore cells wide plus brackets.
			bar := got[:strings.Index(got, "]")+1]
			assert.Equal(t, domain.MaxPasswordScore*2+2, lipgloss.Width(bar))
		})
	}
}

func TestRenderFeedback(t *testing.T) {
	got := RenderFeedback(domain.PasswordStrength{
		Warning:     "This is a top-10 common password.",
		Suggestions: []string{"Add another word or two.", "Avoid repeated words."},
	})
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "top-10")
	assert.Contains(t, lines[2], "Avoid repeated words.")

	assert.Empty(t, RenderFeedback(domain.PasswordStrength{Score: 4}))
}

func TestStatusLine(t *testing.T) {
	assert.Contains(t, StatusLine(domain.SubmitSuccess), "Sign-up successful!")
	assert.Contains(t, StatusLine(domain.SubmitError), "Sign-up error")
	assert.Empty(t, StatusLine(domain.SubmitIdle))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"NAME", "MS"}, [][]string{
		{"a", "5"},
		{"longer", StyleRed.Render("1200")},
	}, 1)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	for _, l := range lines[1:] {
		assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(l))
	}
	assert.True(t, strings.HasSuffix(lines[2], "   5"))
	assert.Empty(t, RenderTable(nil, nil))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Just now", HumanTimestampFrom(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestampFrom(now.Add(-3*time.Hour), now))
	assert.Contains(t, HumanTimestampFrom(now.Add(-72*time.Hour), now), "2026")
}

func TestFormatLatency(t *testing.T) {
	assert.Equal(t, "850ms", FormatLatency(850))
	assert.Equal(t, "1.2s", FormatLatency(1200))
}

func TestFormatHistory(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	empty := FormatHistory(nil, 0, now, false)
	assert.Contains(t, empty, "No signup attempts recorded yet.")

	attempts := []*domain.SignupAttempt{
		{ID: "0123456789abcdef", Email: "ada@example.com", Status: domain.SubmitError, ErrorCode: "TIMEOUT", LatencyMs: 5000, CreatedAt: now.Add(-2 * time.Minute)},
		{ID: "fedcba9876543210", Email: "bob@example.com", Status: domain.SubmitSuccess, LatencyMs: 90, CreatedAt: now.Add(-time.Hour)},
	}
	out := FormatHistory(attempts, 7, now, false)
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "TIMEOUT")
	assert.Contains(t, out, "2m ago")
	assert.Contains(t, out, "showing 2 of 7 attempts")

	wide := FormatHistory(attempts, 2, now, true)
	assert.Contains(t, wide, "0123456789abcdef")
	assert.NotContains(t, wide, "showing")
}

func TestFormatAttempt(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	out := FormatAttempt(&domain.SignupAttempt{
		ID: "0123456789abcdef", Email: "ada@example.com", Status: domain.SubmitError,
		ErrorCode: "TIMEOUT", LatencyMs: 1200, CreatedAt: now.Add(-2 * time.Minute),
	}, now)

	assert.Contains(t, out, "SIGNUP ATTEMPT")
	assert.Contains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "TIMEOUT")
	assert.Contains(t, out, "1.2s")
	assert.Contains(t, out, "2026-02-07T11:58:00Z (2m ago)")
}

func TestSpin(t *testing.T) {
	var buf bytes.Buffer
	got, err := Spin(&buf, false, "checking", func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Empty(t, buf.String())

	boom := errors.New("boom")
	_, err = Spin(&syncBuffer{}, true, "checking", func() (int, error) {
		time.Sleep(100 * time.Millisecond)
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

// syncBuffer is written from the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}
