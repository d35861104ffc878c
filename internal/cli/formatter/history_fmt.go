package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/signup/internal/domain"
)

// FormatHistory renders recorded signup attempts, newest first as given.
// IDs are shortened unless fullIDs is set.
func FormatHistory(attempts []*domain.SignupAttempt, total int, now time.Time, fullIDs bool) string {
	var b strings.Builder
	b.WriteString(Header("Signup history"))
	b.WriteString("\n\n")

	if len(attempts) == 0 {
		b.WriteString(Dim("No signup attempts recorded yet."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		id := TruncID(a.ID)
		if fullIDs {
			id = Dim(a.ID)
		}
		rows = append(rows, []string{
			id,
			a.Email,
			StatusPill(a.Status),
			Dim(errorCode(a)),
			FormatLatency(a.LatencyMs),
			HumanTimestampFrom(a.CreatedAt, now),
		})
	}
	b.WriteString(RenderTable([]string{"ID", "EMAIL", "STATUS", "CODE", "LATENCY", "WHEN"}, rows, 4))

	if total > len(attempts) {
		b.WriteString(Dim(fmt.Sprintf("\nshowing %d of %d attempts", len(attempts), total)))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatAttempt renders one attempt in a box.
func FormatAttempt(a *domain.SignupAttempt, now time.Time) string {
	field := func(label, value string) string {
		return fmt.Sprintf("%s %s", Dim(fmt.Sprintf("%-8s", label)), value)
	}
	lines := []string{
		field("ID", a.ID),
		field("Email", a.Email),
		field("Status", StatusPill(a.Status)),
		field("Code", errorCode(a)),
		field("Latency", FormatLatency(a.LatencyMs)),
		field("When", fmt.Sprintf("%s (%s)", a.CreatedAt.UTC().Format(time.RFC3339), HumanTimestampFrom(a.CreatedAt, now))),
	}
	return RenderBox("Signup attempt", strings.Join(lines, "\n")) + "\n"
}

func errorCode(a *domain.SignupAttempt) string {
	if a.ErrorCode == "" {
		return "--"
	}
	return a.ErrorCode
}
