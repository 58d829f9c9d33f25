package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/harbor-summary/internal/domain"
)

// Placeholder stands in for values the server did not report.
const Placeholder = "—"

const timestampLayout = "2006-01-02 15:04 UTC"

var timestampInputs = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatTimestamp rewrites an ISO 8601 timestamp as "YYYY-MM-DD HH:MM UTC".
// Values without an offset are taken as UTC. Empty input gives the
// placeholder and unparseable input is returned unchanged.
func FormatTimestamp(value string) string {
	if value == "" {
		return Placeholder
	}
	for _, layout := range timestampInputs {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(timestampLayout)
		}
	}
	return value
}

func countText(n *int) string {
	if n == nil {
		return Placeholder
	}
	return strconv.Itoa(*n)
}

func descriptionText(r *domain.Repository) string {
	if r.Description == nil {
		return Placeholder
	}
	if d := strings.TrimSpace(*r.Description); d != "" {
		return d
	}
	return Placeholder
}
