package countdown

import (
	"fmt"
	"strings"
	"time"
)

// FormatSeconds renders a second count as "1h 2m 3s", omitting zero units.
// Zero or negative input renders as "0s".
func FormatSeconds(total int) string {
	if total <= 0 {
		return "0s"
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

// FormatMinutes renders a minute count as "1h 30m", "2h" or "45m".
func FormatMinutes(total int) string {
	if total <= 0 {
		return "0m"
	}
	h, m := total/60, total%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// FormatRemaining renders a duration with FormatSeconds, truncating to whole
// seconds.
func FormatRemaining(d time.Duration) string {
	return FormatSeconds(int(d / time.Second))
}
