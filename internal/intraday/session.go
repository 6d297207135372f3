package intraday

import (
	"fmt"
	"strings"
	"time"
)

// Session restricts evaluation to windows starting within a daily
// [Start, End) execution-time range, given as "HH:MM" in UTC.
// Start > End wraps across midnight. Empty or equal bounds disable the filter.
type Session struct {
	Start string `json:"start,omitempty" yaml:"start" toml:"start"`
	End   string `json:"end,omitempty" yaml:"end" toml:"end"`
}

func (s Session) Enabled() bool {
	return strings.TrimSpace(s.Start) != "" && strings.TrimSpace(s.End) != "" &&
		strings.TrimSpace(s.Start) != strings.TrimSpace(s.End)
}

type compiledSession struct {
	enabled   bool
	startMins int
	endMins   int
}

func (s Session) compile() (compiledSession, error) {
	if !s.Enabled() {
		return compiledSession{}, nil
	}
	start, err := parseHHMM(s.Start)
	if err != nil {
		return compiledSession{}, fmt.Errorf("session.start: %w", err)
	}
	end, err := parseHHMM(s.End)
	if err != nil {
		return compiledSession{}, fmt.Errorf("session.end: %w", err)
	}
	return compiledSession{enabled: true, startMins: start, endMins: end}, nil
}

func (c compiledSession) contains(t time.Time) bool {
	if !c.enabled {
		return true
	}
	t = t.UTC()
	return inWindow(t.Hour()*60+t.Minute(), c.startMins, c.endMins)
}

func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// inWindow checks whether tMins is in [start, end) on a 24h clock.
// start > end wraps across midnight.
func inWindow(tMins, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return tMins >= start && tMins < end
	}
	return tMins >= start || tMins < end
}
