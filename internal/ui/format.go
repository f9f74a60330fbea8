package ui

import (
	"fmt"
	"time"
)

// formatDur renders d as mm:ss, or h:mm:ss past the hour.
func formatDur(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}
	s := int(d.Seconds())
	h := s / 3600
	m := s / 60 % 60
	ss := s % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, ss)
	}
	return fmt.Sprintf("%02d:%02d", m, ss)
}
