package session

import "time"

// SeekControl mirrors the seek slider. Values are milliseconds.
type SeekControl struct {
	Min      float64
	Max      float64
	Value    float64
	Dragging bool
}

// clamp limits v to [Min, Max]. An inverted range collapses to Min.
func (c SeekControl) clamp(v float64) float64 {
	if v > c.Max {
		v = c.Max
	}
	if v < c.Min {
		v = c.Min
	}
	return v
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func fromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
