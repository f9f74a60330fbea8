package session

import "time"

// EventKind identifies an engine notification.
type EventKind int

const (
	// EventReady is emitted once the engine knows the track duration.
	EventReady EventKind = iota
	// EventPosition is the periodic playback clock tick.
	EventPosition
	// EventStopped is emitted when playback was stopped by the engine.
	EventStopped
	// EventFinished is emitted when playback reached the end of the track.
	EventFinished
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "Ready"
	case EventPosition:
		return "Position"
	case EventStopped:
		return "Stopped"
	case EventFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the event ends playback.
func (k EventKind) Terminal() bool {
	return k == EventStopped || k == EventFinished
}

// Event is a notification from an engine handle.
// Duration is only meaningful for EventReady; zero or negative means unknown.
type Event struct {
	Kind     EventKind
	Position time.Duration
	Duration time.Duration
}

// Handle is a playable source bound to one file.
// Implementations may emit events from any goroutine.
type Handle interface {
	Play() error
	Pause() error
	Stop() error
	Seek(pos time.Duration) error
	SetVolume(norm float64)
	Position() time.Duration
	Duration() (time.Duration, bool)
	Subscribe(fn func(Event)) (unsubscribe func())
	Close() error
}

// Resolver builds handles from file paths.
type Resolver interface {
	Open(path string) (Handle, error)
}

// View receives the UI affordances the session drives.
type View interface {
	SetTransportLabel(label string)
	SetSeekRange(min, max float64)
	SetSeekValue(value float64)
}

// Dispatcher runs fn on the goroutine that owns the session.
type Dispatcher func(fn func())

// Direct runs fn immediately on the calling goroutine.
func Direct(fn func()) { fn() }
