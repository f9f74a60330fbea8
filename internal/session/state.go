package session

// State represents the transport state of the session.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateFinished
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// SyncState is the position synchronizer state.
type SyncState int

const (
	// SyncReadyPending means the engine has not reported a duration yet.
	SyncReadyPending SyncState = iota
	// SyncBound means the seek control max follows the track duration.
	SyncBound
)

func (s SyncState) String() string {
	switch s {
	case SyncReadyPending:
		return "ReadyPending"
	case SyncBound:
		return "Bound"
	default:
		return "Unknown"
	}
}

// Transport labels shown on the play/pause button.
const (
	LabelPlay  = "Play"
	LabelPause = "Pause"
)
