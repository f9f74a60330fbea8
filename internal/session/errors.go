package session

import "errors"

var (
	// ErrSourceUnavailable means the path does not reference a readable file.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrEngineConstruction means the resolver could not build a handle.
	ErrEngineConstruction = errors.New("engine construction failed")
)
