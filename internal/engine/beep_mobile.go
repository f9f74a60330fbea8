//go:build android || ios

package engine

import (
	"fmt"
	"runtime"

	"musicplayer/internal/session"
)

// Beep is a placeholder on mobile; the speaker backend is desktop only.
type Beep struct{}

func NewBeep(Options) *Beep { return &Beep{} }

func (b *Beep) Release() error { return nil }

func (b *Beep) Open(path string) (session.Handle, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
}
