//go:build !vlc || android || ios

package engine

import "musicplayer/internal/session"

// VLC is unavailable unless built with -tags vlc.
type VLC struct{}

func NewVLC(Options) (*VLC, error) { return nil, ErrVLCUnavailable }

func (v *VLC) Release() error { return nil }

func (v *VLC) Open(string) (session.Handle, error) { return nil, ErrVLCUnavailable }
