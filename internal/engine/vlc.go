//go:build vlc && !android && !ios

package engine

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	vlc "github.com/adrg/libvlc-go/v3"

	"musicplayer/internal/session"
)

// VLC plays every format libVLC understands, including m4a and aiff.
type VLC struct {
	opts Options
}

func NewVLC(opts Options) (*VLC, error) {
	if err := vlc.Init("--no-video", "--quiet"); err != nil {
		return nil, err
	}
	return &VLC{opts: opts.withDefaults()}, nil
}

func (v *VLC) Release() error { return vlc.Release() }

func (v *VLC) Open(path string) (session.Handle, error) {
	p, err := vlc.NewPlayer()
	if err != nil {
		return nil, err
	}
	m, err := vlc.NewMediaFromPath(path)
	if err != nil {
		_ = p.Release()
		return nil, err
	}
	if err := p.SetMedia(m); err != nil {
		_ = m.Release()
		_ = p.Release()
		return nil, err
	}
	_ = m.Release()

	em, err := p.EventManager()
	if err != nil {
		_ = p.Release()
		return nil, err
	}
	h := &vlcHandle{path: path, log: v.opts.Logger, p: p, em: em}
	// libVLC forbids calling back into the player from its event thread.
	for event, fn := range map[vlc.Event]func(){
		vlc.MediaPlayerLengthChanged: h.ready,
		vlc.MediaPlayerPlaying:       h.started,
		vlc.MediaPlayerEndReached:    h.finished,
		vlc.MediaPlayerStopped:       h.stopped,
	} {
		id, err := em.Attach(event, func(vlc.Event, interface{}) { go fn() }, nil)
		if err != nil {
			em.Detach(h.ids...)
			_ = p.Release()
			return nil, err
		}
		h.ids = append(h.ids, id)
	}
	h.clock = startClock(v.opts.TickInterval, h.tick)
	return h, nil
}

type vlcHandle struct {
	path string
	log  *log.Logger

	mu     sync.Mutex
	p      *vlc.Player
	em     *vlc.EventManager
	ids    []vlc.EventID
	paused bool
	closed bool
	// startAt is a seek made while stopped, applied once playback starts.
	startAt time.Duration

	// Stopped events caused by our own Stop calls are not terminal signals.
	ownStops atomic.Int32

	events emitter
	clock  *clock
}

func (h *vlcHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if h.paused {
		h.paused = false
		return h.p.SetPause(false)
	}
	return h.p.Play()
}

func (h *vlcHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	st, err := h.p.MediaState()
	if err != nil {
		return err
	}
	if !pausable(st) {
		return nil
	}
	h.paused = true
	return h.p.SetPause(true)
}

func (h *vlcHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	return h.stop()
}

func (h *vlcHandle) stop() error {
	h.paused = false
	h.startAt = 0
	// libVLC only reports Stopped when there was something to stop.
	if st, err := h.p.MediaState(); err == nil && st != vlc.MediaStopped && st != vlc.MediaNothingSpecial {
		h.ownStops.Add(1)
	}
	return h.p.Stop()
}

func (h *vlcHandle) Seek(pos time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	st, err := h.p.MediaState()
	if err != nil {
		return err
	}
	if !seekable(st) {
		// libVLC drops seeks on a stopped player.
		h.startAt = max(pos, 0)
		return nil
	}
	return h.p.SetMediaTime(int(pos / time.Millisecond))
}

func (h *vlcHandle) SetVolume(norm float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	// VLC volume is 0-100
	if err := h.p.SetVolume(int(min(max(norm, 0), 1) * 100)); err != nil {
		h.log.Printf("volume %s: %v", h.path, err)
	}
}

func (h *vlcHandle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0
	}
	ms, err := h.p.MediaTime()
	if err != nil || ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func (h *vlcHandle) Duration() (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, false
	}
	ms, err := h.p.MediaLength()
	if err != nil || ms <= 0 {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

// Subscribe registers fn. libVLC only knows the length once the media is
// parsed, so Ready usually follows the first Play.
func (h *vlcHandle) Subscribe(fn func(session.Event)) func() {
	unsubscribe := h.events.subscribe(fn)
	go func() {
		if d, ok := h.Duration(); ok {
			fn(session.Event{Kind: session.EventReady, Duration: d})
		}
	}()
	return unsubscribe
}

func (h *vlcHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.em.Detach(h.ids...)
	_ = h.stop()
	err := h.p.Release()
	h.mu.Unlock()

	h.clock.stop()
	h.events.clear()
	return err
}

func (h *vlcHandle) tick() {
	h.mu.Lock()
	if h.closed || !h.p.IsPlaying() {
		h.mu.Unlock()
		return
	}
	ms, err := h.p.MediaTime()
	h.mu.Unlock()
	if err != nil || ms < 0 {
		return
	}
	h.events.emit(session.Event{Kind: session.EventPosition, Position: time.Duration(ms) * time.Millisecond})
}

func (h *vlcHandle) ready() {
	d, _ := h.Duration()
	h.events.emit(session.Event{Kind: session.EventReady, Duration: d})
}

// started applies a seek made while the player was stopped.
func (h *vlcHandle) started() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.startAt == 0 {
		return
	}
	at := h.startAt
	h.startAt = 0
	if err := h.p.SetMediaTime(int(at / time.Millisecond)); err != nil {
		h.log.Printf("seek %s to %s: %v", h.path, at, err)
	}
}

// finished rewinds the player so the next Play starts over.
func (h *vlcHandle) finished() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	if err := h.stop(); err != nil {
		h.log.Printf("stop %s: %v", h.path, err)
	}
	h.mu.Unlock()
	h.events.emit(session.Event{Kind: session.EventFinished})
}

func (h *vlcHandle) stopped() {
	if h.ownStops.Load() > 0 {
		h.ownStops.Add(-1)
		return
	}
	h.events.emit(session.Event{Kind: session.EventStopped})
}

// pausable reports whether SetPause takes effect in st. Play is
// asynchronous, so a player still opening or buffering counts as playing.
func pausable(st vlc.MediaState) bool {
	switch st {
	case vlc.MediaOpening, vlc.MediaBuffering, vlc.MediaPlaying:
		return true
	}
	return false
}

// seekable reports whether SetMediaTime takes effect in st.
func seekable(st vlc.MediaState) bool {
	switch st {
	case vlc.MediaBuffering, vlc.MediaPlaying, vlc.MediaPaused:
		return true
	}
	return false
}
