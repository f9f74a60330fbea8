// Package session keeps the transport state of the loaded track in sync with
// the engine handle and the seek control.
//
// A Session is not safe for concurrent use. Every method, and every engine
// event, runs on the goroutine that owns it; engine handles reach it through
// the Dispatcher.
package session

import (
	"fmt"
	"log"
	"os"
	"time"
)

// Track is the currently loaded file.
type Track struct {
	Path     string
	Duration time.Duration // zero until the engine is ready

	handle Handle
}

// DurationMillis returns the duration in milliseconds.
func (t Track) DurationMillis() float64 { return millis(t.Duration) }

type Session struct {
	resolver Resolver
	view     View
	dispatch Dispatcher
	log      *log.Logger

	track       *Track
	state       State
	sync        SyncState
	seek        SeekControl
	volume      float64
	gen         uint64
	unsubscribe func()
	listeners   []func(State)
}

// Option configures a Session.
type Option func(*Session)

// WithView sets the view driven by the session.
func WithView(v View) Option { return func(s *Session) { s.view = v } }

// WithDispatcher sets how engine events reach the session goroutine.
func WithDispatcher(d Dispatcher) Option { return func(s *Session) { s.dispatch = d } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(s *Session) { s.log = l } }

func New(r Resolver, opts ...Option) *Session {
	s := &Session{
		resolver: r,
		view:     nopView{},
		dispatch: Direct,
		log:      log.Default(),
		volume:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State { return s.state }

func (s *Session) Sync() SyncState { return s.sync }

func (s *Session) Seek() SeekControl { return s.seek }

// Track returns the loaded track, if any.
func (s *Session) Track() (Track, bool) {
	if s.track == nil {
		return Track{}, false
	}
	return *s.track, true
}

// OnStateChange registers fn to be called after every state transition.
func (s *Session) OnStateChange(fn func(State)) {
	s.listeners = append(s.listeners, fn)
}

// Load replaces the current track with one bound to path.
//
// A missing file stops the current track without replacing it. Otherwise the
// current handle is released before the resolver builds the next one.
func (s *Session) Load(path string) error {
	info, err := os.Stat(path)
	if err == nil && !info.Mode().IsRegular() {
		err = fmt.Errorf("%s is not a regular file", path)
	}
	if err != nil {
		s.log.Printf("load %s: %v", path, err)
		s.stopCurrent()
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	s.release()

	h, err := s.resolver.Open(path)
	if err != nil {
		s.log.Printf("open %s: %v", path, err)
		return fmt.Errorf("%w: %w", ErrEngineConstruction, err)
	}

	s.gen++
	gen := s.gen
	s.track = &Track{Path: path, handle: h}
	s.sync = SyncReadyPending
	h.SetVolume(s.volume)
	s.setSeekValue(s.seek.Min)
	s.unsubscribe = h.Subscribe(func(e Event) {
		s.dispatch(func() { s.handleEvent(gen, e) })
	})
	s.log.Printf("loaded %s", path)
	return nil
}

// Toggle pauses a playing track and starts or resumes any other loaded track.
func (s *Session) Toggle() {
	if s.track == nil {
		return
	}
	h := s.track.handle
	if s.state == StatePlaying {
		if err := h.Pause(); err != nil {
			s.log.Printf("pause %s: %v", s.track.Path, err)
			return
		}
		s.view.SetTransportLabel(LabelPlay)
		s.setState(StatePaused)
		s.log.Printf("paused %s", s.track.Path)
		return
	}
	if err := h.Play(); err != nil {
		s.log.Printf("play %s: %v", s.track.Path, err)
		return
	}
	s.view.SetTransportLabel(LabelPause)
	s.setState(StatePlaying)
}

// PrepareOpen runs whenever the user invokes "open", whether or not a file is
// eventually chosen: playback is paused and the handle rewound.
func (s *Session) PrepareOpen() {
	if s.state == StatePlaying {
		if err := s.track.handle.Pause(); err != nil {
			s.log.Printf("pause %s: %v", s.track.Path, err)
		}
		s.view.SetTransportLabel(LabelPlay)
		s.setState(StatePaused)
		s.log.Printf("paused %s", s.track.Path)
	}
	s.stopCurrent()
}

// BeginSeek marks the seek control as being dragged by the user.
func (s *Session) BeginSeek() {
	s.seek.Dragging = true
}

// SeekTo forwards an interactive seek control value to the engine.
// It does nothing unless a drag is in progress, and nothing reaches the
// engine before it has reported its duration.
func (s *Session) SeekTo(value float64) {
	if !s.seek.Dragging {
		return
	}
	v := s.seek.clamp(value)
	s.seek.Value = v
	if v != value {
		s.view.SetSeekValue(v)
	}
	if s.track == nil || s.sync != SyncBound {
		return
	}
	if err := s.track.handle.Seek(fromMillis(v)); err != nil {
		s.log.Printf("seek %s to %.0fms: %v", s.track.Path, v, err)
	}
}

// EndSeek applies the final drag value and hands the control back to the
// engine clock.
func (s *Session) EndSeek(value float64) {
	if !s.seek.Dragging {
		return
	}
	s.SeekTo(value)
	s.seek.Dragging = false
}

// SetVolume sets the normalized volume for this and every later track.
func (s *Session) SetVolume(norm float64) {
	s.volume = min(max(norm, 0), 1)
	if s.track != nil {
		s.track.handle.SetVolume(s.volume)
	}
}

func (s *Session) Volume() float64 { return s.volume }

// Close releases the current handle.
func (s *Session) Close() {
	s.release()
}

func (s *Session) handleEvent(gen uint64, e Event) {
	if s.track == nil || gen != s.gen {
		return
	}
	switch e.Kind {
	case EventReady:
		s.bind(e.Duration)
	case EventPosition:
		if s.state != StatePlaying || s.seek.Dragging {
			return
		}
		s.setSeekValue(s.seek.clamp(millis(e.Position)))
	case EventStopped, EventFinished:
		s.setSeekValue(s.seek.Min)
		s.view.SetTransportLabel(LabelPlay)
		s.setState(StateFinished)
		s.log.Printf("%s: %s", s.track.Path, e.Kind)
	}
}

func (s *Session) bind(d time.Duration) {
	if d <= 0 {
		s.log.Printf("%s: duration unknown", s.track.Path)
		d = 0
	}
	s.track.Duration = d
	s.seek.Max = millis(d)
	s.view.SetSeekRange(s.seek.Min, s.seek.Max)
	s.seek.Value = s.seek.clamp(s.seek.Value)
	s.sync = SyncBound
}

// stopCurrent rewinds the loaded track, keeping it loaded.
func (s *Session) stopCurrent() {
	if s.track == nil {
		return
	}
	if err := s.track.handle.Stop(); err != nil {
		s.log.Printf("stop %s: %v", s.track.Path, err)
	}
	s.setSeekValue(s.seek.Min)
	s.view.SetTransportLabel(LabelPlay)
	s.setState(StateIdle)
}

// release tears down the current handle so no further events reach the session.
func (s *Session) release() {
	s.gen++
	if s.track == nil {
		return
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	h := s.track.handle
	if err := h.Stop(); err != nil {
		s.log.Printf("stop %s: %v", s.track.Path, err)
	}
	if err := h.Close(); err != nil {
		s.log.Printf("close %s: %v", s.track.Path, err)
	}
	s.track = nil
	s.seek.Dragging = false
	s.view.SetTransportLabel(LabelPlay)
	s.setState(StateIdle)
}

func (s *Session) setSeekValue(v float64) {
	s.seek.Value = v
	s.view.SetSeekValue(v)
}

func (s *Session) setState(st State) {
	if s.state == st {
		return
	}
	s.state = st
	for _, fn := range s.listeners {
		fn(st)
	}
}

type nopView struct{}

func (nopView) SetTransportLabel(string)      {}
func (nopView) SetSeekRange(float64, float64) {}
func (nopView) SetSeekValue(float64)          {}
