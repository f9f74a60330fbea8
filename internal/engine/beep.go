//go:build !android && !ios

package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"

	"musicplayer/internal/session"
)

var (
	speakerOnce sync.Once
	speakerErr  error
	// Use a fixed speaker sample rate and resample inputs to avoid reinitializing the audio device.
	speakerSR = beep.SampleRate(44100)
)

func ensureSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerSR, speakerSR.N(time.Second/10))
	})
	return speakerErr
}

// Beep decodes mp3, wav, flac and ogg files with beep and plays them on the
// shared speaker.
type Beep struct {
	opts Options
}

func NewBeep(opts Options) *Beep { return &Beep{opts: opts.withDefaults()} }

// Release clears the speaker mixer.
func (b *Beep) Release() error {
	if speakerErr == nil {
		speaker.Clear()
	}
	return nil
}

func (b *Beep) Open(path string) (session.Handle, error) {
	st, format, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	if err := ensureSpeaker(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	h := &beepHandle{
		path:    path,
		log:     b.opts.Logger,
		stream:  st,
		sr:      format.SampleRate,
		volNorm: 1,
	}
	h.rebuild()
	h.clock = startClock(b.opts.TickInterval, h.tick)
	return h, nil
}

func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3", ".wav", ".flac", ".ogg":
	case ".m4a", ".aiff":
		return nil, beep.Format{}, fmt.Errorf(`%w: %s needs engine = "vlc" in config.toml`, ErrUnsupportedFormat, ext)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	var (
		st     beep.StreamSeekCloser
		format beep.Format
	)
	switch ext {
	case ".mp3":
		st, format, err = mp3.Decode(f)
	case ".wav":
		st, format, err = wav.Decode(f)
	case ".flac":
		st, format, err = flac.Decode(f)
	case ".ogg":
		st, format, err = vorbis.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return st, format, nil
}

// volDB maps normalized [0..1] to dB/10 range [-4..0] (i.e., -40dB to 0dB).
func volDB(norm float64) float64 {
	return -4 + 4*min(max(norm, 0), 1)
}

type beepHandle struct {
	path string
	log  *log.Logger

	mu      sync.Mutex
	stream  beep.StreamSeekCloser // original decoder stream (seekable)
	sr      beep.SampleRate       // original file's sample rate
	vol     *effects.Volume
	ctrl    *beep.Ctrl
	volNorm float64
	started bool   // ctrl is in the speaker mixer
	playing bool   // started and not paused
	run     uint64 // bumped whenever the mixer entry is dropped
	closed  bool

	events emitter
	clock  *clock
}

// rebuild resets the resampler after a seek. Callers hold speaker.Lock when
// the stream is in the mixer.
func (h *beepHandle) rebuild() {
	h.vol = &effects.Volume{
		Streamer: beep.Resample(4, h.sr, speakerSR, h.stream),
		Base:     10,
		Volume:   volDB(h.volNorm),
	}
	if h.ctrl == nil {
		h.ctrl = &beep.Ctrl{Streamer: h.vol, Paused: true}
		return
	}
	h.ctrl.Streamer = h.vol
}

func (h *beepHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if h.started {
		speaker.Lock()
		h.ctrl.Paused = false
		speaker.Unlock()
		h.playing = true
		return nil
	}
	h.started = true
	h.playing = true
	h.run++
	run := h.run
	h.ctrl.Paused = false
	speaker.Play(beep.Seq(h.ctrl, beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker locked.
		go h.finish(run)
	})))
	return nil
}

func (h *beepHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if h.started {
		speaker.Lock()
		h.ctrl.Paused = true
		speaker.Unlock()
	}
	h.playing = false
	return nil
}

// Stop removes the stream from the mixer and rewinds it.
func (h *beepHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.detach()
	return h.rewind()
}

func (h *beepHandle) Seek(pos time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	target := h.sr.N(pos)
	if target < 0 {
		target = 0
	}
	// Some decoders (e.g., mp3) panic if seeking to exactly l; clamp to [0, l-1]
	if l := h.stream.Len(); l > 0 && target >= l {
		target = l - 1
	}
	speaker.Lock()
	defer speaker.Unlock()
	if err := h.stream.Seek(target); err != nil {
		return err
	}
	h.rebuild()
	return nil
}

// SetVolume sets volume with normalized value in [0,1]. 0 is near silent, 1 is 0dB.
func (h *beepHandle) SetVolume(norm float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volNorm = norm
	if h.vol == nil {
		return
	}
	speaker.Lock()
	h.vol.Volume = volDB(norm)
	speaker.Unlock()
}

func (h *beepHandle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position()
}

func (h *beepHandle) position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return h.sr.D(h.stream.Position())
}

func (h *beepHandle) Duration() (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	l := h.stream.Len()
	if l <= 0 || h.sr == 0 {
		return 0, false
	}
	return h.sr.D(l), true
}

// Subscribe registers fn and reports readiness right away: beep knows the
// length as soon as the decoder is built.
func (h *beepHandle) Subscribe(fn func(session.Event)) func() {
	unsubscribe := h.events.subscribe(fn)
	d, _ := h.Duration()
	go fn(session.Event{Kind: session.EventReady, Duration: d})
	return unsubscribe
}

func (h *beepHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.detach()
	h.closed = true
	h.mu.Unlock()

	h.clock.stop()
	h.events.clear()
	return h.stream.Close()
}

func (h *beepHandle) tick() {
	h.mu.Lock()
	if h.closed || !h.playing {
		h.mu.Unlock()
		return
	}
	pos := h.position()
	h.mu.Unlock()
	h.events.emit(session.Event{Kind: session.EventPosition, Position: pos})
}

// finish runs once the decoder is drained. The stream is rewound so the next
// Play starts over.
func (h *beepHandle) finish(run uint64) {
	h.mu.Lock()
	if h.closed || run != h.run {
		h.mu.Unlock()
		return
	}
	h.started = false
	h.playing = false
	h.run++
	err := h.rewind()
	h.mu.Unlock()
	if err != nil {
		h.log.Printf("rewind %s: %v", h.path, err)
	}
	h.events.emit(session.Event{Kind: session.EventFinished})
}

// detach drops the stream from the mixer. Callers hold h.mu.
func (h *beepHandle) detach() {
	if h.started {
		// Single-player app: the mixer only ever holds this handle's stream.
		speaker.Clear()
		h.started = false
		h.run++
	}
	h.playing = false
}

// rewind seeks back to the start and pauses. Callers hold h.mu.
func (h *beepHandle) rewind() error {
	speaker.Lock()
	defer speaker.Unlock()
	h.ctrl.Paused = true
	if err := h.stream.Seek(0); err != nil {
		return err
	}
	h.rebuild()
	return nil
}
