package session

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// journal records engine calls across handles so tests can check ordering.
type journal []string

func (j *journal) add(s string) { *j = append(*j, s) }

type fakeHandle struct {
	path     string
	journal  *journal
	playErr  error
	volume   float64
	seeks    []time.Duration
	subs     map[int]func(Event)
	nextSub  int
	lastSub  func(Event)
	closed   bool
	playing  bool
	stops    int
	duration time.Duration
}

func (h *fakeHandle) Play() error {
	if h.playErr != nil {
		return h.playErr
	}
	h.journal.add("play " + h.path)
	h.playing = true
	return nil
}

func (h *fakeHandle) Pause() error {
	h.journal.add("pause " + h.path)
	h.playing = false
	return nil
}

func (h *fakeHandle) Stop() error {
	h.journal.add("stop " + h.path)
	h.playing = false
	h.stops++
	return nil
}

func (h *fakeHandle) Seek(pos time.Duration) error {
	h.seeks = append(h.seeks, pos)
	return nil
}

func (h *fakeHandle) SetVolume(norm float64) { h.volume = norm }

func (h *fakeHandle) Position() time.Duration { return 0 }

func (h *fakeHandle) Duration() (time.Duration, bool) { return h.duration, h.duration > 0 }

func (h *fakeHandle) Subscribe(fn func(Event)) func() {
	if h.subs == nil {
		h.subs = map[int]func(Event){}
	}
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	h.lastSub = fn
	return func() { delete(h.subs, id) }
}

func (h *fakeHandle) Close() error {
	h.journal.add("close " + h.path)
	h.closed = true
	return nil
}

// emit delivers e to the live subscribers.
func (h *fakeHandle) emit(e Event) {
	for _, fn := range h.subs {
		fn(e)
	}
}

type fakeResolver struct {
	journal journal
	handles []*fakeHandle
	err     error
}

func (r *fakeResolver) Open(path string) (Handle, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.journal.add("open " + path)
	h := &fakeHandle{path: path, journal: &r.journal}
	r.handles = append(r.handles, h)
	return h, nil
}

func (r *fakeResolver) last() *fakeHandle { return r.handles[len(r.handles)-1] }

type fakeView struct {
	label     string
	min, max  float64
	value     float64
	valueSets int
}

func (v *fakeView) SetTransportLabel(label string) { v.label = label }

func (v *fakeView) SetSeekRange(lo, hi float64) { v.min, v.max = lo, hi }

func (v *fakeView) SetSeekValue(value float64) {
	v.value = value
	v.valueSets++
}

func newTestSession(t *testing.T) (*Session, *fakeResolver, *fakeView) {
	t.Helper()
	r := &fakeResolver{}
	v := &fakeView{label: LabelPlay}
	s := New(r, WithView(v), WithLogger(log.New(io.Discard, "", 0)))
	return s, r, v
}

func writeTrack(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio"), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

var errBoom = errors.New("boom")
