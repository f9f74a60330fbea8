// Package engine provides the media engines that back a playback session.
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"musicplayer/internal/session"
)

var (
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrUnsupportedPlatform = errors.New("playback not supported on this platform")
	ErrVLCUnavailable      = errors.New("built without libVLC (use -tags vlc)")
	ErrClosed              = errors.New("handle closed")
)

const defaultTickInterval = 200 * time.Millisecond

// Options are shared by every engine.
type Options struct {
	TickInterval time.Duration
	Logger       *log.Logger
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = defaultTickInterval
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Engine is a resolver that owns process-wide media resources.
type Engine interface {
	session.Resolver
	Release() error
}

// New returns the engine registered under name ("beep" or "vlc").
func New(name string, opts Options) (Engine, error) {
	opts = opts.withDefaults()
	switch name {
	case "", "beep":
		return NewBeep(opts), nil
	case "vlc":
		v, err := NewVLC(opts)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", name)
	}
}

// emitter fans engine events out to subscribers.
type emitter struct {
	mu   sync.Mutex
	subs map[int]func(session.Event)
	next int
}

func (e *emitter) subscribe(fn func(session.Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subs == nil {
		e.subs = map[int]func(session.Event){}
	}
	id := e.next
	e.next++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// emit calls every subscriber outside the lock.
func (e *emitter) emit(ev session.Event) {
	e.mu.Lock()
	fns := make([]func(session.Event), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (e *emitter) clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = nil
}

// clock calls tick every interval until stopped.
type clock struct {
	done chan struct{}
	once sync.Once
}

func startClock(interval time.Duration, tick func()) *clock {
	c := &clock{done: make(chan struct{})}
	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-c.done:
				return
			case <-t.C:
				tick()
			}
		}
	}()
	return c
}

func (c *clock) stop() {
	c.once.Do(func() { close(c.done) })
}
