package controller

import (
	"errors"
	"image"
	"log"
	"path/filepath"

	"musicplayer/internal/library"
	"musicplayer/internal/session"
	"musicplayer/internal/state"
	"musicplayer/internal/tags"
)

// Display shows what the controller learns about the open track.
type Display interface {
	SetSongInfo(title, artist, album string)
	SetCoverArt(img image.Image)
	SetDirectoryList(names []string)
}

// Presence publishes the current track somewhere outside the app.
type Presence interface {
	UpdatePresence(trackPath, artist, title string, paused bool) error
	ClearPresence() error
}

// Controller ties the open/select/toggle actions of the window to the
// playback session, tag reader, directory listing and saved state.
type Controller struct {
	session  *session.Session
	display  Display
	tags     *tags.Reader
	filter   library.Filter
	presence Presence
	store    *state.Store
	log      *log.Logger

	current string
	info    tags.Info
}

type Option func(*Controller)

func WithTagReader(r *tags.Reader) Option { return func(c *Controller) { c.tags = r } }

func WithFilter(f library.Filter) Option { return func(c *Controller) { c.filter = f } }

func WithPresence(p Presence) Option { return func(c *Controller) { c.presence = p } }

func WithStore(st *state.Store) Option { return func(c *Controller) { c.store = st } }

func WithLogger(l *log.Logger) Option { return func(c *Controller) { c.log = l } }

func New(s *session.Session, d Display, opts ...Option) *Controller {
	c := &Controller{
		session: s,
		display: d,
		tags:    tags.NewReader(0),
		filter:  library.NewFilter(nil),
		log:     log.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.store != nil {
		s.SetVolume(c.store.State.Settings.Volume)
	}
	s.OnStateChange(func(session.State) { c.publish() })
	return c
}

// Current returns the path of the last opened file, if any.
func (c *Controller) Current() string { return c.current }

// LastDir is where the open dialog should start.
func (c *Controller) LastDir() string {
	if c.store == nil {
		return ""
	}
	return c.store.State.LastDir
}

// OpenRequested runs as soon as the user asks to open a file, before the
// dialog has an answer. A playing track is paused and rewound either way.
func (c *Controller) OpenRequested() {
	c.session.PrepareOpen()
}

func (c *Controller) OpenCanceled() {
	c.log.Printf("open canceled")
}

// OpenFile loads path into the session and refreshes the song info, cover
// and directory list. A file that cannot be found changes nothing on
// screen. When only the engine fails, the tags and list are still shown and
// the engine error is returned.
func (c *Controller) OpenFile(path string) error {
	loadErr := c.session.Load(path)
	if errors.Is(loadErr, session.ErrSourceUnavailable) {
		return loadErr
	}

	info, err := c.tags.Read(path)
	if err != nil {
		c.log.Printf("tags: %v", err)
	}
	c.current = path
	c.info = info
	c.display.SetSongInfo(info.Title, info.Artist, info.Album)
	c.display.SetCoverArt(info.Artwork)

	names, err := c.filter.Siblings(path)
	if err != nil {
		c.log.Printf("list %s: %v", filepath.Dir(path), err)
	}
	c.display.SetDirectoryList(names)

	if c.store != nil {
		c.store.State.LastDir = filepath.Dir(path)
	}
	c.publish()
	return loadErr
}

// SelectSibling opens name from the directory of the current file.
func (c *Controller) SelectSibling(name string) error {
	if c.current == "" {
		return nil
	}
	path := filepath.Join(filepath.Dir(c.current), name)
	if path == c.current {
		return nil
	}
	return c.OpenFile(path)
}

func (c *Controller) TogglePlayback() {
	c.session.Toggle()
}

func (c *Controller) SetVolume(v float64) {
	c.session.SetVolume(v)
	if c.store != nil {
		c.store.State.Settings.Volume = c.session.Volume()
	}
}

func (c *Controller) Volume() float64 { return c.session.Volume() }

// Theme is the saved theme name, "light" when nothing is saved.
func (c *Controller) Theme() string {
	if c.store == nil {
		return "light"
	}
	return c.store.State.Settings.Theme
}

func (c *Controller) SetTheme(theme string) {
	if c.store != nil {
		c.store.State.Settings.Theme = theme
	}
}

// Close releases the track, clears the presence and saves state.
func (c *Controller) Close() error {
	c.session.Close()
	if c.presence != nil {
		if err := c.presence.ClearPresence(); err != nil {
			c.log.Printf("presence: %v", err)
		}
	}
	if c.store == nil {
		return nil
	}
	return c.store.Save()
}

func (c *Controller) publish() {
	if c.presence == nil || c.current == "" {
		return
	}
	var err error
	switch c.session.State() {
	case session.StatePlaying:
		err = c.presence.UpdatePresence(c.current, c.info.Artist, c.info.Title, false)
	case session.StatePaused:
		err = c.presence.UpdatePresence(c.current, c.info.Artist, c.info.Title, true)
	default:
		err = c.presence.ClearPresence()
	}
	if err != nil {
		c.log.Printf("presence: %v", err)
	}
}
