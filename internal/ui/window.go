package ui

import (
	"errors"
	"image"
	"log"
	"path/filepath"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"musicplayer/internal/session"
)

// Controls are the actions the window forwards to the music controller.
type Controls interface {
	OpenRequested()
	OpenCanceled()
	OpenFile(path string) error
	SelectSibling(name string) error
	Current() string
	LastDir() string
	TogglePlayback()
	Volume() float64
	SetVolume(v float64)
	Theme() string
	SetTheme(theme string)
}

// Window is the player window. It is the view of the playback session and
// the display of the controller.
type Window struct {
	app  fyne.App
	win  fyne.Window
	exts []string
	log  *log.Logger

	ctrl Controls

	playBtn     *widget.Button
	titleLbl    *widget.Label
	artistLbl   *widget.Label
	albumLbl    *widget.Label
	cover       *canvas.Image
	list        *widget.List
	names       []string
	highlighted string
	selecting   bool
	seek        *seekBar
	volSlider   *widget.Slider
	darkCheck   *widget.Check
}

// New builds the window widgets. Nothing is interactive until Bind.
// exts are the extensions offered by the open dialog, with their dots.
func New(a fyne.App, exts []string, logger *log.Logger) *Window {
	if logger == nil {
		logger = log.Default()
	}
	w := &Window{
		app:  a,
		win:  a.NewWindow("Music Player"),
		exts: exts,
		log:  logger,
		seek: newSeekBar(),
	}
	w.win.Resize(fyne.NewSize(760, 480))

	w.playBtn = widget.NewButtonWithIcon("Play", theme.MediaPlayIcon(), nil)
	w.titleLbl = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	w.artistLbl = widget.NewLabel("")
	w.albumLbl = widget.NewLabel("")
	for _, l := range []*widget.Label{w.titleLbl, w.artistLbl, w.albumLbl} {
		l.Wrapping = fyne.TextTruncate
	}

	w.cover = canvas.NewImageFromResource(theme.FileImageIcon())
	w.cover.FillMode = canvas.ImageFillContain
	w.cover.SetMinSize(fyne.NewSize(240, 240))

	w.list = widget.NewList(
		func() int { return len(w.names) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && i < len(w.names) {
				o.(*widget.Label).SetText(w.names[i])
			}
		},
	)

	w.volSlider = widget.NewSlider(0, 1)
	w.volSlider.Step = 0.01
	w.volSlider.Value = 1

	w.darkCheck = widget.NewCheck("Dark theme", nil)
	return w
}

// Bind wires the widgets to the controller and the seek bar to the session.
func (w *Window) Bind(ctrl Controls, seeker Seeker) {
	w.ctrl = ctrl
	w.seek.bind(seeker)

	w.playBtn.OnTapped = ctrl.TogglePlayback
	w.list.OnSelected = func(id widget.ListItemID) {
		if w.selecting || id < 0 || id >= len(w.names) {
			return
		}
		name := w.names[id]
		w.opened(name, ctrl.SelectSibling(name))
	}

	w.volSlider.Value = ctrl.Volume()
	w.volSlider.OnChanged = ctrl.SetVolume
	w.volSlider.Refresh()

	dark := ctrl.Theme() == "dark"
	w.applyTheme(dark)
	w.darkCheck.Checked = dark
	w.darkCheck.OnChanged = func(on bool) {
		w.applyTheme(on)
		if on {
			ctrl.SetTheme("dark")
		} else {
			ctrl.SetTheme("light")
		}
	}
	w.darkCheck.Refresh()

	openKey := &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}
	openItem := fyne.NewMenuItem("Open…", w.ShowOpen)
	openItem.Shortcut = openKey
	w.win.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File", openItem)))
	w.win.Canvas().AddShortcut(openKey, func(fyne.Shortcut) { w.ShowOpen() })
	w.win.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		if e.Name == fyne.KeySpace {
			ctrl.TogglePlayback()
		}
	})

	w.win.SetContent(w.layout())
}

func (w *Window) layout() fyne.CanvasObject {
	openBtn := widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), w.ShowOpen)
	info := container.NewVBox(w.titleLbl, w.artistLbl, w.albumLbl)
	nowPlaying := container.NewBorder(nil, info, nil, nil, w.cover)

	volume := container.NewBorder(nil, nil, widget.NewIcon(theme.VolumeUpIcon()), nil, w.volSlider)
	controls := container.NewBorder(
		nil, nil,
		container.NewHBox(openBtn, w.playBtn),
		container.NewGridWrap(fyne.NewSize(160, volume.MinSize().Height), volume),
		w.seek.object(),
	)

	split := container.NewHSplit(nowPlaying, w.list)
	split.Offset = 0.45
	return container.NewBorder(nil, container.NewVBox(controls, w.darkCheck), nil, nil, split)
}

// ShowOpen asks for a file. The controller hears about the request before
// the dialog is shown.
func (w *Window) ShowOpen() {
	w.ctrl.OpenRequested()

	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			w.log.Printf("open dialog: %v", err)
			return
		}
		if rc == nil {
			w.ctrl.OpenCanceled()
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		w.opened(path, w.ctrl.OpenFile(path))
	}, w.win)
	d.SetFilter(storage.NewExtensionFileFilter(w.exts))
	if dir := w.ctrl.LastDir(); dir != "" {
		if l, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			d.SetLocation(l)
		}
	}
	d.Show()
}

// opened marks path in the list after an open attempt. An engine failure
// still shows the file's tags and siblings, so only a missing file leaves
// the list alone.
func (w *Window) opened(path string, err error) {
	if err != nil {
		w.log.Printf("open %s: %v", path, err)
		if errors.Is(err, session.ErrSourceUnavailable) {
			return
		}
	}
	w.highlight(path)
}

// ShowAndRun shows the window and runs the app event loop.
func (w *Window) ShowAndRun() { w.win.ShowAndRun() }

func (w *Window) SetTransportLabel(label string) {
	icon := theme.MediaPlayIcon()
	if label != session.LabelPlay {
		icon = theme.MediaPauseIcon()
	}
	w.playBtn.SetText(label)
	w.playBtn.SetIcon(icon)
}

func (w *Window) SetSeekRange(min, max float64) { w.seek.setRange(min, max) }

func (w *Window) SetSeekValue(value float64) { w.seek.setValue(value) }

func (w *Window) SetSongInfo(title, artist, album string) {
	w.titleLbl.SetText(title)
	w.artistLbl.SetText(artist)
	w.albumLbl.SetText(album)
}

func (w *Window) SetCoverArt(img image.Image) {
	if img == nil {
		w.cover.Image = nil
		w.cover.Resource = theme.FileImageIcon()
	} else {
		w.cover.Resource = nil
		w.cover.Image = img
	}
	w.cover.Refresh()
}

// SetDirectoryList replaces the list contents.
func (w *Window) SetDirectoryList(names []string) {
	w.names = names
	w.highlighted = ""
	w.selecting = true
	w.list.UnselectAll()
	w.selecting = false
	w.list.Refresh()
}

// highlight selects the list row of path without reopening it.
func (w *Window) highlight(path string) {
	name := filepath.Base(path)
	i := slices.Index(w.names, name)
	if i < 0 {
		return
	}
	w.highlighted = name
	w.selecting = true
	w.list.Select(i)
	w.selecting = false
}

func (w *Window) applyTheme(dark bool) {
	if dark {
		w.app.Settings().SetTheme(theme.DarkTheme())
	} else {
		w.app.Settings().SetTheme(theme.LightTheme())
	}
}
