package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Seeker receives the user's interaction with the seek bar.
type Seeker interface {
	BeginSeek()
	SeekTo(value float64)
	EndSeek(value float64)
}

// seekBar is a millisecond slider flanked by position and duration labels.
// Values written by the program never reach the Seeker.
type seekBar struct {
	slider   *widget.Slider
	posLabel *widget.Label
	durLabel *widget.Label

	seeker   Seeker
	updating bool
	dragging bool
}

func newSeekBar() *seekBar {
	b := &seekBar{
		slider:   widget.NewSlider(0, 1),
		posLabel: widget.NewLabel(formatDur(0)),
		durLabel: widget.NewLabel(formatDur(0)),
	}
	b.slider.Step = 1
	b.slider.OnChanged = b.changed
	b.slider.OnChangeEnded = b.changeEnded
	b.slider.Disable()
	return b
}

func (b *seekBar) bind(s Seeker) { b.seeker = s }

func (b *seekBar) object() fyne.CanvasObject {
	return container.NewBorder(nil, nil, b.posLabel, b.durLabel, b.slider)
}

// changed fires for drags, taps and keys. The first change of a gesture
// opens a seek.
func (b *seekBar) changed(v float64) {
	if b.updating || b.seeker == nil {
		return
	}
	if !b.dragging {
		b.dragging = true
		b.seeker.BeginSeek()
	}
	b.posLabel.SetText(formatDur(millis(v)))
	b.seeker.SeekTo(v)
}

func (b *seekBar) changeEnded(v float64) {
	if b.updating || b.seeker == nil {
		return
	}
	if !b.dragging {
		b.seeker.BeginSeek()
	}
	b.dragging = false
	b.seeker.EndSeek(v)
}

// setRange shows a duration of max milliseconds. An empty range disables
// the slider.
func (b *seekBar) setRange(min, max float64) {
	b.updating = true
	defer func() { b.updating = false }()

	b.durLabel.SetText(formatDur(millis(max - min)))
	if max <= min {
		b.slider.Min, b.slider.Max = min, min+1
		b.slider.SetValue(min)
		b.slider.Disable()
		return
	}
	b.slider.Min, b.slider.Max = min, max
	b.slider.Enable()
	b.slider.Refresh()
}

func (b *seekBar) setValue(v float64) {
	b.updating = true
	defer func() { b.updating = false }()

	b.posLabel.SetText(formatDur(millis(v)))
	b.slider.SetValue(v)
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
