package ui

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicplayer/internal/session"
)

func TestFormatDur(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "00:00"},
		{0, "00:00"},
		{999 * time.Millisecond, "00:00"},
		{61 * time.Second, "01:01"},
		{59*time.Minute + 59*time.Second, "59:59"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDur(tt.in), tt.in.String())
	}
}

type recordingSeeker struct {
	calls []string
	last  float64
}

func (r *recordingSeeker) BeginSeek() { r.calls = append(r.calls, "begin") }

func (r *recordingSeeker) SeekTo(v float64) {
	r.calls = append(r.calls, "seek")
	r.last = v
}

func (r *recordingSeeker) EndSeek(v float64) {
	r.calls = append(r.calls, "end")
	r.last = v
}

func newBoundSeekBar(t *testing.T) (*seekBar, *recordingSeeker) {
	t.Helper()
	test.NewTempApp(t)
	b := newSeekBar()
	rec := &recordingSeeker{}
	b.bind(rec)
	return b, rec
}

func TestSeekBar_DragIsOneGesture(t *testing.T) {
	b, rec := newBoundSeekBar(t)
	b.setRange(0, 10_000)

	b.slider.OnChanged(1000)
	b.slider.OnChanged(2000)
	b.slider.OnChangeEnded(2500)

	assert.Equal(t, []string{"begin", "seek", "seek", "end"}, rec.calls)
	assert.InDelta(t, 2500, rec.last, 1e-9)
	assert.False(t, b.dragging)
	assert.Equal(t, "00:02", b.posLabel.Text)
}

func TestSeekBar_TapWithoutChangeStillSeeks(t *testing.T) {
	b, rec := newBoundSeekBar(t)
	b.setRange(0, 10_000)

	b.slider.OnChangeEnded(4000)

	assert.Equal(t, []string{"begin", "end"}, rec.calls)
}

func TestSeekBar_ProgrammaticWritesAreSilent(t *testing.T) {
	b, rec := newBoundSeekBar(t)

	b.setRange(0, 180_000)
	b.setValue(61_000)

	assert.Empty(t, rec.calls)
	assert.InDelta(t, 61_000, b.slider.Value, 1e-9)
	assert.Equal(t, "01:01", b.posLabel.Text)
	assert.Equal(t, "03:00", b.durLabel.Text)
	assert.False(t, b.slider.Disabled())
}

func TestSeekBar_EmptyRangeDisables(t *testing.T) {
	b, _ := newBoundSeekBar(t)
	b.setRange(0, 180_000)

	b.setRange(0, 0)

	assert.True(t, b.slider.Disabled())
	assert.Equal(t, "00:00", b.durLabel.Text)
	assert.InDelta(t, 0, b.slider.Value, 1e-9)
}

func TestWindow_ViewAndDisplay(t *testing.T) {
	a := test.NewTempApp(t)
	w := New(a, []string{".mp3"}, log.New(io.Discard, "", 0))

	w.SetTransportLabel("Pause")
	assert.Equal(t, "Pause", w.playBtn.Text)
	w.SetTransportLabel("Play")
	assert.Equal(t, "Play", w.playBtn.Text)

	w.SetSongInfo("Song", "Artist", "Album")
	assert.Equal(t, "Song", w.titleLbl.Text)
	assert.Equal(t, "Artist", w.artistLbl.Text)
	assert.Equal(t, "Album", w.albumLbl.Text)

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	w.SetCoverArt(img)
	assert.Equal(t, image.Image(img), w.cover.Image)
	w.SetCoverArt(nil)
	assert.Nil(t, w.cover.Image)
	assert.NotNil(t, w.cover.Resource)

	w.SetDirectoryList([]string{"A.wav", "b.mp3"})
	require.Equal(t, 2, w.list.Length())
	w.highlight("/music/b.mp3")
	w.SetDirectoryList([]string{"c.flac"})
	assert.Equal(t, 1, w.list.Length())
}

func TestWindow_OpenedHighlightsUnlessMissing(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      string
		wantInLog string
	}{
		{"loaded", nil, "b.mp3", ""},
		{"engine failure", fmt.Errorf("%w: no decoder", session.ErrEngineConstruction), "b.mp3", "no decoder"},
		{"missing file", fmt.Errorf("%w: gone", session.ErrSourceUnavailable), "", "source unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := New(test.NewTempApp(t), []string{".mp3"}, log.New(&buf, "", 0))
			w.SetDirectoryList([]string{"A.wav", "b.mp3"})

			w.opened("/music/b.mp3", tt.err)

			assert.Equal(t, tt.want, w.highlighted)
			if tt.wantInLog == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), tt.wantInLog)
			}
		})
	}
}

func TestWindow_NewListClearsHighlight(t *testing.T) {
	w := New(test.NewTempApp(t), []string{".mp3"}, log.New(io.Discard, "", 0))
	w.SetDirectoryList([]string{"A.wav", "b.mp3"})
	w.opened("/music/A.wav", nil)
	require.Equal(t, "A.wav", w.highlighted)

	w.SetDirectoryList([]string{"c.flac"})

	assert.Empty(t, w.highlighted)
}
