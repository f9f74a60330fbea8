//go:build !android && !ios

package discord

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBrokenPipe(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("write unix ->/run/user/1000/discord-ipc-0: write: broken pipe"), true},
		{errors.New("use of closed network connection"), true},
		{errors.New("read: connection reset by peer"), true},
		{errors.New("unexpected EOF"), true},
		{errors.New("invalid client id"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, brokenPipe(tt.err), tt.err.Error())
	}
}

func TestUpdatePresence_DisconnectedWithinCooldownIsNoop(t *testing.T) {
	c := New("0")
	c.mu.Lock()
	c.lastConnectAttempt = time.Now()
	c.mu.Unlock()

	err := c.UpdatePresence("/music/a.mp3", "Artist", "Title", false)

	assert.NoError(t, err)
	assert.Empty(t, c.lastTrack, "nothing is recorded while disconnected")
}

func TestClearPresence_Disconnected(t *testing.T) {
	c := New("0")
	c.lastTrack = "/music/a.mp3"

	assert.NoError(t, c.ClearPresence())
	assert.Empty(t, c.lastTrack)
}
