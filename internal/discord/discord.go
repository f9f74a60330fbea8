//go:build !android && !ios

package discord

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/hugolgst/rich-go/client"
)

const reconnectCooldown = 2 * time.Second

// Client mirrors the playing track into Discord Rich Presence.
type Client struct {
	clientID string

	mu                 sync.Mutex
	connected          bool
	lastTrack          string
	startTime          time.Time
	lastConnectAttempt time.Time
}

func New(clientID string) *Client {
	return &Client{clientID: clientID}
}

// Connect initializes Discord RPC connection
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}
	c.lastConnectAttempt = time.Now()
	if err := client.Login(c.clientID); err != nil {
		return fmt.Errorf("discord login: %w", err)
	}
	c.connected = true
	return nil
}

// UpdatePresence updates the Discord Rich Presence with track info
func (c *Client) UpdatePresence(trackPath, artist, title string, paused bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected && !c.reconnect() {
		return nil
	}

	// If track changed, reset start time
	if c.lastTrack != trackPath {
		c.startTime = time.Now()
		c.lastTrack = trackPath
	}

	details := title
	if details == "" {
		base := filepath.Base(trackPath)
		details = strings.TrimSuffix(base, filepath.Ext(base))
	}

	activity := client.Activity{
		Details:    details,
		State:      artist,
		LargeImage: "musicplayer_logo",
		LargeText:  "Music Player",
		SmallImage: "play",
		SmallText:  "Playing",
	}
	if paused {
		activity.SmallImage = "pause"
		activity.SmallText = "Paused"
	} else {
		activity.Timestamps = &client.Timestamps{Start: &c.startTime}
	}

	if err := client.SetActivity(activity); err != nil {
		if !brokenPipe(err) {
			return err
		}
		// Discord restarted or closed: reconnect once and retry.
		client.Logout()
		c.connected = false
		if c.reconnect() {
			_ = client.SetActivity(activity)
		}
	}
	return nil
}

// ClearPresence clears the Rich Presence
func (c *Client) ClearPresence() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastTrack = ""
	if !c.connected {
		return nil
	}
	if err := client.SetActivity(client.Activity{}); err != nil {
		if brokenPipe(err) {
			client.Logout()
			c.connected = false
			return nil
		}
		return err
	}
	return nil
}

// Disconnect closes the Discord RPC connection
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		client.Logout()
		c.connected = false
	}
}

// reconnect makes an opportunistic login attempt, at most once per cooldown.
// Callers hold c.mu.
func (c *Client) reconnect() bool {
	if time.Since(c.lastConnectAttempt) <= reconnectCooldown || !ipcAvailable() {
		return false
	}
	c.lastConnectAttempt = time.Now()
	if err := client.Login(c.clientID); err != nil {
		return false
	}
	c.connected = true
	return true
}

func brokenPipe(err error) bool {
	s := strings.ToLower(err.Error())
	for _, m := range []string{"broken pipe", "use of closed network connection", "connection reset", "eof"} {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// ipcAvailable checks for the presence of a Discord IPC socket on this OS.
func ipcAvailable() bool {
	var pattern string
	switch runtime.GOOS {
	case "linux":
		pattern = filepath.Join(fmt.Sprintf("/run/user/%d", os.Getuid()), "discord-ipc-*")
	case "darwin":
		pattern = "/tmp/discord-ipc-*"
	default:
		// Named pipes on Windows: let the library try.
		return true
	}
	matches, _ := filepath.Glob(pattern)
	for _, m := range matches {
		if conn, err := net.DialTimeout("unix", m, 200*time.Millisecond); err == nil {
			_ = conn.Close()
			return true
		}
	}
	return false
}
