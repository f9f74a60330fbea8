//go:build android || ios

package discord

// Client is a no-op on mobile, where there is no Discord IPC socket.
type Client struct{}

func New(string) *Client { return &Client{} }

func (c *Client) Connect() error                                    { return nil }
func (c *Client) UpdatePresence(string, string, string, bool) error { return nil }
func (c *Client) ClearPresence() error                              { return nil }
func (c *Client) Disconnect()                                       {}
