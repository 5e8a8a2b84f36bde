package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/1broseidon/panelsnap/internal/runtimepath"
)

// Client sends one request per connection to the daemon socket.
type Client struct {
	socketPath string
	dialer     net.Dialer
	timeout    time.Duration
}

// NewClient creates a client for the default daemon socket. A socket path
// that cannot be resolved surfaces as a connection error on first use.
func NewClient() *Client {
	socketPath, _ := runtimepath.SocketPath()
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	const timeout = 5 * time.Second
	return &Client{
		socketPath: socketPath,
		dialer:     net.Dialer{Timeout: timeout},
		timeout:    timeout,
	}
}

// roundTrip writes req as one JSON line and decodes the single-line reply.
func (c *Client) roundTrip(req *Request) (*Response, error) {
	conn, err := c.dialer.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon at %s: %w (is the daemon running?)", c.socketPath, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	// Encode terminates the value with a newline, which is the frame delimiter.
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("%s: failed to send request: %w", req.Command, err)
	}

	var resp Response
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", req.Command, err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Reload asks the daemon to re-read its config.
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus returns the panel and daemon state.
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors lists the displays and marks the one holding the panel.
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.call(CommandGetMonitors, nil, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// Snap moves the panel to edge.
func (c *Client) Snap(edge drag.Edge) (*SnapData, error) {
	var data SnapData
	if err := c.call(CommandSnap, SnapPayload{Edge: edge.String()}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SetConstraints updates the daemon's constraint policy.
func (c *Client) SetConstraints(p SetConstraintsPayload) (*ConstraintsData, error) {
	var data ConstraintsData
	if err := c.call(CommandSetConstraints, p, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Ping reports whether the daemon answers.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
