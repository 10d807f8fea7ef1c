package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	connectTimeout       = 5 * time.Second
	connectRetryInterval = 100 * time.Millisecond
	receiveTimeout       = 2 * time.Second
)

// ipcConn is a client for the player's line-delimited JSON IPC
// protocol. Requests carry a strictly increasing request_id; replies
// are correlated by it, since the protocol does not guarantee in-order
// replies. One request is in flight at a time.
type ipcConn struct {
	c      net.Conn
	r      *bufio.Reader
	nextID int
}

// dialIPC connects to the unix socket at path, retrying at a fixed
// interval while the player process creates the endpoint. Exceeding
// timeout returns ErrConnectTimeout.
func dialIPC(path string, timeout time.Duration) (*ipcConn, error) {
	deadline := time.Now().Add(timeout)
	for {
		c, err := net.Dial("unix", path)
		if err == nil {
			return &ipcConn{c: c, r: bufio.NewReader(c)}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("dialing %s: %w", path, ErrConnectTimeout)
		}
		time.Sleep(connectRetryInterval)
	}
}

func (c *ipcConn) close() error {
	return c.c.Close()
}

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type ipcResponse struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int             `json:"request_id"`
}

// command sends one request and waits for its correlated reply.
// (nil, nil) means no usable answer arrived in time: a receive
// timeout, a non-success reply, or a null value. Callers treat that as
// "value currently unknown", never as a protocol fault. A non-nil
// error is a transport failure; the connection is unusable after it.
func (c *ipcConn) command(args ...any) (json.RawMessage, error) {
	c.nextID++
	id := c.nextID

	msg, err := json.Marshal(ipcRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("encoding command: %w", err)
	}
	if _, err := c.c.Write(append(msg, '\n')); err != nil {
		return nil, fmt.Errorf("writing command: %w", err)
	}

	_ = c.c.SetReadDeadline(time.Now().Add(receiveTimeout))
	for {
		// bufio carries partial reads across newline boundaries.
		line, err := c.r.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return nil, nil
			}
			return nil, fmt.Errorf("reading reply: %w", err)
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue // malformed line, discard and keep reading
		}
		if resp.RequestID != id {
			continue // stale or event message, not our reply
		}
		if resp.Error != "success" {
			return nil, nil
		}
		if len(resp.Data) == 0 || string(resp.Data) == "null" {
			return nil, nil
		}
		return resp.Data, nil
	}
}

// floatProperty polls a numeric player property. ok is false when the
// value is currently unknown or unparsable; the caller keeps its prior
// value in that case.
func (c *ipcConn) floatProperty(name string) (val float64, ok bool, err error) {
	data, err := c.command("get_property", name)
	if err != nil || data == nil {
		return 0, false, err
	}
	var f float64
	if json.Unmarshal(data, &f) != nil {
		// mpv occasionally reports numeric properties as strings.
		var s string
		if json.Unmarshal(data, &s) != nil {
			return 0, false, nil
		}
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, nil
		}
	}
	return f, true, nil
}

// stringProperty polls a string player property.
func (c *ipcConn) stringProperty(name string) (val string, ok bool, err error) {
	data, err := c.command("get_property", name)
	if err != nil || data == nil {
		return "", false, err
	}
	var s string
	if json.Unmarshal(data, &s) != nil {
		return "", false, nil
	}
	return s, true, nil
}

// seekAbsolute moves playback to pos seconds from the start.
func (c *ipcConn) seekAbsolute(pos float64) error {
	_, err := c.command("seek", pos, "absolute")
	return err
}

// setPause pauses or resumes playback.
func (c *ipcConn) setPause(paused bool) error {
	_, err := c.command("set_property", "pause", paused)
	return err
}
