package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fakePlayer serves the player side of the IPC protocol on a unix
// socket. respond is called per request and returns the raw lines to
// write back (not necessarily well-formed, to exercise discard paths).
type fakePlayer struct {
	t       *testing.T
	path    string
	ln      net.Listener
	respond func(command []any, id int) []string
}

func startFakePlayer(t *testing.T, respond func(command []any, id int) []string) *fakePlayer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ipc.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	f := &fakePlayer{t: t, path: path, ln: ln, respond: respond}
	go f.serve()
	return f
}

func (f *fakePlayer) serve() {
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return
		}
		var req ipcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}
		for _, out := range f.respond(req.Command, req.RequestID) {
			if _, err := conn.Write([]byte(out + "\n")); err != nil {
				return
			}
		}
	}
}

func dialFake(t *testing.T, f *fakePlayer) *ipcConn {
	t.Helper()
	c, err := dialIPC(f.path, time.Second)
	if err != nil {
		t.Fatalf("dialIPC: %v", err)
	}
	t.Cleanup(func() { _ = c.close() })
	return c
}

func successLine(id int, data string) string {
	return fmt.Sprintf(`{"error":"success","data":%s,"request_id":%d}`, data, id)
}

func TestIPC_MatchesRequestID(t *testing.T) {
	f := startFakePlayer(t, func(command []any, id int) []string {
		// A stale reply with another id arrives first and must be
		// ignored, not handed to the caller.
		return []string{
			successLine(id+100, `"wrong"`),
			successLine(id, `42.5`),
		}
	})
	c := dialFake(t, f)

	val, ok, err := c.floatProperty("duration")
	if err != nil {
		t.Fatalf("floatProperty: %v", err)
	}
	if !ok || val != 42.5 {
		t.Errorf("floatProperty = (%v, %v), want (42.5, true)", val, ok)
	}
}

func TestIPC_DiscardsMalformedLines(t *testing.T) {
	f := startFakePlayer(t, func(command []any, id int) []string {
		return []string{
			`{"event":"property-change"`, // truncated JSON
			`not json at all`,
			successLine(id, `"/lib/ep2.mkv"`),
		}
	})
	c := dialFake(t, f)

	val, ok, err := c.stringProperty("path")
	if err != nil {
		t.Fatalf("stringProperty: %v", err)
	}
	if !ok || val != "/lib/ep2.mkv" {
		t.Errorf("stringProperty = (%q, %v), want (/lib/ep2.mkv, true)", val, ok)
	}
}

func TestIPC_NonSuccessIsUnknown(t *testing.T) {
	f := startFakePlayer(t, func(command []any, id int) []string {
		return []string{fmt.Sprintf(`{"error":"property unavailable","request_id":%d}`, id)}
	})
	c := dialFake(t, f)

	_, ok, err := c.floatProperty("time-pos")
	if err != nil {
		t.Fatalf("floatProperty: %v", err)
	}
	if ok {
		t.Error("non-success reply should read as unknown, not a value")
	}
}

func TestIPC_NullDataIsUnknown(t *testing.T) {
	f := startFakePlayer(t, func(command []any, id int) []string {
		return []string{successLine(id, `null`)}
	})
	c := dialFake(t, f)

	_, ok, err := c.floatProperty("duration")
	if err != nil {
		t.Fatalf("floatProperty: %v", err)
	}
	if ok {
		t.Error("null data should read as unknown")
	}
}

func TestIPC_StringNumberCoerced(t *testing.T) {
	f := startFakePlayer(t, func(command []any, id int) []string {
		return []string{successLine(id, `"120.25"`)}
	})
	c := dialFake(t, f)

	val, ok, err := c.floatProperty("time-pos")
	if err != nil {
		t.Fatalf("floatProperty: %v", err)
	}
	if !ok || val != 120.25 {
		t.Errorf("floatProperty = (%v, %v), want (120.25, true)", val, ok)
	}
}

func TestIPC_RequestIDsIncrease(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	f := startFakePlayer(t, func(command []any, id int) []string {
		mu.Lock()
		seen = append(seen, id)
		mu.Unlock()
		return []string{successLine(id, `1`)}
	})
	c := dialFake(t, f)

	for i := 0; i < 3; i++ {
		if _, _, err := c.floatProperty("duration"); err != nil {
			t.Fatalf("floatProperty: %v", err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Fatalf("server saw %d requests, want 3", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Errorf("request ids not strictly increasing: %v", seen)
		}
	}
}

func TestDialIPC_Timeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-created.sock")

	start := time.Now()
	_, err := dialIPC(path, 300*time.Millisecond)
	if !errors.Is(err, ErrConnectTimeout) {
		t.Fatalf("dialIPC = %v, want ErrConnectTimeout", err)
	}
	if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
		t.Errorf("gave up after %v, before the timeout", elapsed)
	}
}

func TestDialIPC_RetriesUntilEndpointAppears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.sock")

	go func() {
		time.Sleep(250 * time.Millisecond)
		ln, err := net.Listen("unix", path)
		if err != nil {
			return
		}
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Close()
	}()

	c, err := dialIPC(path, 2*time.Second)
	if err != nil {
		t.Fatalf("dialIPC: %v", err)
	}
	_ = c.close()
}
