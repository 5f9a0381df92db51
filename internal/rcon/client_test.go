package rcon

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/testutil"
)

// fakeConsole speaks just enough of the telnet console protocol for the
// client: password prompt, command prompt, canned plys output.
type fakeConsole struct {
	listener net.Listener
	password string
	// dropAfter closes each session after this many commands (0 = never)
	dropAfter int
	accepts   atomic.Int32
}

func newFakeConsole(t *testing.T, password string, dropAfter int) *fakeConsole {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	f := &fakeConsole{listener: listener, password: password, dropAfter: dropAfter}
	go f.serve()
	t.Cleanup(func() { _ = listener.Close() })
	return f
}

func (f *fakeConsole) config() Config {
	addr := f.listener.Addr().(*net.TCPAddr)
	return Config{Host: "127.0.0.1", Port: addr.Port, Password: f.password, Timeout: 2 * time.Second}
}

func (f *fakeConsole) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		f.accepts.Add(1)
		go f.session(conn)
	}
}

func (f *fakeConsole) session(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)

	if f.password != "" {
		if _, err := conn.Write([]byte("Password:")); err != nil {
			return
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		if strings.TrimSpace(line) != f.password {
			_, _ = conn.Write([]byte("Password:"))
			return
		}
	}
	if _, err := conn.Write([]byte("Connected\n>")); err != nil {
		return
	}

	served := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimSpace(line)
		if cmd == "exit" {
			return
		}

		switch cmd {
		case "plys":
			_, _ = conn.Write([]byte("Global players list:\nid=1001 name=Nova fac=[NVA]\nPlayers connected:\n>"))
		default:
			_, _ = conn.Write([]byte("ok: " + cmd + "\n>"))
		}

		served++
		if f.dropAfter > 0 && served >= f.dropAfter {
			return
		}
	}
}

func TestClientExecute(t *testing.T) {
	console := newFakeConsole(t, "hunter2", 0)
	client := NewClient(console.config(), testutil.NopLogger(), nil)
	defer client.Close()

	raw, err := client.Execute(context.Background(), "plys")
	require.NoError(t, err)
	assert.Contains(t, raw, "name=Nova")
	assert.NotContains(t, raw, ">")
	assert.True(t, client.Connected())
}

func TestClientExecuteWithoutPassword(t *testing.T) {
	console := newFakeConsole(t, "", 0)
	client := NewClient(console.config(), testutil.NopLogger(), nil)
	defer client.Close()

	raw, err := client.Execute(context.Background(), "say 'hi'")
	require.NoError(t, err)
	assert.Equal(t, "ok: say 'hi'", raw)
}

func TestClientAuthFailure(t *testing.T) {
	console := newFakeConsole(t, "hunter2", 0)
	cfg := console.config()
	cfg.Password = "wrong"
	client := NewClient(cfg, testutil.NopLogger(), nil)

	_, err := client.Execute(context.Background(), "plys")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrAuthFailed))
	assert.False(t, client.Connected())
}

func TestClientReconnectsOnceOnTransportFailure(t *testing.T) {
	console := newFakeConsole(t, "hunter2", 1)
	client := NewClient(console.config(), testutil.NopLogger(), nil)
	defer client.Close()

	// First command succeeds, then the server drops the session.
	_, err := client.Execute(context.Background(), "plys")
	require.NoError(t, err)

	// Next command hits the dead session and must transparently reconnect.
	raw, err := client.Execute(context.Background(), "save")
	require.NoError(t, err)
	assert.Equal(t, "ok: save", raw)
	assert.GreaterOrEqual(t, console.accepts.Load(), int32(2))
}

func TestClientConnectErrorWhenNoServer(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().(*net.TCPAddr)
	require.NoError(t, listener.Close())

	client := NewClient(Config{
		Host: "127.0.0.1", Port: addr.Port, Timeout: 500 * time.Millisecond,
	}, testutil.NopLogger(), nil)

	_, execErr := client.Execute(context.Background(), "plys")
	require.Error(t, execErr)
	assert.True(t, errors.Is(execErr, ErrConnect))
}

func TestConfigAddr(t *testing.T) {
	cfg := Config{Host: "game.example.com", Port: 30004}
	assert.Equal(t, net.JoinHostPort("game.example.com", strconv.Itoa(30004)), cfg.Addr())
}
