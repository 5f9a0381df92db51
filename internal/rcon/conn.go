package rcon

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/mveld/empadmin/internal/model"
)

const (
	// prompt terminates every console response
	prompt = ">"
	// passwordPrompt is printed before authentication
	passwordPrompt = "Password:"
)

// Sentinel wrap markers distinguishing session-establishment failures from
// mid-session I/O failures. Auth rejections additionally carry
// model.ErrAuthFailed.
var (
	ErrConnect   = errors.New("rcon connect failed")
	ErrTransport = errors.New("rcon transport failed")
)

// Conn is one authenticated telnet console session. The console has no
// request identifiers, so a command must fully drain its response (terminated
// by the prompt) before the next one is written; Client enforces that
// serialization.
type Conn struct {
	netConn net.Conn
	reader  *bufio.Reader
	timeout time.Duration
}

// dial opens a TCP session and performs the password handshake
func dial(ctx context.Context, addr, password string, timeout time.Duration) (*Conn, error) {
	dialer := &net.Dialer{Timeout: timeout}
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Join(ErrConnect, fmt.Errorf("dial %s: %w", addr, err))
	}

	c := &Conn{
		netConn: netConn,
		reader:  bufio.NewReader(netConn),
		timeout: timeout,
	}

	if password != "" {
		if _, err := c.readUntil(ctx, passwordPrompt); err != nil {
			c.closeNow()
			return nil, errors.Join(ErrConnect, fmt.Errorf("await password prompt: %w", err))
		}
		if err := c.writeLine(ctx, password); err != nil {
			c.closeNow()
			return nil, errors.Join(ErrConnect, err)
		}
	}

	banner, err := c.readUntil(ctx, prompt)
	if err != nil {
		c.closeNow()
		// A rejected password makes the server re-prompt (or drop the
		// connection) instead of ever printing the command prompt.
		if password != "" && (strings.Contains(banner, passwordPrompt) || errors.Is(err, io.EOF)) {
			return nil, errors.Join(ErrConnect, model.ErrAuthFailed)
		}
		return nil, errors.Join(ErrConnect, fmt.Errorf("await console prompt: %w", err))
	}

	return c, nil
}

// Execute writes one command line and drains its response up to the prompt
func (c *Conn) Execute(ctx context.Context, command string) (string, error) {
	if err := c.writeLine(ctx, command); err != nil {
		return "", errors.Join(ErrTransport, err)
	}

	raw, err := c.readUntil(ctx, prompt)
	if err != nil {
		return "", errors.Join(ErrTransport, fmt.Errorf("read response for %q: %w", command, err))
	}

	raw = strings.TrimSuffix(strings.TrimSpace(raw), prompt)
	return strings.TrimSpace(raw), nil
}

// Close sends the console's exit command best-effort and closes the socket
func (c *Conn) Close() error {
	_ = c.netConn.SetWriteDeadline(time.Now().Add(time.Second))
	_, _ = fmt.Fprint(c.netConn, "exit\r\n")
	return c.netConn.Close()
}

func (c *Conn) closeNow() {
	_ = c.netConn.Close()
}

func (c *Conn) writeLine(ctx context.Context, line string) error {
	if err := c.netConn.SetWriteDeadline(c.deadline(ctx)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if _, err := fmt.Fprintf(c.netConn, "%s\r\n", line); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}

// readUntil accumulates bytes until the delimiter arrives or the deadline
// passes. The partial read is returned alongside the error so dial can
// inspect it for a repeated password prompt.
func (c *Conn) readUntil(ctx context.Context, delim string) (string, error) {
	if err := c.netConn.SetReadDeadline(c.deadline(ctx)); err != nil {
		return "", fmt.Errorf("set read deadline: %w", err)
	}

	var b strings.Builder
	for {
		chunk, err := c.reader.ReadByte()
		if err != nil {
			return b.String(), err
		}
		b.WriteByte(chunk)
		if strings.HasSuffix(b.String(), delim) {
			return b.String(), nil
		}
	}
}

func (c *Conn) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	return deadline
}
