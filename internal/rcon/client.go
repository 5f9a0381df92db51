package rcon

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/mveld/empadmin/internal/model"
)

// CommandLog receives an audit record for every command attempt. The console
// feed implements it; a nil log disables auditing.
type CommandLog interface {
	Command(command string)
	Response(command, response string, err error)
}

// Config holds connection parameters for the console session
type Config struct {
	Host     string
	Port     int
	Password string
	Timeout  time.Duration
}

// Addr returns the host:port dial address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Client owns the single logical console session. All commands from the
// polling loop, the scheduler and foreground consumers funnel through
// Execute, which serializes them; the console protocol cannot be pipelined.
type Client struct {
	cfg    Config
	logger *slog.Logger
	audit  CommandLog

	mu   sync.Mutex
	conn *Conn
}

// NewClient creates a Client. The session is opened lazily on first use,
// or explicitly via Connect.
func NewClient(cfg Config, logger *slog.Logger, audit CommandLog) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "rcon")),
		audit:  audit,
	}
}

// Connect establishes the session if it is not already open
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

// Connected reports whether a session is currently open
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Execute runs one command and returns the raw response text. On a
// mid-session failure it reconnects and retries once; a second failure or a
// failed reconnect is surfaced to the caller.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.audit != nil {
		c.audit.Command(command)
	}

	raw, err := c.executeLocked(ctx, command)
	if err != nil && errors.Is(err, ErrTransport) {
		c.logger.Warn("command failed, reconnecting once",
			slog.String("command", command),
			slog.String("error", err.Error()))
		c.closeLocked()
		if rerr := c.connectLocked(ctx); rerr != nil {
			err = rerr
		} else {
			raw, err = c.executeLocked(ctx, command)
			if err != nil {
				c.closeLocked()
			}
		}
	}

	if c.audit != nil {
		c.audit.Response(command, raw, err)
	}
	if err != nil {
		return "", err
	}

	c.logger.Debug("command executed",
		slog.String("command", command),
		slog.Int("response_bytes", len(raw)))
	return raw, nil
}

// Close tears down the session if one is open
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) executeLocked(ctx context.Context, command string) (string, error) {
	if c.conn == nil {
		if err := c.connectLocked(ctx); err != nil {
			return "", err
		}
	}
	return c.conn.Execute(ctx, command)
}

func (c *Client) connectLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	conn, err := dial(ctx, c.cfg.Addr(), c.cfg.Password, c.cfg.Timeout)
	if err != nil {
		if errors.Is(err, model.ErrAuthFailed) {
			c.logger.Error("authentication rejected", slog.String("addr", c.cfg.Addr()))
		}
		return err
	}
	c.conn = conn
	c.logger.Info("session established", slog.String("addr", c.cfg.Addr()))
	return nil
}

func (c *Client) closeLocked() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
