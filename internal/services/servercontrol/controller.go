package servercontrol

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"

	"github.com/mveld/empadmin/internal/model"
)

const defaultStopTimeout = 60 * time.Second

// Saver flushes the game world to disk before a shutdown
type Saver interface {
	Save(ctx context.Context) error
	Say(ctx context.Context, message string) error
}

// Status describes the game server container
type Status struct {
	Exists  bool   `json:"exists"`
	Running bool   `json:"running"`
	State   string `json:"state,omitempty"`
}

// Controller starts and stops the game server's container. The dedicated
// server has no remote shutdown command, so lifecycle control goes through
// the container runtime instead.
type Controller struct {
	cli           *client.Client
	containerName string
	saver         Saver
	logger        *slog.Logger
}

// New creates a controller for the named container. An empty name means
// container control is not configured; callers get ErrServerControlDisabled
// from a nil controller's methods via Enabled checks in the API layer.
func New(containerName string, saver Saver, logger *slog.Logger) (*Controller, error) {
	if strings.TrimSpace(containerName) == "" {
		return nil, model.ErrServerControlDisabled
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return &Controller{
		cli:           cli,
		containerName: containerName,
		saver:         saver,
		logger:        logger.With(slog.String("component", "servercontrol")),
	}, nil
}

func (c *Controller) Close() error {
	return c.cli.Close()
}

// Status inspects the container. A missing container is not an error; it
// reports Exists=false so the caller can distinguish "stopped" from "gone".
func (c *Controller) Status(ctx context.Context) (Status, error) {
	inspect, err := c.cli.ContainerInspect(ctx, c.containerName)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return Status{Exists: false}, nil
		}
		return Status{}, fmt.Errorf("inspect container %q: %w", c.containerName, err)
	}

	status := Status{Exists: true}
	if inspect.ContainerJSONBase != nil && inspect.ContainerJSONBase.State != nil {
		status.State = inspect.ContainerJSONBase.State.Status
		status.Running = inspect.ContainerJSONBase.State.Running
	}
	return status, nil
}

// Start brings the game server container up
func (c *Controller) Start(ctx context.Context) error {
	c.logger.Info("starting game server container")
	if err := c.cli.ContainerStart(ctx, c.containerName, container.StartOptions{}); err != nil {
		return fmt.Errorf("start container %q: %w", c.containerName, err)
	}
	return nil
}

// Stop announces the shutdown, saves the world, then stops the container.
// Announce and save failures are logged but do not block the stop; an
// unreachable console must not make the server unstoppable.
func (c *Controller) Stop(ctx context.Context) error {
	c.prepareShutdown(ctx)

	seconds := int(defaultStopTimeout.Seconds())
	c.logger.Info("stopping game server container")
	if err := c.cli.ContainerStop(ctx, c.containerName, container.StopOptions{Timeout: &seconds}); err != nil {
		return fmt.Errorf("stop container %q: %w", c.containerName, err)
	}
	return nil
}

// Restart performs a save-then-restart of the container
func (c *Controller) Restart(ctx context.Context) error {
	c.prepareShutdown(ctx)

	seconds := int(defaultStopTimeout.Seconds())
	c.logger.Info("restarting game server container")
	if err := c.cli.ContainerRestart(ctx, c.containerName, container.StopOptions{Timeout: &seconds}); err != nil {
		return fmt.Errorf("restart container %q: %w", c.containerName, err)
	}
	return nil
}

func (c *Controller) prepareShutdown(ctx context.Context) {
	if c.saver == nil {
		return
	}
	if err := c.saver.Say(ctx, "Server is shutting down now!"); err != nil {
		c.logger.Warn("shutdown announcement failed", slog.String("error", err.Error()))
	}
	if err := c.saver.Save(ctx); err != nil {
		c.logger.Warn("pre-shutdown save failed", slog.String("error", err.Error()))
	}
}
