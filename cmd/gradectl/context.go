package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gradectl/internal/config"
	"gradectl/internal/resolve"
	"gradectl/internal/resolve/bridge"
)

type dialFunc func(socketPath string, timeout time.Duration) (resolve.Host, error)

type commandContext struct {
	socketFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	// dial is replaced in tests to avoid a live bridge.
	dial dialFunc
}

func newCommandContext(socketFlag, configFlag *string) *commandContext {
	return &commandContext{
		socketFlag: socketFlag,
		configFlag: configFlag,
		dial: func(socketPath string, timeout time.Duration) (resolve.Host, error) {
			return bridge.DialTimeout(socketPath, timeout)
		},
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) socketPath() string {
	if c.socketFlag != nil && strings.TrimSpace(*c.socketFlag) != "" {
		return strings.TrimSpace(*c.socketFlag)
	}
	if cfg, err := c.ensureConfig(); err == nil && cfg.Paths.SocketPath != "" {
		return cfg.Paths.SocketPath
	}
	if path, err := config.ExpandPath(config.Default().Paths.SocketPath); err == nil {
		return path
	}
	return config.Default().Paths.SocketPath
}

// withHost dials the bridge, runs fn, and closes the connection.
func (c *commandContext) withHost(fn func(resolve.Host) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	socket := c.socketPath()
	host, err := c.dial(socket, cfg.Bridge.DialTimeout())
	if err != nil {
		return wrapDialError(err, socket)
	}
	defer host.Close()
	return fn(host)
}

// withProject dials the bridge and hands fn the current project.
func (c *commandContext) withProject(ctx context.Context, fn func(resolve.Project) error) error {
	return c.withHost(func(host resolve.Host) error {
		project, err := host.CurrentProject(ctx)
		if err != nil {
			return err
		}
		return fn(project)
	})
}

// withTimeline dials the bridge and hands fn the current timeline.
func (c *commandContext) withTimeline(ctx context.Context, fn func(resolve.Project, resolve.Timeline) error) error {
	return c.withProject(ctx, func(project resolve.Project) error {
		timeline, err := project.CurrentTimeline(ctx)
		if err != nil {
			return err
		}
		return fn(project, timeline)
	})
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to host: socket %s not found; start the bridge inside the host (run scripts/resolve-bridge.py from the console)", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to host: socket %s refused the connection; verify the bridge is still running", socket)
	default:
		return fmt.Errorf("connect to host: %w", err)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
