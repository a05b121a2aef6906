package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// Container runs the store in a managed Docker container and reports the
// host-mapped address.
type Container struct {
	image string

	mu        sync.Mutex
	container *tcredis.RedisContainer
	addr      string
}

func NewContainer(image string) *Container {
	return &Container{image: image}
}

func (c *Container) Start(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.container != nil {
		return c.addr, nil
	}

	container, err := tcredis.Run(ctx, c.image)
	if err != nil {
		if container != nil {
			_ = testcontainers.TerminateContainer(container)
		}
		return "", fmt.Errorf("failed to start store container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return "", fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		return "", fmt.Errorf("failed to get mapped port: %w", err)
	}

	c.container = container
	c.addr = net.JoinHostPort(host, port.Port())
	slog.Info("Started backing store container", "image", c.image, "address", c.addr)
	return c.addr, nil
}

func (c *Container) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.container == nil {
		return ErrNotStarted
	}
	if err := c.container.Terminate(ctx); err != nil {
		return fmt.Errorf("failed to terminate store container: %w", err)
	}
	c.container = nil
	slog.Info("Backing store container terminated", "image", c.image)
	return nil
}
