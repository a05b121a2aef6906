package launcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ModeProcess   = "process"
	ModeContainer = "container"
	ModeExternal  = "external"

	DefaultCommand = "redis-stack-server"
	DefaultImage   = "redis/redis-stack-server:latest"
)

var (
	ErrUnknownMode = errors.New("unknown launcher mode")
	ErrNotStarted  = errors.New("launcher not started")
)

type Config struct {
	Mode    string   `mapstructure:"mode"`
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	Image   string   `mapstructure:"image"`
}

// Launcher provisions the backing store and reports the address it listens
// on. It does not wait for readiness; that is the readiness gate's job.
type Launcher interface {
	Start(ctx context.Context) (addr string, err error)
	Stop(ctx context.Context) error
}

// New picks a launcher for cfg.Mode. addr is the configured store address,
// used as-is by the process and external launchers.
func New(cfg Config, addr string) (Launcher, error) {
	switch strings.ToLower(cfg.Mode) {
	case "", ModeProcess:
		command := cfg.Command
		if command == "" {
			command = DefaultCommand
		}
		return NewProcess(command, cfg.Args, addr), nil
	case ModeContainer:
		image := cfg.Image
		if image == "" {
			image = DefaultImage
		}
		return NewContainer(image), nil
	case ModeExternal:
		return External{Addr: addr}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
}

// External assumes the store is managed elsewhere.
type External struct {
	Addr string
}

func (e External) Start(context.Context) (string, error) { return e.Addr, nil }

func (External) Stop(context.Context) error { return nil }
