package launcher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"syscall"
)

// Process runs the store as a child process. Its stdout and stderr are
// forwarded line by line to the default logger.
type Process struct {
	command string
	args    []string
	addr    string

	mu      sync.Mutex
	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

func NewProcess(command string, args []string, addr string) *Process {
	return &Process{command: command, args: args, addr: addr}
}

func (p *Process) Start(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return p.addr, nil
	}

	// The child outlives ctx, so it is not bound to it.
	cmd := exec.Command(p.command, p.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start %s: %w", p.command, err)
	}
	slog.Info("Started backing store process", "command", p.command, "pid", cmd.Process.Pid)

	var pipes sync.WaitGroup
	pipes.Add(2)
	go forward(&pipes, stdout, p.command, "stdout")
	go forward(&pipes, stderr, p.command, "stderr")

	p.cmd = cmd
	p.done = make(chan struct{})
	go func(done chan struct{}) {
		pipes.Wait()
		err := cmd.Wait()
		p.mu.Lock()
		p.waitErr = err
		p.mu.Unlock()
		if err != nil {
			slog.Warn("Backing store process exited", "command", p.command, "error", err)
		} else {
			slog.Info("Backing store process exited", "command", p.command)
		}
		close(done)
	}(p.done)

	return p.addr, nil
}

// Exited is closed once the child process has been reaped.
func (p *Process) Exited() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Stop sends SIGTERM and waits for the child to exit. If ctx expires first
// the child is killed.
func (p *Process) Stop(ctx context.Context) error {
	p.mu.Lock()
	cmd, done := p.cmd, p.done
	p.mu.Unlock()

	if cmd == nil {
		return ErrNotStarted
	}

	select {
	case <-done:
		return nil
	default:
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		slog.Warn("Failed to signal backing store process", "error", err)
	}

	select {
	case <-done:
		slog.Info("Backing store process stopped", "command", p.command)
		return nil
	case <-ctx.Done():
		slog.Warn("Backing store stop timeout, killing process", "command", p.command)
		if err := cmd.Process.Kill(); err != nil {
			return fmt.Errorf("kill %s: %w", p.command, err)
		}
		<-done
		return ctx.Err()
	}
}

func forward(wg *sync.WaitGroup, r io.Reader, command, stream string) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		slog.Debug(scanner.Text(), "source", command, "stream", stream)
	}
}
