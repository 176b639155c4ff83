package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/switchyard/internal/logging"
)

// ErrNotRegistered is returned when a program is not on the allow-list.
var ErrNotRegistered = errors.New("program not registered")

// Runner implements ports.CommandRunner for local processes.
// It follows a strict registry pattern: only allow-listed programs run.
type Runner struct {
	registry map[string]Program
	logger   *slog.Logger
}

// Program defines an allowed executable.
type Program struct {
	// Path is the executable, resolved through PATH when not absolute.
	Path string            `yaml:"path" json:"path" toml:"path"`
	Env  map[string]string `yaml:"env" json:"env" toml:"env"`
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithPrograms adds every entry to the allow-list.
func WithPrograms(programs map[string]Program) RunnerOption {
	return func(r *Runner) {
		for name, p := range programs {
			r.registry[name] = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a Runner that allows git. Git never prompts for credentials.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: map[string]Program{
			"git": {Path: "git", Env: map[string]string{"GIT_TERMINAL_PROMPT": "0"}},
		},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted program to the allow-list.
func (r *Runner) Register(name, path string) {
	r.registry[name] = Program{Path: path}
}

// Registered lists the allow-listed program names, sorted.
func (r *Runner) Registered() []string {
	return slices.Sorted(maps.Keys(r.registry))
}

// Run executes name with args in dir and returns its trimmed standard output.
// A failed run reports the command's standard error.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	prog, ok := r.registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	cmd := exec.CommandContext(ctx, prog.Path, args...)
	cmd.Dir = dir
	cmd.Env = cmd.Environ()
	for _, k := range slices.Sorted(maps.Keys(prog.Env)) {
		cmd.Env = append(cmd.Env, k+"="+prog.Env[k])
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.logger.Debug("process finished", "program", name, "args", args, "dir", dir, "duration", time.Since(start), "err", err)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}
