package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/harunnryd/callpanel/pkg/configutil"
)

// CommandSettings configures the external dispatch command.
type CommandSettings struct {
	Binary    string `mapstructure:"binary"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// CommandSchema lists the accepted settings keys.
var CommandSchema = configutil.Schema{
	Optional: []string{"binary", "timeout_ms"},
}

type runResult struct {
	stdout   []byte
	stderr   []byte
	exitCode int
}

type commandRunner func(ctx context.Context, name string, args ...string) (runResult, error)

// CommandDispatcher runs `<binary> dispatch create --new-room --agent-name A --metadata ID`.
// Exit code 0 is the only success signal.
type CommandDispatcher struct {
	binary  string
	timeout time.Duration
	run     commandRunner
}

func NewCommandDispatcher(settings map[string]any) (*CommandDispatcher, error) {
	if err := configutil.ValidateSettings(settings, CommandSchema); err != nil {
		return nil, configutil.Describe("dispatch", err)
	}
	var cfg CommandSettings
	if err := configutil.DecodeSettings(settings, &cfg); err != nil {
		return nil, fmt.Errorf("dispatch.settings: %w", err)
	}
	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		binary = "lk"
	}
	return &CommandDispatcher{
		binary:  binary,
		timeout: configutil.Millis(cfg.TimeoutMS, 60*time.Second),
		run:     execRunner,
	}, nil
}

// Args returns the argument list passed to the binary.
func Args(req Request) []string {
	return []string{"dispatch", "create", "--new-room", "--agent-name", req.AgentName, "--metadata", req.RecordID}
}

func (d *CommandDispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	res, err := d.run(ctx, d.binary, Args(req)...)
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("timed out after %s: %w", d.timeout, ctx.Err())
		}
		return Result{Output: string(res.stdout)}, &Error{ExitCode: res.exitCode, Stderr: string(res.stderr), Err: err}
	}
	if res.exitCode != 0 {
		return Result{Output: string(res.stdout)}, &Error{ExitCode: res.exitCode, Stderr: string(res.stderr)}
	}
	return Result{Output: strings.TrimSpace(string(res.stdout)), Reference: req.RecordID}, nil
}

func execRunner(ctx context.Context, name string, args ...string) (runResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := runResult{stdout: stdout.Bytes(), stderr: stderr.Bytes(), exitCode: -1}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.exitCode = 0
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		res.exitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}

var _ Dispatcher = (*CommandDispatcher)(nil)
