// Package agent wraps single invocations of an external agent CLI.
// The harness is agnostic to the agent's internals: prompt in, text out
// or a failure with a short diagnostic. Retry policy belongs to callers.
package agent

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const DefaultTimeout = 5 * time.Minute

// Invoker is the invocation surface consumed by the prompt generator,
// trial runner, and judge. Client is the real implementation.
type Invoker interface {
	Invoke(ctx context.Context, opts *InvokeOpts) (string, error)
}

type Client struct {
	Bin     string
	Timeout time.Duration
}

type InvokeOpts struct {
	Prompt        string
	Model         string
	BudgetUSD     float64
	WorkDir       string
	SkillDir      string
	AllowedSkills []string
}

// BuildArgs assembles the CLI argument list. Attaching SkillDir is what
// makes a call a treatment call; control calls omit it entirely.
func BuildArgs(opts *InvokeOpts) []string {
	args := []string{
		"-p", opts.Prompt,
		"--model", opts.Model,
		"--max-cost", strconv.FormatFloat(opts.BudgetUSD, 'f', 4, 64),
	}
	if opts.SkillDir != "" {
		args = append(args, "--add-dir", opts.SkillDir)
	}
	if len(opts.AllowedSkills) > 0 {
		args = append(args, "--allowedTools", strings.Join(opts.AllowedSkills, ","))
	}
	return args
}

// Invoke runs the agent once and returns its stdout. Non-zero exit,
// timeout, and empty output are all failures; the client never retries.
func (c *Client) Invoke(ctx context.Context, opts *InvokeOpts) (string, error) {
	if strings.TrimSpace(opts.Prompt) == "" {
		return "", errors.New("empty prompt")
	}
	if opts.BudgetUSD <= 0 {
		return "", errors.Errorf("budget cap must be positive, got %.4f", opts.BudgetUSD)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Bin, BuildArgs(opts)...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", errors.Errorf("agent timed out after %s", timeout)
	}
	if err != nil {
		return "", errors.Errorf("agent exited: %v%s", err, lastStderrLine(&stderr))
	}
	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", errors.New("agent produced empty output")
	}
	return out, nil
}

func lastStderrLine(buf *bytes.Buffer) string {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return ": " + s
		}
	}
	return ""
}
