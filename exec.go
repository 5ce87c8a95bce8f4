package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/executor"
)

// runner issues external commands for one workspace. In dry-run mode
// mutating commands are rendered through the logger instead of executed;
// queries always execute (callers that must not query in dry-run mode
// check dryRun themselves).
type runner struct {
	dir    string
	dryRun bool
	log    *logger
}

func renderCommand(args []string) string {
	return strings.Join(args, " ")
}

// query executes a read-only command and captures its output.
func (r *runner) query(args ...string) (*executor.Result, error) {
	return r.queryInput("", args...)
}

// queryInput is query with text piped to the command's stdin.
func (r *runner) queryInput(input string, args ...string) (*executor.Result, error) {
	r.log.verbosef("> %s", renderCommand(args))
	if input != "" {
		r.log.stdin(input)
	}
	res, err := executor.New(args[0], args[1:]...).
		ExecuteWithInput(context.Background(), input, executor.WithWorkingDir(r.dir))
	if err != nil {
		return res, r.wrap(args, res, err)
	}
	return res, nil
}

// do executes a mutating command, or renders it in dry-run mode.
func (r *runner) do(args ...string) error {
	return r.doInput("", args...)
}

// doInput is do with text piped to the command's stdin.
func (r *runner) doInput(input string, args ...string) error {
	r.log.command(renderCommand(args))
	if input != "" {
		r.log.stdin(input)
	}
	if r.dryRun {
		return nil
	}
	res, err := executor.New(args[0], args[1:]...).
		ExecuteWithInput(context.Background(), input, executor.WithWorkingDir(r.dir))
	if err != nil {
		return r.wrap(args, res, err)
	}
	return nil
}

// passthrough runs an interactive command attached to the real terminal.
// Used for rebase and editor invocations, which need a live stdin the
// executor library cannot provide.
func (r *runner) passthrough(env map[string]string, args ...string) error {
	r.log.command(renderCommand(args))
	if r.dryRun {
		return nil
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = r.dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", renderCommand(args), err)
	}
	return nil
}

func (r *runner) wrap(args []string, res *executor.Result, err error) error {
	re := &runError{cmd: renderCommand(args), exitCode: -1, err: err}
	if res != nil {
		re.exitCode = res.ExitCode
		re.stderr = res.Stderr
	}
	return re
}

// splitLines returns the non-empty lines of command output.
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	return lines
}
