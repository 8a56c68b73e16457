// Package git reads the state of a git working tree and reports it as the
// listing and status records the verifier consumes.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// LookupPath is used to find the git executable. It's exposed as a package
// variable so tests can mock it.
var LookupPath = exec.LookPath

// ErrGitUnavailable is returned when the configured git binary is missing.
var ErrGitUnavailable = errors.New("git executable not found")

// Client runs git commands against working trees.
type Client struct {
	gitPath string
	env     map[string]string
	logf    func(string, ...any)
}

// NewClient returns a Client invoking gitPath ("git" when empty). logf
// receives a trace of every command and may be nil.
func NewClient(gitPath string, logf func(string, ...any)) *Client {
	if gitPath == "" {
		gitPath = "git"
	}
	return &Client{
		gitPath: gitPath,
		logf:    logf,
		env: map[string]string{
			"GIT_AUTHOR_NAME":     "wcexpect",
			"GIT_AUTHOR_EMAIL":    "wcexpect@localhost",
			"GIT_COMMITTER_NAME":  "wcexpect",
			"GIT_COMMITTER_EMAIL": "wcexpect@localhost",
			"GIT_CONFIG_NOSYSTEM": "1",
			"GIT_CONFIG_GLOBAL":   os.DevNull,
			"LC_ALL":              "C",
		},
	}
}

// Available reports whether the git executable can be found.
func (c *Client) Available() bool {
	_, err := LookupPath(c.gitPath)
	return err == nil
}

func (c *Client) debugf(format string, args ...any) {
	if c.logf == nil {
		return
	}
	c.logf(format, args...)
}

func formatEnv(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	formatted := make([]string, 0, len(env))
	for k, v := range env {
		formatted = append(formatted, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(formatted)
	return formatted
}

// run executes git with args inside dir and returns its stdout.
func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	command := "git " + strings.Join(args, " ")
	c.debugf("run: %s (cwd=%s)", command, dir)

	if !c.Available() {
		return "", fmt.Errorf("%s: %w", c.gitPath, ErrGitUnavailable)
	}

	// #nosec G204 -- arguments come from internal logic and are not shell interpolated
	cmd := exec.CommandContext(ctx, c.gitPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), formatEnv(c.env)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		c.debugf("error: %s: %v %s", command, err, detail)
		if detail != "" {
			return "", fmt.Errorf("%s: %s", command, detail)
		}
		return "", fmt.Errorf("%s: %w", command, err)
	}
	c.debugf("ok: %s", command)
	return string(out), nil
}

// Init creates an empty repository in root.
func (c *Client) Init(ctx context.Context, root string) error {
	_, err := c.run(ctx, root, "init", "--quiet")
	return err
}

// Import initializes a repository in root and commits everything in it.
func (c *Client) Import(ctx context.Context, root, message string) error {
	if err := c.Init(ctx, root); err != nil {
		return err
	}
	return c.Commit(ctx, root, message)
}

// Commit stages every change in root and commits it.
func (c *Client) Commit(ctx context.Context, root, message string) error {
	if _, err := c.run(ctx, root, "add", "--all"); err != nil {
		return err
	}
	_, err := c.run(ctx, root, "commit", "--quiet", "--allow-empty", "-m", message)
	return err
}

// Run executes an arbitrary git subcommand in root. Tests use it to put a
// working tree into a specific state.
func (c *Client) Run(ctx context.Context, root string, args ...string) (string, error) {
	return c.run(ctx, root, args...)
}

// splitNUL splits NUL-terminated git output.
func splitNUL(out string) []string {
	out = strings.TrimSuffix(out, "\x00")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\x00")
}
