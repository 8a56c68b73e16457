package config

import (
	"fmt"
	"os/exec"
	"strings"
)

const gitConfigSection = "wcexpect."

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config command and returns raw output.
func runGitConfig(gitPath string, args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	// #nosec G204 -- the git binary comes from the harness configuration
	cmd := exec.Command(gitPath, args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// git config returns exit code 1 when no key matches
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses "wcexpect.key value" lines. The last value of a
// repeated key wins.
func parseGitConfigOutput(output string) map[string]any {
	result := make(map[string]any)
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimPrefix(parts[0], gitConfigSection)
		result[key] = parts[1]
	}
	return result
}

// ApplyGitConfig overlays wcexpect.* keys from git config onto cfg. With an
// empty repoPath only the global config is read.
func ApplyGitConfig(cfg *HarnessConfig, repoPath string) error {
	args := []string{"config", "--get-regexp", `^wcexpect\.`}
	if repoPath == "" {
		args = append(args, "--global")
	}

	output, err := runGitConfig(cfg.GitPath, args, repoPath)
	if err != nil {
		return fmt.Errorf("failed to read git config: %w", err)
	}
	if output == "" {
		return nil
	}
	applyConfig(cfg, parseGitConfigOutput(output))
	return nil
}

// ApplyOverrides overlays "wcexpect.key=value" pairs onto cfg.
func ApplyOverrides(cfg *HarnessConfig, overrides []string) error {
	data := make(map[string]any, len(overrides))
	for _, override := range overrides {
		fullKey, value, ok := strings.Cut(override, "=")
		if !ok {
			return fmt.Errorf("invalid config override %q, expected wcexpect.key=value", override)
		}
		if !strings.HasPrefix(fullKey, gitConfigSection) {
			return fmt.Errorf("config override key must start with %q: %q", gitConfigSection, fullKey)
		}
		key := strings.TrimPrefix(fullKey, gitConfigSection)
		if key == "" {
			return fmt.Errorf("empty config key in override %q", override)
		}
		data[key] = value
	}
	applyConfig(cfg, data)
	return nil
}
