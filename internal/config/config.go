// Package config loads harness configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable pointing at a config file.
const EnvConfigPath = "WCEXPECT_CONFIG"

// HarnessConfig holds the settings shared by working-copy test scenarios.
type HarnessConfig struct {
	ScratchDir      string // parent directory of every scenario root
	KeepArtifacts   bool   // leave scenario roots on disk after cleanup
	DebugLog        string
	MaxDiffChars    int  // cap on content diffs in verification failures
	CollectFailures bool // report every failure instead of the first
	GitPath         string
	SequencePrefix  string
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *HarnessConfig {
	return &HarnessConfig{
		ScratchDir:     filepath.Join(os.TempDir(), "wcexpect"),
		MaxDiffChars:   4000,
		GitPath:        "git",
		SequencePrefix: "test",
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func trimmedString(value any) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// applyConfig overlays data onto cfg; unknown keys and malformed values are
// ignored.
func applyConfig(cfg *HarnessConfig, data map[string]any) {
	if dir := trimmedString(data["scratch_dir"]); dir != "" {
		if expanded, err := expandPath(dir); err == nil {
			cfg.ScratchDir = expanded
		}
	}
	if debugLog := trimmedString(data["debug_log"]); debugLog != "" {
		cfg.DebugLog = debugLog
		if expanded, err := expandPath(debugLog); err == nil {
			cfg.DebugLog = expanded
		}
	}
	if gitPath := trimmedString(data["git_path"]); gitPath != "" {
		cfg.GitPath = gitPath
	}
	if prefix := trimmedString(data["sequence_prefix"]); prefix != "" {
		cfg.SequencePrefix = prefix
	}

	cfg.KeepArtifacts = coerceBool(data["keep_artifacts"], cfg.KeepArtifacts)
	cfg.CollectFailures = coerceBool(data["collect_failures"], cfg.CollectFailures)
	cfg.MaxDiffChars = coerceInt(data["max_diff_chars"], cfg.MaxDiffChars)
	if cfg.MaxDiffChars < 0 {
		cfg.MaxDiffChars = 0
	}
}

func parseConfig(data map[string]any) *HarnessConfig {
	cfg := DefaultConfig()
	applyConfig(cfg, data)
	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the harness configuration. An explicit path wins, then
// $WCEXPECT_CONFIG, then config.yaml or config.yml under
// $XDG_CONFIG_HOME/wcexpect. Missing files yield the defaults; an explicit
// file that cannot be read or parsed is an error.
func LoadConfig(configPath string) (*HarnessConfig, error) {
	explicit := configPath
	if explicit == "" {
		explicit = os.Getenv(EnvConfigPath)
	}

	var paths []string
	if explicit != "" {
		expanded, err := expandPath(explicit)
		if err != nil {
			return DefaultConfig(), err
		}
		paths = []string{expanded}
	} else {
		base := filepath.Join(getConfigDir(), "wcexpect")
		paths = []string{
			filepath.Join(base, "config.yaml"),
			filepath.Join(base, "config.yml"),
		}
	}

	for _, path := range paths {
		data, err := os.ReadFile(path) //nolint:gosec
		if os.IsNotExist(err) && explicit == "" {
			continue
		}
		if err != nil {
			return DefaultConfig(), fmt.Errorf("failed to read config %s: %w", path, err)
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return parseConfig(yamlData), nil
	}

	return DefaultConfig(), nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
