package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockGitConfig(t *testing.T, fn func(args []string, repoPath string) (string, error)) {
	t.Helper()
	gitConfigMock = fn
	t.Cleanup(func() { gitConfigMock = nil })
}

func TestParseGitConfigOutput(t *testing.T) {
	got := parseGitConfigOutput("wcexpect.keep_artifacts true\nwcexpect.scratch_dir /tmp/with space\n\nbroken\nwcexpect.keep_artifacts false\n")

	assert.Equal(t, map[string]any{
		"keep_artifacts": "false",
		"scratch_dir":    "/tmp/with space",
	}, got)
}

func TestApplyGitConfig(t *testing.T) {
	t.Run("local keys override defaults", func(t *testing.T) {
		var gotArgs []string
		var gotRepo string
		mockGitConfig(t, func(args []string, repoPath string) (string, error) {
			gotArgs, gotRepo = args, repoPath
			return "wcexpect.max_diff_chars 80\nwcexpect.collect_failures yes\n", nil
		})

		cfg := DefaultConfig()
		require.NoError(t, ApplyGitConfig(cfg, "/repo"))
		assert.Equal(t, 80, cfg.MaxDiffChars)
		assert.True(t, cfg.CollectFailures)
		assert.Equal(t, "/repo", gotRepo)
		assert.NotContains(t, gotArgs, "--global")
	})

	t.Run("global only", func(t *testing.T) {
		var gotArgs []string
		mockGitConfig(t, func(args []string, _ string) (string, error) {
			gotArgs = args
			return "", nil
		})

		cfg := DefaultConfig()
		require.NoError(t, ApplyGitConfig(cfg, ""))
		assert.Contains(t, gotArgs, "--global")
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("git failure", func(t *testing.T) {
		mockGitConfig(t, func(_ []string, _ string) (string, error) {
			return "", errors.New("boom")
		})
		require.Error(t, ApplyGitConfig(DefaultConfig(), ""))
	})
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ApplyOverrides(cfg, []string{
		"wcexpect.keep_artifacts=1",
		"wcexpect.sequence_prefix=a=b",
	}))
	assert.True(t, cfg.KeepArtifacts)
	assert.Equal(t, "a=b", cfg.SequencePrefix)

	tests := []struct {
		name     string
		override string
	}{
		{name: "missing equals", override: "wcexpect.keep_artifacts"},
		{name: "wrong section", override: "lw.keep_artifacts=1"},
		{name: "empty key", override: "wcexpect.=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, ApplyOverrides(DefaultConfig(), []string{tt.override}))
		})
	}
}
