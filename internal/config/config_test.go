package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"leetcode-anki/internal/domain/errs"
)

var envKeys = []string{
	"LEETCODE_SESSION_ID", "LEETCODE_CSRF_TOKEN", "LEETCODE_BASE_URL", "LEETCODE_PROBLEM_STATUS",
	"LEETCODE_LIST_ID", "LEETCODE_INCLUDE_LAST_SUBMISSION", "LEETCODE_START", "LEETCODE_STOP",
	"LEETCODE_PAGE_SIZE", "LEETCODE_OUTPUT_FILE", "LEETCODE_CACHE_DIR", "LEETCODE_CONCURRENCY",
	"LEETCODE_REQUEST_DELAY", "REQUEST_TIMEOUT", "LEETCODE_CHECKPOINT_EVERY", "SCHEDULE_CRON",
	"DISCORD_WEBHOOK_URL", "LOG_LEVEL", "LOG_FORMAT", "LEETCODE_ANKI_CONFIG",
}

// isolate runs the test in an empty directory with no configuration in the environment.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range envKeys {
		// Setenv restores the original value on cleanup.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, math.MaxInt32, cfg.Stop)
	require.Equal(t, 500, cfg.PageSize)
	require.Equal(t, "leetcode", cfg.DeckName())
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "leetcode-anki.json5"), `{
		// comments and trailing commas are allowed
		session_id: "from-file",
		csrf_token: "file-token",
		page_size: 50,
		concurrency: 2,
		request_delay: "500ms",
	}`)
	writeFile(t, filepath.Join(dir, "leetcode-anki.local.json5"), `{concurrency: 8}`)
	writeFile(t, filepath.Join(dir, ".env"), "LEETCODE_CSRF_TOKEN=dotenv-token\n")
	t.Setenv("LEETCODE_SESSION_ID", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.SessionID)
	require.Equal(t, 50, cfg.PageSize)
	require.Equal(t, 8, cfg.Concurrency)
	require.Equal(t, 500*time.Millisecond, cfg.RequestDelay)
	require.Equal(t, "leetcode-anki.json5", cfg.ConfigFile)
	require.Equal(t, "dotenv-token", cfg.CSRFToken)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--session-id=from-flag", "--problem-status=ac", "--request-timeout=5s"}))
	require.NoError(t, cfg.ApplyFlags(fs))
	require.Equal(t, "from-flag", cfg.SessionID)
	require.Equal(t, "AC", cfg.ProblemStatus)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, 8, cfg.Concurrency, "unset flags keep loaded values")
	require.NoError(t, cfg.Validate())
}

func TestLoadLocalOverrideResetsToZero(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "leetcode-anki.json5"), `{
		start: 5,
		include_last_submission: true,
		checkpoint_every: 3,
		list_id: "base-list",
	}`)
	writeFile(t, filepath.Join(dir, "leetcode-anki.local.json5"), `{
		start: 0,
		include_last_submission: false,
		checkpoint_every: 0,
	}`)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 0, cfg.Start)
	require.False(t, cfg.IncludeLastSubmission)
	require.Equal(t, 0, cfg.CheckpointEvery)
	require.Equal(t, "base-list", cfg.ListID, "keys absent from the override keep the base value")
}

func TestLoadYAMLFromEnvPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "settings.yaml")
	writeFile(t, path, "session_id: s\ncsrf_token: c\ninclude_last_submission: true\nstart: 0\nstop: 10\noutput_file: out/deck.apkg\n")
	t.Setenv("LEETCODE_ANKI_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.IncludeLastSubmission)
	require.Equal(t, 10, cfg.Stop)
	require.Equal(t, "deck", cfg.DeckName())
	require.NoError(t, cfg.Validate())
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolate(t)

	_, err := Load("missing.json5")
	require.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestLoadInvalidEnv(t *testing.T) {
	isolate(t)
	t.Setenv("LEETCODE_PAGE_SIZE", "many")

	_, err := Load("")
	require.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "settings.toml"), "x = 1")

	_, err := Load("settings.toml")
	require.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.SessionID = "s"
		cfg.CSRFToken = "c"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(*Config){
		"missing session":   func(c *Config) { c.SessionID = "" },
		"missing csrf":      func(c *Config) { c.CSRFToken = "" },
		"bad status":        func(c *Config) { c.ProblemStatus = "SOLVED" },
		"start after stop":  func(c *Config) { c.Start, c.Stop = 10, 5 },
		"negative start":    func(c *Config) { c.Start = -1 },
		"zero page size":    func(c *Config) { c.PageSize = 0 },
		"zero concurrency":  func(c *Config) { c.Concurrency = 0 },
		"zero timeout":      func(c *Config) { c.RequestTimeout = 0 },
		"bad cron":          func(c *Config) { c.ScheduleCron = "every day" },
		"bad webhook":       func(c *Config) { c.DiscordWebhookURL = "not a url" },
		"bad log format":    func(c *Config) { c.LogFormat = "xml" },
		"empty output file": func(c *Config) { c.OutputFile = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), errs.ErrConfiguration)
		})
	}
}
