package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"leetcode-anki/internal/domain/errs"
)

// Config contains runtime configuration values.
type Config struct {
	SessionID             string `validate:"required"`
	CSRFToken             string `validate:"required"`
	BaseURL               string `validate:"required,url"`
	ProblemStatus         string `validate:"omitempty,oneof=AC TRIED NOT_STARTED"`
	ListID                string
	IncludeLastSubmission bool
	Start                 int           `validate:"gte=0"`
	Stop                  int           `validate:"gte=0"`
	PageSize              int           `validate:"gt=0"`
	OutputFile            string        `validate:"required"`
	CacheDir              string        `validate:"required"`
	Concurrency           int           `validate:"gt=0,lte=64"`
	RequestDelay          time.Duration `validate:"gte=0"`
	RequestTimeout        time.Duration `validate:"gt=0"`
	CheckpointEvery       int           `validate:"gte=0"`
	ScheduleCron          string
	DiscordWebhookURL     string `validate:"omitempty,url"`
	LogLevel              string `validate:"oneof=debug info warn error"`
	LogFormat             string `validate:"oneof=text json"`
	ConfigFile            string
}

const (
	defaultBaseURL      = "https://leetcode.com"
	defaultStop         = math.MaxInt32
	defaultPageSize     = 500
	defaultOutputFile   = "leetcode.apkg"
	defaultCacheDir     = "cache"
	defaultConcurrency  = 4
	defaultRequestDelay = 2 * time.Second
	defaultTimeout      = 30 * time.Second
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultConfigFile   = "leetcode-anki.json5"
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		BaseURL:        defaultBaseURL,
		Stop:           defaultStop,
		PageSize:       defaultPageSize,
		OutputFile:     defaultOutputFile,
		CacheDir:       defaultCacheDir,
		Concurrency:    defaultConcurrency,
		RequestDelay:   defaultRequestDelay,
		RequestTimeout: defaultTimeout,
		LogLevel:       defaultLogLevel,
		LogFormat:      defaultLogFormat,
	}
}

// Load builds a Config from defaults, an optional config file, a .env file
// and environment variables, in increasing order of precedence. configFile
// overrides LEETCODE_ANKI_CONFIG; when both are empty leetcode-anki.json5 is
// read if it exists. The result is not validated, so that flags can still be
// applied on top.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w: %w", errs.ErrConfiguration, err)
	}

	cfg := Default()

	path, required := configFile, true
	if path == "" {
		path = os.Getenv("LEETCODE_ANKI_CONFIG")
	}
	if path == "" {
		path, required = defaultConfigFile, false
	}
	file, err := readFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w: %w", path, errs.ErrConfiguration, err)
	default:
		if err := file.apply(cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w: %w", path, errs.ErrConfiguration, err)
		}
		cfg.ConfigFile = path
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("environment: %w: %w", errs.ErrConfiguration, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.SessionID = getenvDefault("LEETCODE_SESSION_ID", c.SessionID)
	c.CSRFToken = getenvDefault("LEETCODE_CSRF_TOKEN", c.CSRFToken)
	c.BaseURL = getenvDefault("LEETCODE_BASE_URL", c.BaseURL)
	c.ProblemStatus = strings.ToUpper(getenvDefault("LEETCODE_PROBLEM_STATUS", c.ProblemStatus))
	c.ListID = getenvDefault("LEETCODE_LIST_ID", c.ListID)
	c.OutputFile = getenvDefault("LEETCODE_OUTPUT_FILE", c.OutputFile)
	c.CacheDir = getenvDefault("LEETCODE_CACHE_DIR", c.CacheDir)
	c.ScheduleCron = getenvDefault("SCHEDULE_CRON", c.ScheduleCron)
	c.DiscordWebhookURL = getenvDefault("DISCORD_WEBHOOK_URL", c.DiscordWebhookURL)
	c.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", c.LogFormat))

	var err error
	if c.IncludeLastSubmission, err = parseBoolDefault("LEETCODE_INCLUDE_LAST_SUBMISSION", c.IncludeLastSubmission); err != nil {
		return err
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"LEETCODE_START", &c.Start},
		{"LEETCODE_STOP", &c.Stop},
		{"LEETCODE_PAGE_SIZE", &c.PageSize},
		{"LEETCODE_CONCURRENCY", &c.Concurrency},
		{"LEETCODE_CHECKPOINT_EVERY", &c.CheckpointEvery},
	}
	for _, v := range ints {
		if *v.dst, err = parseIntDefault(v.key, *v.dst); err != nil {
			return err
		}
	}
	if c.RequestDelay, err = parseDurationDefault("LEETCODE_REQUEST_DELAY", c.RequestDelay); err != nil {
		return err
	}
	if c.RequestTimeout, err = parseDurationDefault("REQUEST_TIMEOUT", c.RequestTimeout); err != nil {
		return err
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the relations between fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", errs.ErrConfiguration, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", errs.ErrConfiguration, err)
	}
	if c.Start > c.Stop {
		return fmt.Errorf("%w: start %d is after stop %d", errs.ErrConfiguration, c.Start, c.Stop)
	}
	if c.ScheduleCron != "" {
		if _, err := cron.ParseStandard(c.ScheduleCron); err != nil {
			return fmt.Errorf("%w: schedule %q: %w", errs.ErrConfiguration, c.ScheduleCron, err)
		}
	}
	return nil
}

// DeckName is the output file name without directory and extension.
func (c *Config) DeckName() string {
	base := filepath.Base(c.OutputFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseIntDefault(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func parseBoolDefault(key string, fallback bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func parseDurationDefault(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
