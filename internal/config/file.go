package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for config files. Pointers distinguish an
// explicit zero from an absent key; durations are strings such as "2s".
type fileConfig struct {
	SessionID             string `json:"session_id" yaml:"session_id"`
	CSRFToken             string `json:"csrf_token" yaml:"csrf_token"`
	BaseURL               string `json:"base_url" yaml:"base_url"`
	ProblemStatus         string `json:"problem_status" yaml:"problem_status"`
	ListID                string `json:"list_id" yaml:"list_id"`
	IncludeLastSubmission *bool  `json:"include_last_submission" yaml:"include_last_submission"`
	Start                 *int   `json:"start" yaml:"start"`
	Stop                  *int   `json:"stop" yaml:"stop"`
	PageSize              *int   `json:"page_size" yaml:"page_size"`
	OutputFile            string `json:"output_file" yaml:"output_file"`
	CacheDir              string `json:"cache_dir" yaml:"cache_dir"`
	Concurrency           *int   `json:"concurrency" yaml:"concurrency"`
	RequestDelay          string `json:"request_delay" yaml:"request_delay"`
	RequestTimeout        string `json:"request_timeout" yaml:"request_timeout"`
	CheckpointEvery       *int   `json:"checkpoint_every" yaml:"checkpoint_every"`
	ScheduleCron          string `json:"schedule_cron" yaml:"schedule_cron"`
	DiscordWebhookURL     string `json:"discord_webhook_url" yaml:"discord_webhook_url"`
	LogLevel              string `json:"log_level" yaml:"log_level"`
	LogFormat             string `json:"log_format" yaml:"log_format"`
}

func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// readFile reads name and merges <name>.local.<ext> over it when present.
// It returns an error wrapping fs.ErrNotExist when neither exists.
func readFile(name string) (fileConfig, error) {
	var out fileConfig
	found := false

	if data, err := os.ReadFile(name); err == nil {
		if out, err = decodeFile(name, data); err != nil {
			return out, err
		}
		found = true
	} else if !os.IsNotExist(err) {
		return out, err
	}

	prefix, ext := splitExt(name)
	localName := prefix + ".local" + ext
	if data, err := os.ReadFile(localName); err == nil {
		override, err := decodeFile(localName, data)
		if err != nil {
			return out, err
		}
		// Without dereferencing, a set pointer in the override replaces the
		// base pointer even when it points at zero.
		if err := mergo.Merge(&out, override, mergo.WithOverride, mergo.WithoutDereference); err != nil {
			return out, fmt.Errorf("merge %s: %w", localName, err)
		}
		found = true
	} else if !os.IsNotExist(err) {
		return out, err
	}

	if !found {
		return out, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return out, nil
}

func decodeFile(name string, data []byte) (fileConfig, error) {
	var out fileConfig
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	case ".json", ".json5":
		err = json5.Unmarshal(data, &out)
	default:
		return out, fmt.Errorf("unsupported config format %q", filepath.Ext(name))
	}
	if err != nil {
		return out, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

func (f fileConfig) apply(c *Config) error {
	setString(&c.SessionID, f.SessionID)
	setString(&c.CSRFToken, f.CSRFToken)
	setString(&c.BaseURL, f.BaseURL)
	setString(&c.ProblemStatus, strings.ToUpper(f.ProblemStatus))
	setString(&c.ListID, f.ListID)
	setString(&c.OutputFile, f.OutputFile)
	setString(&c.CacheDir, f.CacheDir)
	setString(&c.ScheduleCron, f.ScheduleCron)
	setString(&c.DiscordWebhookURL, f.DiscordWebhookURL)
	setString(&c.LogLevel, strings.ToLower(f.LogLevel))
	setString(&c.LogFormat, strings.ToLower(f.LogFormat))

	if f.IncludeLastSubmission != nil {
		c.IncludeLastSubmission = *f.IncludeLastSubmission
	}
	setInt(&c.Start, f.Start)
	setInt(&c.Stop, f.Stop)
	setInt(&c.PageSize, f.PageSize)
	setInt(&c.Concurrency, f.Concurrency)
	setInt(&c.CheckpointEvery, f.CheckpointEvery)

	if err := setDuration(&c.RequestDelay, "request_delay", f.RequestDelay); err != nil {
		return err
	}
	return setDuration(&c.RequestTimeout, "request_timeout", f.RequestTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, key, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
