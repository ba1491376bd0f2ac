package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// RegisterFlags declares the command-line overrides. Flag defaults mirror
// Default() for help output only; ApplyFlags copies a flag onto the Config
// only when it was set explicitly.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "config file (.json, .json5, .yaml); defaults to "+defaultConfigFile+" when present")
	fs.String("session-id", "", "LeetCode LEETCODE_SESSION cookie")
	fs.String("csrf-token", "", "LeetCode csrftoken cookie")
	fs.String("problem-status", "", "only include problems with this status: AC, TRIED or NOT_STARTED")
	fs.String("list-id", "", "only include problems from this favourite list")
	fs.Bool("include-last-submission", false, "add the last accepted submission to each card")
	fs.Int("start", 0, "first problem index to include")
	fs.Int("stop", d.Stop, "last problem index to include")
	fs.Int("page-size", d.PageSize, "problems requested per list page")
	fs.String("output-file", d.OutputFile, "deck package to write")
	fs.String("cache-dir", d.CacheDir, "directory for cached problems and submissions")
	fs.Int("concurrency", d.Concurrency, "problems fetched in parallel")
	fs.Duration("request-delay", d.RequestDelay, "minimum delay between LeetCode requests")
	fs.Duration("request-timeout", d.RequestTimeout, "timeout for a single request")
	fs.Int("checkpoint-every", 0, "rewrite the deck after every N problems (0 writes once)")
	fs.String("schedule", "", "cron expression; run repeatedly instead of once")
	fs.String("log-level", d.LogLevel, "debug, info, warn or error")
	fs.String("log-format", d.LogFormat, "text or json")
}

// ApplyFlags copies explicitly set flags onto c.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	strs := map[string]*string{
		"session-id":     &c.SessionID,
		"csrf-token":     &c.CSRFToken,
		"problem-status": &c.ProblemStatus,
		"list-id":        &c.ListID,
		"output-file":    &c.OutputFile,
		"cache-dir":      &c.CacheDir,
		"schedule":       &c.ScheduleCron,
		"log-level":      &c.LogLevel,
		"log-format":     &c.LogFormat,
	}
	for name, dst := range strs {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	ints := map[string]*int{
		"start":            &c.Start,
		"stop":             &c.Stop,
		"page-size":        &c.PageSize,
		"concurrency":      &c.Concurrency,
		"checkpoint-every": &c.CheckpointEvery,
	}
	for name, dst := range ints {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	durations := map[string]*time.Duration{
		"request-delay":   &c.RequestDelay,
		"request-timeout": &c.RequestTimeout,
	}
	for name, dst := range durations {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetDuration(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if fs.Changed("include-last-submission") {
		v, err := fs.GetBool("include-last-submission")
		if err != nil {
			return err
		}
		c.IncludeLastSubmission = v
	}
	c.ProblemStatus = strings.ToUpper(c.ProblemStatus)
	return nil
}
