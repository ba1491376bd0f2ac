package di

import (
	"io"
	"log/slog"

	"leetcode-anki/internal/adapter/anki"
	"leetcode-anki/internal/adapter/discord"
	"leetcode-anki/internal/adapter/diskcache"
	"leetcode-anki/internal/adapter/leetcode"
	"leetcode-anki/internal/adapter/logging"
	"leetcode-anki/internal/app"
	"leetcode-anki/internal/config"
	"leetcode-anki/internal/domain/model"
	"leetcode-anki/internal/domain/ports"
	"leetcode-anki/internal/usecase"
)

const (
	problemsNamespace    = "problems"
	submissionsNamespace = "submissions"
)

// Streams are the process outputs: structured logs and the human-readable run report.
type Streams struct {
	Log    io.Writer
	Report io.Writer
}

// Caches groups the on-disk caches for maintenance commands.
type Caches struct {
	Problems    *diskcache.Cache[model.ProblemDetail]
	Submissions *diskcache.Cache[model.Submission]
}

func provideSlogLogger(cfg *config.Config, streams Streams) *slog.Logger {
	return logging.NewSlog(streams.Log, cfg.LogFormat, cfg.LogLevel)
}

func provideProblemProvider(cfg *config.Config, logger ports.Logger) (ports.ProblemProvider, error) {
	return leetcode.New(leetcode.Options{
		BaseURL:      cfg.BaseURL,
		SessionID:    cfg.SessionID,
		CSRFToken:    cfg.CSRFToken,
		Timeout:      cfg.RequestTimeout,
		RequestDelay: cfg.RequestDelay,
		Concurrency:  cfg.Concurrency,
	}, logger)
}

func provideDetailCache(cfg *config.Config, logger ports.Logger) (*diskcache.Cache[model.ProblemDetail], error) {
	return diskcache.New[model.ProblemDetail](cfg.CacheDir, problemsNamespace, logger)
}

func provideSubmissionCache(cfg *config.Config, logger ports.Logger) (*diskcache.Cache[model.Submission], error) {
	return diskcache.New[model.Submission](cfg.CacheDir, submissionsNamespace, logger)
}

func provideDeckWriter(cfg *config.Config, logger ports.Logger) ports.DeckWriter {
	return anki.NewPackageWriter(cfg.OutputFile, logger)
}

func provideNotifier(cfg *config.Config, logger ports.Logger) ports.Notifier {
	if cfg.DiscordWebhookURL == "" {
		return nil
	}
	return discord.NewWebhook(cfg.DiscordWebhookURL, cfg.RequestTimeout, logger)
}

func provideBuilderConfig(cfg *config.Config) usecase.DeckBuilderConfig {
	return usecase.DeckBuilderConfig{
		Query: ports.ListQuery{
			Start:    cfg.Start,
			Stop:     cfg.Stop,
			PageSize: cfg.PageSize,
			Status:   cfg.ProblemStatus,
			ListID:   cfg.ListID,
		},
		StatusFilter:          cfg.ProblemStatus,
		IncludeLastSubmission: cfg.IncludeLastSubmission,
		Concurrency:           cfg.Concurrency,
		CheckpointEvery:       cfg.CheckpointEvery,
		DeckName:              cfg.DeckName(),
		OutputFile:            cfg.OutputFile,
	}
}

func provideApp(builder app.Builder, notifier ports.Notifier, logger ports.Logger, cfg *config.Config, streams Streams) *app.App {
	return app.New(builder, notifier, logger, cfg.ScheduleCron, streams.Report)
}
