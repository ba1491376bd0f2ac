//go:build wireinject

package di

import (
	"github.com/google/wire"

	"leetcode-anki/internal/adapter/diskcache"
	"leetcode-anki/internal/adapter/logging"
	"leetcode-anki/internal/app"
	"leetcode-anki/internal/config"
	"leetcode-anki/internal/domain/model"
	"leetcode-anki/internal/domain/ports"
	"leetcode-anki/internal/usecase"
)

// InitializeApp wires the application components together.
func InitializeApp(cfg *config.Config, streams Streams) (*app.App, error) {
	wire.Build(
		provideSlogLogger,
		logging.New,
		wire.Bind(new(ports.Logger), new(*logging.SLogger)),
		provideProblemProvider,
		provideDetailCache,
		provideSubmissionCache,
		wire.Bind(new(ports.Cache[model.ProblemDetail]), new(*diskcache.Cache[model.ProblemDetail])),
		wire.Bind(new(ports.Cache[model.Submission]), new(*diskcache.Cache[model.Submission])),
		provideDeckWriter,
		provideNotifier,
		provideBuilderConfig,
		usecase.NewDeckBuilder,
		wire.Bind(new(app.Builder), new(*usecase.DeckBuilder)),
		provideApp,
	)
	return nil, nil
}

// InitializeCaches builds the caches alone, for maintenance commands that do no network I/O.
func InitializeCaches(cfg *config.Config, streams Streams) (*Caches, error) {
	wire.Build(
		provideSlogLogger,
		logging.New,
		wire.Bind(new(ports.Logger), new(*logging.SLogger)),
		provideDetailCache,
		provideSubmissionCache,
		wire.Struct(new(Caches), "*"),
	)
	return nil, nil
}
