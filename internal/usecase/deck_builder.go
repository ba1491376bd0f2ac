package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"leetcode-anki/internal/domain/errs"
	"leetcode-anki/internal/domain/model"
	"leetcode-anki/internal/domain/ports"
)

// Status filters accepted by DeckBuilderConfig.StatusFilter.
const (
	FilterAll        = ""
	FilterSolved     = "AC"
	FilterTried      = "TRIED"
	FilterNotStarted = "NOT_STARTED"
)

// DeckBuilder lists problems, resolves each one through the cache or the
// provider, and writes the resulting deck.
type DeckBuilder struct {
	problems    ports.ProblemProvider
	details     ports.Cache[model.ProblemDetail]
	submissions ports.Cache[model.Submission]
	writer      ports.DeckWriter
	logger      ports.Logger
	cfg         DeckBuilderConfig
	now         func() time.Time
}

// DeckBuilderConfig controls what the pipeline fetches and how it writes.
type DeckBuilderConfig struct {
	Query                 ports.ListQuery
	StatusFilter          string
	IncludeLastSubmission bool
	Concurrency           int
	// CheckpointEvery rewrites the deck after every N resolved problems. Zero writes once.
	CheckpointEvery int
	DeckName        string
	OutputFile      string
}

// NewDeckBuilder constructs a DeckBuilder use case.
func NewDeckBuilder(
	problems ports.ProblemProvider,
	details ports.Cache[model.ProblemDetail],
	submissions ports.Cache[model.Submission],
	writer ports.DeckWriter,
	logger ports.Logger,
	cfg DeckBuilderConfig,
) *DeckBuilder {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &DeckBuilder{
		problems:    problems,
		details:     details,
		submissions: submissions,
		writer:      writer,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// run holds the mutable state of a single Run.
type run struct {
	slots     []*model.Problem
	failed    []bool
	resolved  int
	cacheHits atomic.Int64
	fetched   atomic.Int64

	mu sync.Mutex
}

// Run executes the pipeline once. Per-problem failures are logged and
// reported as skipped; authentication and serialization failures abort the run.
func (d *DeckBuilder) Run(ctx context.Context) (model.RunReport, error) {
	start := d.now()
	report := model.RunReport{OutputFile: d.cfg.OutputFile}
	d.logger.Info(ctx, "starting deck build", "deck", d.cfg.DeckName, "filter", d.cfg.StatusFilter)

	if err := d.problems.CheckSession(ctx); err != nil {
		d.logger.Error(ctx, "session check failed", "error", err)
		return report, err
	}

	summaries, err := d.problems.ListProblems(ctx, d.cfg.Query)
	if err != nil {
		d.logger.Error(ctx, "failed to list problems", "error", err)
		return report, err
	}
	report.Listed = len(summaries)

	selected := FilterSummaries(summaries, d.cfg.StatusFilter)
	report.Selected = len(selected)
	d.logger.Info(ctx, "problems selected", "listed", report.Listed, "selected", report.Selected)

	state := &run{
		slots:  make([]*model.Problem, len(selected)),
		failed: make([]bool, len(selected)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Concurrency)
	for i, summary := range selected {
		i, summary := i, summary
		g.Go(func() error {
			return d.resolveSlot(gctx, state, i, summary)
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	problems := compact(state.slots)
	for i, summary := range selected {
		if state.failed[i] {
			report.Skipped = append(report.Skipped, summary.Slug)
		}
	}
	if len(report.Skipped) > 0 {
		d.logger.Warn(ctx, "problems skipped", "count", len(report.Skipped), "slugs", strings.Join(report.Skipped, ","))
	}

	if err := d.writer.Write(ctx, d.cfg.DeckName, problems); err != nil {
		d.logger.Error(ctx, "failed to write deck", "error", err)
		return report, err
	}

	report.Cards = len(problems)
	report.CacheHits = int(state.cacheHits.Load())
	report.Fetched = int(state.fetched.Load())
	report.Duration = d.now().Sub(start)
	d.logger.Info(ctx, "deck build completed",
		"cards", report.Cards,
		"cache_hits", report.CacheHits,
		"fetched", report.Fetched,
		"skipped", len(report.Skipped),
		"duration", report.Duration,
	)
	return report, nil
}

func (d *DeckBuilder) resolveSlot(ctx context.Context, state *run, index int, summary model.ProblemSummary) error {
	slug := summary.Slug
	problem, err := d.resolve(ctx, state, summary)
	if err != nil {
		if errs.IsFatal(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.logger.Error(ctx, "skipping problem", "slug", slug, "error", err)
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	if err != nil {
		state.failed[index] = true
	} else {
		state.slots[index] = &problem
	}
	state.resolved++
	return d.checkpoint(ctx, state)
}

// checkpoint must be called with state.mu held.
func (d *DeckBuilder) checkpoint(ctx context.Context, state *run) error {
	every := d.cfg.CheckpointEvery
	if every <= 0 || state.resolved%every != 0 || state.resolved == len(state.slots) {
		return nil
	}
	partial := compact(state.slots)
	d.logger.Debug(ctx, "writing checkpoint", "notes", len(partial), "resolved", state.resolved)
	if err := d.writer.Write(ctx, d.cfg.DeckName, partial); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

func (d *DeckBuilder) resolve(ctx context.Context, state *run, summary model.ProblemSummary) (model.Problem, error) {
	slug := summary.Slug
	detail, err := d.detail(ctx, state, slug)
	if err != nil {
		return model.Problem{}, err
	}
	problem := model.Problem{Detail: detail}

	// Only solved problems can have an accepted submission.
	if !d.cfg.IncludeLastSubmission || !summary.Solved() {
		return problem, nil
	}
	submission, err := d.submission(ctx, slug)
	switch {
	case err == nil:
		problem.Submission = &submission
	case errs.IsFatal(err):
		return model.Problem{}, err
	default:
		d.logger.Warn(ctx, "no submission for solved problem", "slug", slug, "error", err)
	}
	return problem, nil
}

func (d *DeckBuilder) detail(ctx context.Context, state *run, slug string) (model.ProblemDetail, error) {
	if detail, ok := d.details.Get(ctx, slug); ok {
		state.cacheHits.Add(1)
		return detail, nil
	}

	detail, err := d.problems.GetDetail(ctx, slug)
	if err != nil {
		return model.ProblemDetail{}, err
	}
	state.fetched.Add(1)

	if err := d.details.Put(ctx, slug, detail); err != nil {
		d.logger.Warn(ctx, "failed to cache problem", "slug", slug, "error", err)
	}
	return detail, nil
}

func (d *DeckBuilder) submission(ctx context.Context, slug string) (model.Submission, error) {
	if submission, ok := d.submissions.Get(ctx, slug); ok {
		return submission, nil
	}

	submission, err := d.problems.GetLastAcceptedSubmission(ctx, slug)
	if err != nil {
		return model.Submission{}, err
	}

	if err := d.submissions.Put(ctx, slug, submission); err != nil {
		d.logger.Warn(ctx, "failed to cache submission", "slug", slug, "error", err)
	}
	return submission, nil
}

// FilterSummaries keeps the summaries matching filter, preserving order.
func FilterSummaries(summaries []model.ProblemSummary, filter string) []model.ProblemSummary {
	keep := statusPredicate(filter)
	out := make([]model.ProblemSummary, 0, len(summaries))
	for _, s := range summaries {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func statusPredicate(filter string) func(model.ProblemSummary) bool {
	switch filter {
	case FilterSolved:
		return model.ProblemSummary.Solved
	case FilterTried:
		return func(s model.ProblemSummary) bool { return s.Status == model.StatusNotAccepted }
	case FilterNotStarted:
		return func(s model.ProblemSummary) bool { return s.Status == "" }
	default:
		return func(model.ProblemSummary) bool { return true }
	}
}

func compact(slots []*model.Problem) []model.Problem {
	out := make([]model.Problem, 0, len(slots))
	for _, p := range slots {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
