package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"leetcode-anki/internal/adapter/diskcache"
	"leetcode-anki/internal/domain/errs"
	"leetcode-anki/internal/domain/model"
	"leetcode-anki/internal/domain/ports"
	"leetcode-anki/internal/testutil"
)

type fakeProvider struct {
	summaries   []model.ProblemSummary
	failDetail  map[string]error
	submissions map[string]model.Submission
	sessionErr  error

	mu              sync.Mutex
	detailCalls     map[string]int
	submissionCalls int
	lastQuery       ports.ListQuery
}

func newFakeProvider(summaries ...model.ProblemSummary) *fakeProvider {
	return &fakeProvider{
		summaries:   summaries,
		failDetail:  map[string]error{},
		submissions: map[string]model.Submission{},
		detailCalls: map[string]int{},
	}
}

func (f *fakeProvider) CheckSession(context.Context) error { return f.sessionErr }

func (f *fakeProvider) ListProblems(_ context.Context, query ports.ListQuery) ([]model.ProblemSummary, error) {
	f.mu.Lock()
	f.lastQuery = query
	f.mu.Unlock()
	return f.summaries, nil
}

func (f *fakeProvider) GetDetail(_ context.Context, slug string) (model.ProblemDetail, error) {
	f.mu.Lock()
	f.detailCalls[slug]++
	f.mu.Unlock()
	if err := f.failDetail[slug]; err != nil {
		return model.ProblemDetail{}, err
	}
	return detailFor(slug), nil
}

func (f *fakeProvider) GetLastAcceptedSubmission(_ context.Context, slug string) (model.Submission, error) {
	f.mu.Lock()
	f.submissionCalls++
	f.mu.Unlock()
	submission, ok := f.submissions[slug]
	if !ok {
		return model.Submission{}, fmt.Errorf("submission %s: %w", slug, errs.ErrNoAcceptedSubmission)
	}
	return submission, nil
}

func (f *fakeProvider) totalDetailCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.detailCalls {
		total += n
	}
	return total
}

type recordingWriter struct {
	mu     sync.Mutex
	writes [][]model.Problem
	err    error
}

func (w *recordingWriter) Write(_ context.Context, _ string, problems []model.Problem) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.writes = append(w.writes, append([]model.Problem(nil), problems...))
	return nil
}

func (w *recordingWriter) last() []model.Problem {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.writes) == 0 {
		return nil
	}
	return w.writes[len(w.writes)-1]
}

func detailFor(slug string) model.ProblemDetail {
	return model.ProblemDetail{
		Slug:       slug,
		Title:      "Title " + slug,
		Content:    "<p>" + slug + "</p>",
		Difficulty: "Easy",
		Tags:       []model.Tag{{Name: "Array", Slug: "array"}},
	}
}

func summary(slug, status string) model.ProblemSummary {
	return model.ProblemSummary{Slug: slug, Title: "Title " + slug, Status: status}
}

func slugs(problems []model.Problem) []string {
	out := make([]string, 0, len(problems))
	for _, p := range problems {
		out = append(out, p.Detail.Slug)
	}
	return out
}

type harness struct {
	provider *fakeProvider
	writer   *recordingWriter
	logger   *testutil.Logger
	builder  *DeckBuilder
}

func newHarness(t *testing.T, root string, provider *fakeProvider, cfg DeckBuilderConfig) *harness {
	t.Helper()
	logger := &testutil.Logger{}
	details, err := diskcache.New[model.ProblemDetail](root, "problems", logger)
	require.NoError(t, err)
	submissions, err := diskcache.New[model.Submission](root, "submissions", logger)
	require.NoError(t, err)

	if cfg.DeckName == "" {
		cfg.DeckName = "leetcode"
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 3
	}
	writer := &recordingWriter{}
	return &harness{
		provider: provider,
		writer:   writer,
		logger:   logger,
		builder:  NewDeckBuilder(provider, details, submissions, writer, logger, cfg),
	}
}

func TestRunFiltersSolvedInOrder(t *testing.T) {
	provider := newFakeProvider(
		summary("a", model.StatusAccepted),
		summary("b", model.StatusNotAccepted),
		summary("c", model.StatusAccepted),
	)
	h := newHarness(t, t.TempDir(), provider, DeckBuilderConfig{
		StatusFilter: FilterSolved,
		Query:        ports.ListQuery{Status: FilterSolved},
	})

	report, err := h.builder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, slugs(h.writer.last()))
	require.Equal(t, 3, report.Listed)
	require.Equal(t, 2, report.Selected)
	require.Equal(t, 2, report.Cards)
	require.Equal(t, 0, provider.detailCalls["b"])
	require.Equal(t, FilterSolved, provider.lastQuery.Status)
}

func TestRunWarmCacheSkipsDetailFetches(t *testing.T) {
	root := t.TempDir()
	provider := newFakeProvider(summary("a", ""), summary("b", ""), summary("c", ""))

	first := newHarness(t, root, provider, DeckBuilderConfig{})
	report, err := first.builder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, report.Fetched)
	require.Equal(t, 3, provider.totalDetailCalls())

	second := newHarness(t, root, provider, DeckBuilderConfig{})
	report, err = second.builder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, provider.totalDetailCalls(), "warm cache must not refetch")
	require.Equal(t, 3, report.CacheHits)
	require.Equal(t, 0, report.Fetched)
	require.Empty(t, cmp.Diff(first.writer.last(), second.writer.last()))
}

func TestRunSkipsFailedProblem(t *testing.T) {
	provider := newFakeProvider(summary("a", ""), summary("b", ""), summary("c", ""), summary("d", ""))
	provider.failDetail["b"] = fmt.Errorf("get detail b: %w", errs.ErrFetch)
	h := newHarness(t, t.TempDir(), provider, DeckBuilderConfig{})

	report, err := h.builder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c", "d"}, slugs(h.writer.last()))
	require.Equal(t, []string{"b"}, report.Skipped)
	require.Equal(t, 3, report.Cards)
	require.NotEmpty(t, h.logger.Entries("error"))
}

func TestRunRebuildAfterCacheDeletion(t *testing.T) {
	root := t.TempDir()
	provider := newFakeProvider(summary("a", ""), summary("b", ""))

	first := newHarness(t, root, provider, DeckBuilderConfig{})
	_, err := first.builder.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(root))

	second := newHarness(t, root, provider, DeckBuilderConfig{})
	_, err = second.builder.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 4, provider.totalDetailCalls())
	require.Empty(t, cmp.Diff(first.writer.last(), second.writer.last()))
}

func TestRunAuthenticationIsFatal(t *testing.T) {
	provider := newFakeProvider(summary("a", ""), summary("b", ""))
	provider.failDetail["a"] = fmt.Errorf("get detail a: %w", errs.ErrAuthentication)
	h := newHarness(t, t.TempDir(), provider, DeckBuilderConfig{Concurrency: 1})

	_, err := h.builder.Run(context.Background())
	require.ErrorIs(t, err, errs.ErrAuthentication)
	require.Empty(t, h.writer.writes)
}

func TestRunSessionFailure(t *testing.T) {
	provider := newFakeProvider(summary("a", ""))
	provider.sessionErr = fmt.Errorf("check session: %w", errs.ErrAuthentication)
	h := newHarness(t, t.TempDir(), provider, DeckBuilderConfig{})

	_, err := h.builder.Run(context.Background())
	require.ErrorIs(t, err, errs.ErrAuthentication)
	require.Zero(t, provider.totalDetailCalls())
}

func TestRunWriterFailure(t *testing.T) {
	provider := newFakeProvider(summary("a", ""))
	h := newHarness(t, t.TempDir(), provider, DeckBuilderConfig{})
	h.writer.err = fmt.Errorf("write: %w", errs.ErrSerialization)

	_, err := h.builder.Run(context.Background())
	require.True(t, errors.Is(err, errs.ErrSerialization))
}

func TestRunIncludesSubmissions(t *testing.T) {
	provider := newFakeProvider(summary("a", model.StatusAccepted), summary("b", model.StatusAccepted))
	provider.submissions["a"] = model.Submission{ID: "1", Language: "Go", Code: "return nil"}
	root := t.TempDir()
	h := newHarness(t, root, provider, DeckBuilderConfig{
		StatusFilter:          FilterSolved,
		IncludeLastSubmission: true,
	})

	report, err := h.builder.Run(context.Background())
	require.NoError(t, err)

	problems := h.writer.last()
	require.Len(t, problems, 2)
	require.NotNil(t, problems[0].Submission)
	require.Equal(t, "return nil", problems[0].Submission.Code)
	require.Nil(t, problems[1].Submission, "missing submission keeps the card")
	require.Len(t, h.logger.Entries("warn"), 1)
	require.Equal(t, 2, report.Fetched, "only details are counted")

	again := newHarness(t, root, provider, DeckBuilderConfig{IncludeLastSubmission: true})
	report, err = again.builder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, provider.submissionCalls, "cached submission is reused")
	require.Equal(t, 2, report.CacheHits)
	require.Equal(t, 0, report.Fetched)
}

func TestRunSkipsSubmissionsForUnsolved(t *testing.T) {
	provider := newFakeProvider(
		summary("a", model.StatusAccepted),
		summary("b", model.StatusNotAccepted),
		summary("c", ""),
	)
	provider.submissions["a"] = model.Submission{ID: "1", Language: "Go", Code: "return nil"}
	h := newHarness(t, t.TempDir(), provider, DeckBuilderConfig{IncludeLastSubmission: true})

	report, err := h.builder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, provider.submissionCalls)
	require.Equal(t, 3, report.Cards)
	require.Equal(t, 3, report.Fetched)
	require.Empty(t, h.logger.Entries("warn"))

	problems := h.writer.last()
	require.NotNil(t, problems[0].Submission)
	require.Nil(t, problems[1].Submission)
	require.Nil(t, problems[2].Submission)
}

func TestRunSerializationIsFatalDuringCheckpoint(t *testing.T) {
	provider := newFakeProvider(summary("a", ""), summary("b", ""), summary("c", ""))
	h := newHarness(t, t.TempDir(), provider, DeckBuilderConfig{Concurrency: 1, CheckpointEvery: 1})
	h.writer.err = fmt.Errorf("write: %w", errs.ErrSerialization)

	_, err := h.builder.Run(context.Background())
	require.ErrorIs(t, err, errs.ErrSerialization)
}

func TestRunCheckpoints(t *testing.T) {
	provider := newFakeProvider(summary("a", ""), summary("b", ""), summary("c", ""), summary("d", ""), summary("e", ""))
	h := newHarness(t, t.TempDir(), provider, DeckBuilderConfig{Concurrency: 1, CheckpointEvery: 2})

	_, err := h.builder.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, h.writer.writes, 3)
	require.Equal(t, []string{"a", "b"}, slugs(h.writer.writes[0]))
	require.Equal(t, []string{"a", "b", "c", "d"}, slugs(h.writer.writes[1]))
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, slugs(h.writer.writes[2]))
}

func TestFilterSummaries(t *testing.T) {
	all := []model.ProblemSummary{
		summary("a", model.StatusAccepted),
		summary("b", model.StatusNotAccepted),
		summary("c", ""),
	}
	tests := []struct {
		filter string
		want   []string
	}{
		{FilterAll, []string{"a", "b", "c"}},
		{FilterSolved, []string{"a"}},
		{FilterTried, []string{"b"}},
		{FilterNotStarted, []string{"c"}},
	}
	for _, tt := range tests {
		t.Run("filter="+tt.filter, func(t *testing.T) {
			var got []string
			for _, s := range FilterSummaries(all, tt.filter) {
				got = append(got, s.Slug)
			}
			require.Equal(t, tt.want, got)
		})
	}
}
