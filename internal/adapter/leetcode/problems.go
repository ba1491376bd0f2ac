package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"leetcode-anki/internal/domain/errs"
	"leetcode-anki/internal/domain/model"
	"leetcode-anki/internal/domain/ports"
)

const problemCountQuery = `query problemsetQuestionList($categorySlug: String, $limit: Int, $skip: Int, $filters: QuestionListFilterInput) {
  problemsetQuestionList: questionList(
    categorySlug: $categorySlug
    limit: $limit
    skip: $skip
    filters: $filters
  ) {
    totalNum
  }
}`

const problemPageQuery = `query problemsetQuestionList($categorySlug: String, $limit: Int, $skip: Int, $filters: QuestionListFilterInput) {
  problemsetQuestionList: questionList(
    categorySlug: $categorySlug
    limit: $limit
    skip: $skip
    filters: $filters
  ) {
    questions: data {
      questionFrontendId
      title
      titleSlug
      difficulty
      isPaidOnly
      status
    }
  }
}`

const questionDetailQuery = `query questionData($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionFrontendId
    title
    titleSlug
    categoryTitle
    content
    isPaidOnly
    difficulty
    likes
    dislikes
    topicTags {
      name
      slug
    }
    stats
    hints
  }
}`

type listFilters struct {
	ListID string `json:"listId,omitempty"`
	Status string `json:"status,omitempty"`
}

type listVariables struct {
	CategorySlug string      `json:"categorySlug"`
	Limit        int         `json:"limit"`
	Skip         int         `json:"skip"`
	Filters      listFilters `json:"filters"`
}

type questionListItem struct {
	QuestionFrontendID string  `json:"questionFrontendId"`
	Title              string  `json:"title"`
	TitleSlug          string  `json:"titleSlug"`
	Difficulty         string  `json:"difficulty"`
	IsPaidOnly         bool    `json:"isPaidOnly"`
	Status             *string `json:"status"`
}

// ListProblems pages through the problem list within [query.Start, query.Stop].
func (c *Client) ListProblems(ctx context.Context, query ports.ListQuery) ([]model.ProblemSummary, error) {
	if query.Start < 0 || query.Stop < 0 || query.Start > query.Stop {
		return nil, fmt.Errorf("bad bounds start=%d stop=%d: %w", query.Start, query.Stop, errs.ErrConfiguration)
	}
	if query.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d: %w", query.PageSize, errs.ErrConfiguration)
	}
	filters := listFilters{ListID: query.ListID, Status: query.Status}

	total, err := c.problemCount(ctx, filters)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}
	if query.Start > total {
		return nil, fmt.Errorf("start (%d) is greater than problems count (%d): %w", query.Start, total, errs.ErrConfiguration)
	}

	stop := min(query.Stop, total)
	want := stop - query.Start + 1
	pageSize := min(query.PageSize, want)
	pages := (want + pageSize - 1) / pageSize
	c.info(ctx, "fetching problem list", "problems", want, "page_size", pageSize, "pages", pages)

	problems := make([]model.ProblemSummary, 0, want)
	for page := 0; page < pages; page++ {
		items, err := c.listPage(ctx, listVariables{
			Limit:   pageSize,
			Skip:    query.Start + page*pageSize,
			Filters: filters,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch problem list page %d: %w", page, err)
		}
		for _, item := range items {
			if item.TitleSlug == "" {
				continue
			}
			problems = append(problems, toSummary(item))
		}
		if len(items) < pageSize {
			break
		}
	}

	if len(problems) > want {
		problems = problems[:want]
	}
	return problems, nil
}

func (c *Client) problemCount(ctx context.Context, filters listFilters) (int, error) {
	var data struct {
		List struct {
			TotalNum int `json:"totalNum"`
		} `json:"problemsetQuestionList"`
	}
	err := c.withListRetry(ctx, func() error {
		return c.graphql(ctx, "problemsetQuestionList", problemCountQuery, listVariables{Limit: 1, Filters: filters}, &data)
	})
	if err != nil {
		return 0, fmt.Errorf("fetch problem count: %w", err)
	}
	return data.List.TotalNum, nil
}

func (c *Client) listPage(ctx context.Context, vars listVariables) ([]questionListItem, error) {
	var data struct {
		List struct {
			Questions []questionListItem `json:"questions"`
		} `json:"problemsetQuestionList"`
	}
	err := c.withListRetry(ctx, func() error {
		return c.graphql(ctx, "problemsetQuestionList", problemPageQuery, vars, &data)
	})
	if err != nil {
		return nil, err
	}
	return data.List.Questions, nil
}

// withListRetry retries transient failures with a constant delay; anything else fails at once.
func (c *Client) withListRetry(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.listRetryWait), uint64(c.listAttempts-1)),
		ctx,
	)
	attempt := 0
	return backoff.RetryNotify(
		func() error {
			attempt++
			err := op()
			if err != nil && !isTransient(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		policy,
		func(err error, wait time.Duration) {
			c.warn(ctx, "problem list request failed, retrying", "attempt", attempt, "of", c.listAttempts, "wait", wait, "error", err)
		},
	)
}

func toSummary(item questionListItem) model.ProblemSummary {
	status := ""
	if item.Status != nil {
		status = strings.ToLower(*item.Status)
	}
	return model.ProblemSummary{
		ID:         parseInt(item.QuestionFrontendID),
		Title:      item.Title,
		Slug:       item.TitleSlug,
		Difficulty: item.Difficulty,
		PaidOnly:   item.IsPaidOnly,
		Status:     status,
	}
}

type questionDetail struct {
	QuestionFrontendID string      `json:"questionFrontendId"`
	Title              string      `json:"title"`
	TitleSlug          string      `json:"titleSlug"`
	CategoryTitle      string      `json:"categoryTitle"`
	Content            *string     `json:"content"`
	IsPaidOnly         bool        `json:"isPaidOnly"`
	Difficulty         string      `json:"difficulty"`
	Likes              int         `json:"likes"`
	Dislikes           int         `json:"dislikes"`
	TopicTags          []model.Tag `json:"topicTags"`
	Stats              string      `json:"stats"`
	Hints              []string    `json:"hints"`
}

type questionStats struct {
	TotalAcceptedRaw   int `json:"totalAcceptedRaw"`
	TotalSubmissionRaw int `json:"totalSubmissionRaw"`
}

// GetDetail fetches the statement and metadata of one problem. Single attempt.
func (c *Client) GetDetail(ctx context.Context, slug string) (model.ProblemDetail, error) {
	release, err := c.acquire(ctx)
	if err != nil {
		return model.ProblemDetail{}, fetchError("get detail", slug, err)
	}
	defer release()

	var data struct {
		Question *questionDetail `json:"question"`
	}
	if err := c.graphql(ctx, "questionData", questionDetailQuery, map[string]string{"titleSlug": slug}, &data); err != nil {
		return model.ProblemDetail{}, fetchError("get detail", slug, err)
	}
	if data.Question == nil || data.Question.TitleSlug == "" {
		return model.ProblemDetail{}, fetchError("get detail", slug, errors.New("question not found"))
	}

	q := data.Question
	detail := model.ProblemDetail{
		ID:         parseInt(q.QuestionFrontendID),
		Title:      q.Title,
		Slug:       q.TitleSlug,
		Category:   q.CategoryTitle,
		Difficulty: q.Difficulty,
		PaidOnly:   q.IsPaidOnly,
		Likes:      q.Likes,
		Dislikes:   q.Dislikes,
		Tags:       q.TopicTags,
		Hints:      q.Hints,
	}
	if q.Content != nil {
		detail.Content = *q.Content
	}
	if q.Stats != "" {
		var stats questionStats
		if err := json.Unmarshal([]byte(q.Stats), &stats); err != nil {
			c.warn(ctx, "ignoring malformed question stats", "slug", slug, "error", err)
		} else {
			detail.SubmissionsTotal = stats.TotalSubmissionRaw
			detail.SubmissionsAccepted = stats.TotalAcceptedRaw
		}
	}
	return detail, nil
}

// fetchError wraps per-problem failures in ErrFetch, leaving authentication
// failures unwrapped so callers can abort the run.
func fetchError(op, slug string, err error) error {
	if errors.Is(err, errs.ErrAuthentication) {
		return fmt.Errorf("%s %s: %w", op, slug, err)
	}
	return fmt.Errorf("%s %s: %w: %w", op, slug, errs.ErrFetch, err)
}
