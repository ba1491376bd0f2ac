package leetcode

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"leetcode-anki/internal/domain/errs"
	"leetcode-anki/internal/domain/ports"
)

const (
	defaultBaseURL       = "https://leetcode.com"
	graphQLPath          = "/graphql"
	defaultListRetryWait = 5 * time.Second
	defaultListAttempts  = 3
)

var tracer = otel.Tracer("leetcode-anki/leetcode")

// Options configures a Client.
type Options struct {
	BaseURL   string
	SessionID string
	CSRFToken string
	// Timeout bounds every single HTTP request.
	Timeout time.Duration
	// RequestDelay is the minimum spacing between two requests.
	RequestDelay time.Duration
	// Concurrency caps in-flight detail and submission requests.
	Concurrency int
	// ListAttempts and ListRetryWait control retries of problem list pages.
	ListAttempts  int
	ListRetryWait time.Duration
}

// Client implements ProblemProvider against the LeetCode GraphQL API.
type Client struct {
	http          *resty.Client
	sem           *semaphore.Weighted
	logger        ports.Logger
	listAttempts  int
	listRetryWait time.Duration
}

var _ ports.ProblemProvider = (*Client)(nil)

// New creates an authenticated LeetCode client. It does no network I/O.
func New(opts Options, logger ports.Logger) (*Client, error) {
	if strings.TrimSpace(opts.SessionID) == "" || strings.TrimSpace(opts.CSRFToken) == "" {
		return nil, fmt.Errorf("session id and csrf token are required: %w", errs.ErrAuthentication)
	}

	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	attempts := opts.ListAttempts
	if attempts <= 0 {
		attempts = defaultListAttempts
	}
	retryWait := opts.ListRetryWait
	if retryWait <= 0 {
		retryWait = defaultListRetryWait
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetHeader("Content-Type", "application/json")
	httpClient.SetHeader("Referer", baseURL)
	httpClient.SetHeader("x-csrftoken", opts.CSRFToken)
	httpClient.SetCookies([]*http.Cookie{
		{Name: "LEETCODE_SESSION", Value: opts.SessionID},
		{Name: "csrftoken", Value: opts.CSRFToken},
	})

	// LeetCode rate limits aggressively; keep at most one request per RequestDelay.
	limit := rate.Inf
	if opts.RequestDelay > 0 {
		limit = rate.Every(opts.RequestDelay)
	}
	rateLimiter := rate.NewLimiter(limit, 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	return &Client{
		http:          httpClient,
		sem:           semaphore.NewWeighted(int64(concurrency)),
		logger:        logger,
		listAttempts:  attempts,
		listRetryWait: retryWait,
	}, nil
}

const userStatusQuery = `query globalData {
  userStatus {
    isSignedIn
    username
  }
}`

// CheckSession verifies that the session cookie belongs to a signed-in user.
func (c *Client) CheckSession(ctx context.Context) error {
	var data struct {
		UserStatus struct {
			IsSignedIn bool   `json:"isSignedIn"`
			Username   string `json:"username"`
		} `json:"userStatus"`
	}
	if err := c.graphql(ctx, "globalData", userStatusQuery, map[string]any{}, &data); err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if !data.UserStatus.IsSignedIn {
		return fmt.Errorf("session is not signed in: %w", errs.ErrAuthentication)
	}
	c.info(ctx, "leetcode session verified", "username", data.UserStatus.Username)
	return nil
}

func (c *Client) acquire(ctx context.Context) (func(), error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { c.sem.Release(1) }, nil
}

func (c *Client) info(ctx context.Context, msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(ctx, msg, args...)
	}
}

func (c *Client) warn(ctx context.Context, msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(ctx, msg, args...)
	}
}

func parseInt(val string) int {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0
	}
	return n
}
