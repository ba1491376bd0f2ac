package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"leetcode-anki/internal/domain/errs"
)

type graphqlRequest struct {
	OperationName string `json:"operationName"`
	Query         string `json:"query"`
	Variables     any    `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// transientError marks failures worth retrying: transport errors, 429 and 5xx.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

func (c *Client) graphql(ctx context.Context, name, query string, variables any, out any) error {
	ctx, span := tracer.Start(ctx, "graphql:"+name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("graphql.operation", name))

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(graphqlRequest{
			OperationName: name,
			Query:         query,
			Variables:     variables,
		}).
		Post(graphQLPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch")
		if ctx.Err() != nil {
			return fmt.Errorf("perform %s request: %w", name, err)
		}
		return &transientError{err: fmt.Errorf("perform %s request: %w", name, err)}
	}

	status := res.StatusCode()
	span.SetAttributes(attribute.Int("http.status_code", status))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		span.SetStatus(codes.Error, "credentials rejected")
		return fmt.Errorf("%s: status %d: %w", name, status, errs.ErrAuthentication)
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		span.SetStatus(codes.Error, "server unavailable")
		return &transientError{err: fmt.Errorf("%s: unexpected status %d: %s", name, status, truncateBody(res.Body()))}
	case status != http.StatusOK:
		span.SetStatus(codes.Error, "unexpected status")
		return fmt.Errorf("%s: unexpected status %d: %s", name, status, truncateBody(res.Body()))
	}

	var result graphqlResponse[json.RawMessage]
	if err := json.Unmarshal(res.Body(), &result); err != nil {
		span.SetStatus(codes.Error, "failed to parse json response")
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	if len(result.Errors) > 0 {
		span.SetStatus(codes.Error, "graphql error")
		return fmt.Errorf("%s: graphql error: %s", name, result.Errors[0].Message)
	}
	if len(result.Data) == 0 || string(result.Data) == "null" {
		span.SetStatus(codes.Error, "empty data")
		return fmt.Errorf("%s: response has no data", name)
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		span.SetStatus(codes.Error, "failed to parse data")
		return fmt.Errorf("decode %s data: %w", name, err)
	}
	return nil
}

func truncateBody(body []byte) string {
	if len(body) > 1024 {
		body = body[:1024]
	}
	return string(body)
}
