package leetcode

import (
	"context"
	"fmt"
	"strconv"

	"leetcode-anki/internal/domain/errs"
	"leetcode-anki/internal/domain/model"
)

const (
	submissionStatusAccepted = 10
	submissionListLimit      = 500
)

const submissionListQuery = `query submissionList($offset: Int!, $limit: Int!, $lastKey: String, $questionSlug: String!, $lang: Int, $status: Int) {
  questionSubmissionList(
    offset: $offset
    limit: $limit
    lastKey: $lastKey
    questionSlug: $questionSlug
    lang: $lang
    status: $status
  ) {
    lastKey
    hasNext
    submissions {
      id
      lang
    }
  }
}`

const submissionDetailsQuery = `query submissionDetails($submissionId: Int!) {
  submissionDetails(submissionId: $submissionId) {
    code
    lang {
      name
      verboseName
    }
  }
}`

// GetLastAcceptedSubmission returns the most recent accepted submission for slug.
// It issues two requests: the accepted submission list, then the newest submission's code.
func (c *Client) GetLastAcceptedSubmission(ctx context.Context, slug string) (model.Submission, error) {
	release, err := c.acquire(ctx)
	if err != nil {
		return model.Submission{}, fetchError("get submission", slug, err)
	}
	defer release()

	var list struct {
		List *struct {
			Submissions []struct {
				ID   string `json:"id"`
				Lang string `json:"lang"`
			} `json:"submissions"`
		} `json:"questionSubmissionList"`
	}
	vars := map[string]any{
		"questionSlug": slug,
		"offset":       0,
		"limit":        submissionListLimit,
		"lastKey":      nil,
		"status":       submissionStatusAccepted,
	}
	if err := c.graphql(ctx, "submissionList", submissionListQuery, vars, &list); err != nil {
		return model.Submission{}, fetchError("get submission", slug, err)
	}
	if list.List == nil || len(list.List.Submissions) == 0 {
		return model.Submission{}, fmt.Errorf("get submission %s: %w", slug, errs.ErrNoAcceptedSubmission)
	}

	latest := list.List.Submissions[0]
	id, err := strconv.ParseInt(latest.ID, 10, 64)
	if err != nil {
		return model.Submission{}, fetchError("get submission", slug, fmt.Errorf("bad submission id %q: %w", latest.ID, err))
	}

	var details struct {
		Details *struct {
			Code string `json:"code"`
			Lang struct {
				Name        string `json:"name"`
				VerboseName string `json:"verboseName"`
			} `json:"lang"`
		} `json:"submissionDetails"`
	}
	if err := c.graphql(ctx, "submissionDetails", submissionDetailsQuery, map[string]any{"submissionId": id}, &details); err != nil {
		return model.Submission{}, fetchError("get submission", slug, err)
	}
	if details.Details == nil || details.Details.Code == "" {
		return model.Submission{}, fetchError("get submission", slug, fmt.Errorf("submission %s has no code", latest.ID))
	}

	language := details.Details.Lang.VerboseName
	if language == "" {
		language = latest.Lang
	}
	return model.Submission{
		ID:       latest.ID,
		Language: language,
		Code:     details.Details.Code,
	}, nil
}
