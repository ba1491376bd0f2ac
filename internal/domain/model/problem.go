package model

import "fmt"

// Problem statuses reported by the problem list for the signed-in user.
const (
	StatusAccepted    = "ac"
	StatusNotAccepted = "notac"
)

// ProblemSummary is a row of the LeetCode problem list.
type ProblemSummary struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Difficulty string `json:"difficulty"`
	PaidOnly   bool   `json:"paid_only"`
	Status     string `json:"status,omitempty"`
}

// Solved reports whether the signed-in user has an accepted submission.
func (s ProblemSummary) Solved() bool {
	return s.Status == StatusAccepted
}

// Tag is a LeetCode topic tag.
type Tag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProblemDetail is the full problem statement and metadata, cached by slug.
type ProblemDetail struct {
	ID                  int      `json:"id"`
	Title               string   `json:"title"`
	Slug                string   `json:"slug"`
	Category            string   `json:"category"`
	Content             string   `json:"content"`
	Difficulty          string   `json:"difficulty"`
	PaidOnly            bool     `json:"paid_only"`
	Likes               int      `json:"likes"`
	Dislikes            int      `json:"dislikes"`
	Tags                []Tag    `json:"tags"`
	Hints               []string `json:"hints,omitempty"`
	SubmissionsTotal    int      `json:"submissions_total"`
	SubmissionsAccepted int      `json:"submissions_accepted"`
}

// Link returns the public URL of the problem.
func (d ProblemDetail) Link() string {
	return fmt.Sprintf("https://leetcode.com/problems/%s/", d.Slug)
}

// AcceptRate returns the accepted/total ratio as a whole percentage.
func (d ProblemDetail) AcceptRate() int {
	if d.SubmissionsTotal <= 0 {
		return 0
	}
	return d.SubmissionsAccepted * 100 / d.SubmissionsTotal
}

// Submission is the user's last accepted submission for a problem.
type Submission struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Problem is one deck entry: the detail plus the optional last accepted submission.
type Problem struct {
	Detail     ProblemDetail
	Submission *Submission
}
