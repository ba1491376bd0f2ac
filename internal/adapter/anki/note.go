package anki

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"leetcode-anki/internal/adapter/htmltext"
	"leetcode-anki/internal/domain/model"
)

var difficultyColors = map[string]string{
	"Easy":   "green",
	"Medium": "orange",
	"Hard":   "red",
}

// note is one row of the notes table together with its single card.
type note struct {
	ID     int64
	CardID int64
	GUID   string
	Fields []string
	Tags   []string
}

func newNote(index int, problem model.Problem) note {
	detail := problem.Detail
	fields := []string{
		detail.Slug,
		strconv.Itoa(detail.ID),
		html.EscapeString(detail.Title),
		detail.Category,
		detail.Content,
		coloredDifficulty(detail.Difficulty),
		yesNo(detail.PaidOnly),
		strconv.Itoa(detail.Likes),
		strconv.Itoa(detail.Dislikes),
		strconv.Itoa(detail.SubmissionsTotal),
		strconv.Itoa(detail.SubmissionsAccepted),
		strconv.Itoa(detail.AcceptRate()),
		submissionCode(problem.Submission),
	}
	return note{
		ID:     noteIDBase + int64(index),
		CardID: cardIDBase + int64(index),
		GUID:   GUID(detail.Slug),
		Fields: fields,
		Tags:   noteTags(detail),
	}
}

func coloredDifficulty(difficulty string) string {
	color, ok := difficultyColors[difficulty]
	if !ok {
		return html.EscapeString(difficulty)
	}
	return fmt.Sprintf("<font color='%s'>%s</font>", color, difficulty)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func submissionCode(submission *model.Submission) string {
	if submission == nil || submission.Code == "" {
		return ""
	}
	return "\n" + html.EscapeString(submission.Code)
}

func noteTags(detail model.ProblemDetail) []string {
	tags := make([]string, 0, len(detail.Tags)+1)
	for _, tag := range detail.Tags {
		// Anki tags are space separated.
		tags = append(tags, strings.ReplaceAll(tag.Slug, " ", "_"))
	}
	if detail.Difficulty != "" {
		tags = append(tags, fmt.Sprintf("difficulty-%s-tag", strings.ToLower(detail.Difficulty)))
	}
	return tags
}

func (n note) joinedFields() string {
	return strings.Join(n.Fields, fieldSeparator)
}

func (n note) joinedTags() string {
	if len(n.Tags) == 0 {
		return ""
	}
	return " " + strings.Join(n.Tags, " ") + " "
}

func (n note) sortField() string {
	return htmltext.Strip(n.Fields[sortFieldIndex])
}

func (n note) checksum() int64 {
	return fieldChecksum(n.Fields[0])
}
