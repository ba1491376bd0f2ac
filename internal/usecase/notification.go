package usecase

import (
	"fmt"
	"strings"
	"time"

	"leetcode-anki/internal/domain/model"
)

const discordFieldLimit = 1000

// BuildNotification summarises a run for downstream notifiers. A non-nil
// runErr marks the notification as failed.
func BuildNotification(report model.RunReport, runErr error) model.Notification {
	if runErr != nil {
		return model.Notification{
			Title:       "LeetCode deck build failed",
			Description: trimForDiscord(runErr.Error(), discordFieldLimit),
			Failed:      true,
		}
	}

	fields := []model.NotificationField{
		{Name: "Cards", Value: fmt.Sprintf("%d", report.Cards), Inline: true},
		{Name: "Cache hits", Value: fmt.Sprintf("%d", report.CacheHits), Inline: true},
		{Name: "Fetched", Value: fmt.Sprintf("%d", report.Fetched), Inline: true},
	}
	if len(report.Skipped) > 0 {
		fields = append(fields, model.NotificationField{
			Name:  fmt.Sprintf("Skipped (%d)", len(report.Skipped)),
			Value: trimForDiscord(strings.Join(report.Skipped, ", "), discordFieldLimit),
		})
	}

	return model.Notification{
		Title: "LeetCode deck updated",
		Description: fmt.Sprintf("**%s**: %d of %d listed problems in %s.",
			report.OutputFile, report.Cards, report.Listed, report.Duration.Round(time.Second)),
		Fields: fields,
	}
}

func trimForDiscord(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	trimmed := content[:limit]
	lastSpace := strings.LastIndex(trimmed, " ")
	if lastSpace > 0 {
		trimmed = trimmed[:lastSpace]
	}
	return trimmed + "..."
}
