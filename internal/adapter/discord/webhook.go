package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"leetcode-anki/internal/domain/model"
	"leetcode-anki/internal/domain/ports"
)

const (
	colorSuccess = 0x2ECC71
	colorFailure = 0xE74C3C
)

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Fields      []embedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp"`
	Color       int          `json:"color"`
	Footer      embedFooter  `json:"footer"`
}

type payload struct {
	Content string  `json:"content"`
	Embeds  []embed `json:"embeds"`
}

// Webhook is a Discord webhook notifier.
type Webhook struct {
	webhookURL string
	client     *resty.Client
	logger     ports.Logger
	now        func() time.Time
}

var _ ports.Notifier = (*Webhook)(nil)

// NewWebhook creates a new Discord webhook notifier.
func NewWebhook(webhookURL string, timeout time.Duration, logger ports.Logger) *Webhook {
	return &Webhook{
		webhookURL: webhookURL,
		client:     resty.New().SetTimeout(timeout),
		logger:     logger,
		now:        time.Now,
	}
}

// Send posts the notification to Discord.
func (w *Webhook) Send(ctx context.Context, notification model.Notification) error {
	if w.webhookURL == "" {
		return fmt.Errorf("webhook URL is empty")
	}

	color := colorSuccess
	if notification.Failed {
		color = colorFailure
	}
	body := payload{
		Embeds: []embed{{
			Title:       truncate(notification.Title, 256),
			Description: truncate(notification.Description, 4096),
			Fields:      convertFields(notification.Fields),
			Timestamp:   w.now().UTC().Format(time.RFC3339),
			Color:       color,
			Footer:      embedFooter{Text: "leetcode-anki"},
		}},
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(w.webhookURL)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode())
	}

	w.logger.Info(ctx, "notification sent to discord")
	return nil
}

func convertFields(fields []model.NotificationField) []embedField {
	if len(fields) == 0 {
		return nil
	}

	result := make([]embedField, 0, len(fields))
	for _, field := range fields {
		result = append(result, embedField{
			Name:   truncate(field.Name, 256),
			Value:  truncate(field.Value, 1024),
			Inline: field.Inline,
		})
	}
	return result
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return strings.TrimSpace(value[:limit-3]) + "..."
}
