package ports

import (
	"context"

	"leetcode-anki/internal/domain/model"
)

// Notifier sends run summaries to downstream channels (e.g. Discord).
type Notifier interface {
	Send(ctx context.Context, notification model.Notification) error
}
