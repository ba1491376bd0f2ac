package ports

import (
	"context"

	"leetcode-anki/internal/domain/model"
)

// DeckWriter serializes problems into a flashcard package, replacing any previous output.
type DeckWriter interface {
	Write(ctx context.Context, deckName string, problems []model.Problem) error
}
