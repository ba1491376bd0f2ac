package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leetcode-anki/internal/domain/model"
)

func TestBuildNotificationSuccess(t *testing.T) {
	n := BuildNotification(model.RunReport{
		Listed:     10,
		Cards:      8,
		CacheHits:  5,
		Fetched:    3,
		Skipped:    []string{"a", "b"},
		OutputFile: "leetcode.apkg",
		Duration:   90 * time.Second,
	}, nil)

	require.False(t, n.Failed)
	require.Equal(t, "**leetcode.apkg**: 8 of 10 listed problems in 1m30s.", n.Description)
	require.Len(t, n.Fields, 4)
	require.Equal(t, "Skipped (2)", n.Fields[3].Name)
	require.Equal(t, "a, b", n.Fields[3].Value)
}

func TestBuildNotificationFailure(t *testing.T) {
	n := BuildNotification(model.RunReport{}, errors.New(strings.Repeat("word ", 400)))
	require.True(t, n.Failed)
	require.True(t, strings.HasSuffix(n.Description, "..."))
	require.LessOrEqual(t, len(n.Description), discordFieldLimit+3)
}
