package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leetcode-anki/internal/domain/errs"
	"leetcode-anki/internal/domain/model"
	"leetcode-anki/internal/testutil"
)

type fakeBuilder struct {
	mu     sync.Mutex
	calls  int
	err    error
	report model.RunReport
	ran    chan struct{}
}

func (b *fakeBuilder) Run(context.Context) (model.RunReport, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	if b.ran != nil {
		select {
		case b.ran <- struct{}{}:
		default:
		}
	}
	return b.report, b.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, notification model.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return n.err
}

func TestRunOnceRendersReport(t *testing.T) {
	builder := &fakeBuilder{report: model.RunReport{Cards: 2, OutputFile: "deck.apkg"}}
	notifier := &fakeNotifier{}
	var out bytes.Buffer

	err := New(builder, notifier, &testutil.Logger{}, "", &out).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, builder.calls)
	require.Contains(t, out.String(), "deck.apkg")
	require.Len(t, notifier.sent, 1)
	require.False(t, notifier.sent[0].Failed)
}

func TestRunOnceReturnsFailure(t *testing.T) {
	builder := &fakeBuilder{err: fmt.Errorf("check session: %w", errs.ErrAuthentication)}
	notifier := &fakeNotifier{}
	var out bytes.Buffer

	err := New(builder, notifier, &testutil.Logger{}, "", &out).Run(context.Background())
	require.ErrorIs(t, err, errs.ErrAuthentication)
	require.Empty(t, out.String())
	require.True(t, notifier.sent[0].Failed)
}

func TestNotifierFailureIsNotFatal(t *testing.T) {
	logger := &testutil.Logger{}
	notifier := &fakeNotifier{err: errors.New("discord down")}

	err := New(&fakeBuilder{}, notifier, logger, "", nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, logger.Entries("warn"), 1)
}

func TestRunScheduledUntilCanceled(t *testing.T) {
	builder := &fakeBuilder{err: errors.New("flaky"), ran: make(chan struct{}, 1)}
	logger := &testutil.Logger{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- New(builder, nil, logger, "@every 1h", nil).Run(ctx)
	}()

	select {
	case <-builder.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("first build did not run")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "scheduled failures are not fatal")
	case <-time.After(10 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	require.NotEmpty(t, logger.Entries("error"))
}

func TestRunRejectsBadSchedule(t *testing.T) {
	err := New(&fakeBuilder{}, nil, &testutil.Logger{}, "not a cron", nil).Run(context.Background())
	require.Error(t, err)
}
