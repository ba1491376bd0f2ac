// Package testutil holds fakes shared by package tests.
package testutil

import (
	"context"
	"sync"

	"leetcode-anki/internal/domain/ports"
)

// Entry is one recorded log call.
type Entry struct {
	Level string
	Msg   string
	Args  []any
}

// Logger records log calls. Safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
}

var _ ports.Logger = (*Logger)(nil)

func (l *Logger) Debug(_ context.Context, msg string, args ...any) { l.add("debug", msg, args) }
func (l *Logger) Info(_ context.Context, msg string, args ...any)  { l.add("info", msg, args) }
func (l *Logger) Warn(_ context.Context, msg string, args ...any)  { l.add("warn", msg, args) }
func (l *Logger) Error(_ context.Context, msg string, args ...any) { l.add("error", msg, args) }

func (l *Logger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
}

// Entries returns the recorded calls at level, or all calls when level is empty.
func (l *Logger) Entries(level string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
