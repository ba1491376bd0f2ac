package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"leetcode-anki/cmd/leetcode-anki/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
