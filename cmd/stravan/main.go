package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stravan-client/client/dispatch/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if domain.IsInvalidArgument(err) {
			fmt.Fprintln(os.Stderr, "run 'stravan --help' for usage")
		}
		cancel()
		os.Exit(1)
	}
}
