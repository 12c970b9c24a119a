// Package main is the entry point of the student ID registry.
//
// Layout follows the usual DDD split:
// - Domain: identifiers, checksums and records with no infrastructure imports
// - Application: register/save commands, login/list queries, error injection
// - Infrastructure: CSV, SQLite and PostgreSQL storage, Redis login cache
// - Interface: the interactive console menu
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
