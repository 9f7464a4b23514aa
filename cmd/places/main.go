package main

import (
	"context"
	"os"

	"places/internal/env"
	"places/pkg/graceful"
)

func main() {
	env.LoadEnv()
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	if err := newRootCmd(os.LookupEnv, os.Stdout).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
