package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sdejongh/dirsync/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)

	var exitErr *cli.ExitError
	if err != nil && !(errors.As(err, &exitErr) && exitErr.Err == nil) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	return cli.ExitCode(err)
}
