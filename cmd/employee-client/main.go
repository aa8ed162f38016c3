package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", appErrors.UserMessage(err))
		stop()
		os.Exit(1)
	}
}
