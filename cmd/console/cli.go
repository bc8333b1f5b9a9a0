package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	dpcli "github.com/database-playground/query-console/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	app := &App{}

	execCommand := newExecCommand(app)
	doctorCommand := newDoctorCommand(app)

	rootCommand := newRootCommand(app, execCommand, doctorCommand)

	if err := rootCommand.Run(ctx, os.Args); err != nil {
		// the failure itself has already been printed
		if !errors.Is(err, dpcli.ErrQueryFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
