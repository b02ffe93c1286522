package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/klauern/styleimport/internal/cli"
	"github.com/klauern/styleimport/internal/importer"
	"github.com/klauern/styleimport/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Run(ctx, os.Args)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, failureMessage(err))
		os.Exit(1)
	}
}

// failureMessage is the line printed to stderr before exiting with status 1.
func failureMessage(err error) string {
	if errors.Is(err, importer.ErrAborted) {
		return ui.StatusWarning("Changes not accepted, nothing was written.")
	}
	return ui.StatusError(fmt.Sprintf("Error: %v", err))
}
