package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/buildfeatures/internal/cli"
	bferrors "github.com/matzehuels/buildfeatures/pkg/errors"
)

// Exit codes beyond the generic failure.
const (
	exitInvalid     = 2   // invalid input, definitions or documents
	exitInterrupted = 130 // standard shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch bferrors.GetCode(err) {
	case bferrors.ErrCodeInvalidInput,
		bferrors.ErrCodeInvalidFeatureDefinition,
		bferrors.ErrCodeMalformedCoordinate,
		bferrors.ErrCodeInvalidExclusion,
		bferrors.ErrCodeInvalidDocument,
		bferrors.ErrCodeUnknownFeatureKey:
		return exitInvalid
	}
	return 1
}
