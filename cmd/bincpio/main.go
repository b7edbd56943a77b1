// Command bincpio creates, extracts, validates and verifies old binary cpio
// archives.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/meigma/bincpio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose bool
	quiet   bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:          "bincpio",
		Short:        "Work with old binary cpio archives",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log every record")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "log warnings and errors only")

	cmd.AddCommand(
		newCreateCmd(flags),
		newExtractCmd(flags),
		newValidateCmd(flags),
		newVerifyCmd(flags),
	)
	return cmd
}

// logger builds the logger for a command, writing to its error stream.
func (f *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (f *globalFlags) archiver(cmd *cobra.Command, opts ...bincpio.Option) (*bincpio.Archiver, error) {
	a, err := bincpio.New(append([]bincpio.Option{bincpio.WithLogger(f.logger(cmd))}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("configure archiver: %w", err)
	}
	return a, nil
}
