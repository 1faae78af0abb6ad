package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/poq-labs/poq/internal/branding"
	"github.com/spf13/cobra"
)

// newLogger returns the process logger: warnings only, or everything with
// --verbose or POQ_DEBUG set.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose || os.Getenv(branding.EnvVar("DEBUG")) != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// setupLogging installs the process logger as the slog default for every
// command, so package-level slog calls follow --verbose too.
func setupLogging(cmd *cobra.Command, args []string) {
	slog.SetDefault(newLogger(cmd.ErrOrStderr()))
}
