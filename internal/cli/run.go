package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/doppel/internal/scenario"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario-file>...",
		Short: "Execute scenario files",
		Long: `Execute one or more scenario files against a fresh scope each.

Every scenario runs in isolation: its own call ledger, its own doubles.
The transcript of each run is printed in the configured format; the
command fails when any scenario's checks fail.

Example:
  doppel run scenarios/checkout.yaml
  doppel run --format json scenarios/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runScenarios(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	// Configure logging based on verbose flag; diagnostics share the
	// command's error stream, never the transcript stream.
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(formatter.GetErrWriter(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	failed := 0
	for _, path := range paths {
		sc, err := scenario.Load(path)
		if err != nil {
			_ = formatter.Error(ErrCodeLoad, err.Error(), map[string]string{"file": path})
			return WrapExitError(ExitCommandError, "failed to load scenario", err)
		}
		formatter.VerboseLog("running %s (%d doubles, %d steps)", sc.Name, len(sc.Doubles), len(sc.Steps))

		transcript, err := scenario.Run(sc)
		if err != nil {
			_ = formatter.Error(ErrCodeRun, err.Error(), map[string]string{"scenario": sc.Name})
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to run scenario %s", sc.Name), err)
		}
		if !transcript.Pass {
			failed++
		}

		if err := outputTranscript(formatter, transcript); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", failed, len(paths)))
	}
	return nil
}

func outputTranscript(f *OutputFormatter, t *scenario.Transcript) error {
	if f.Format == "json" {
		return f.Success(t)
	}
	_, err := fmt.Fprint(f.Writer, t.Text())
	return err
}
