package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/doppel/internal/scenario"
)

// ValidationResult holds validation results for one scenario file.
type ValidationResult struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario-file>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files without executing any steps.

Checks YAML syntax, double declarations (unique labels, known effects)
and step structure (declared doubles, matching arities, throw only on
throwing effects). Faster than run for editing feedback.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	results := make([]ValidationResult, 0, len(paths))
	invalid := 0
	for _, path := range paths {
		res := ValidationResult{Path: path, Valid: true}
		if _, err := scenario.Load(path); err != nil {
			res.Valid = false
			res.Error = err.Error()
			invalid++
		}
		results = append(results, res)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	} else {
		for _, res := range results {
			if res.Valid {
				fmt.Fprintf(formatter.Writer, "ok   %s\n", res.Path)
			} else {
				fmt.Fprintf(formatter.Writer, "FAIL %s: %s\n", res.Path, res.Error)
			}
		}
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) invalid", invalid, len(paths)))
	}
	return nil
}
