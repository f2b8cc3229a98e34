package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                `json:"valid"`
	Entities    int                 `json:"entities"`
	Errors      []EntityErrorReport `json:"errors,omitempty"`
	Diagnostics []DiagnosticReport  `json:"diagnostics,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &GenerationFlags{}

	cmd := &cobra.Command{
		Use:   "validate <models>",
		Short: "Check models without writing output",
		Long: `Resolve every declaration and report errors and diagnostics without
writing any files. Faster feedback than generate during development.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), rootOpts, flags, args[0], cmd)
		},
	}

	flags.register(cmd)
	return cmd
}

func runValidate(ctx context.Context, opts *RootOptions, flags *GenerationFlags, modelsPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fmtr := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	s, err := resolveSettings(cmd, opts, flags, modelsPath)
	if err != nil {
		return loadFailure(fmtr, err)
	}
	art, _, err := generate(ctx, s, modelsPath, fmtr)
	if err != nil {
		return loadFailure(fmtr, err)
	}

	report := newReport(art)
	result := ValidationResult{
		Valid:       !art.Failed(),
		Entities:    len(report.Entities),
		Errors:      report.Errors,
		Diagnostics: report.Diagnostics,
	}

	if fmtr.Format == "json" {
		if !result.Valid {
			_ = fmtr.Failure(failureCode(report), "validation failed", result)
			return NewExitError(ExitFailure, "validation failed")
		}
		return fmtr.Success(result)
	}

	fmtr.Diagnostics(art.Diagnostics)
	w := fmtr.Writer
	if !result.Valid {
		fmt.Fprintf(w, "✗ Validation failed with %d error(s):\n", len(result.Errors)+strictErrors(report))
		for _, e := range result.Errors {
			if e.Position != "" {
				fmt.Fprintf(w, "  %s: %s [%s]: %s\n", e.Position, e.Entity, e.Code, e.Message)
			} else {
				fmt.Fprintf(w, "  %s [%s]: %s\n", e.Entity, e.Code, e.Message)
			}
		}
		return NewExitError(ExitFailure, "validation failed")
	}
	fmt.Fprintf(w, "✓ All %d entit%s valid\n", result.Entities, plural(result.Entities, "y", "ies"))
	return nil
}

func strictErrors(r *Report) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == "error" {
			n++
		}
	}
	return n
}
