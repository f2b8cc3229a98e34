package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/tixgen/internal/registry"
	"github.com/roach88/tixgen/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	GenerationFlags
	Output string // composite artifact path; stdout when empty
	Schema string // JSON Schema bundle path
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <models>",
		Short: "Generate TypeScript, Zod and JSON Schema output",
		Long: `Generate the composite TypeScript module for every declaration in a
model file or directory (.cue and .yaml).

Entities that fail to resolve are reported and skipped; the others are
still written. The exit code is 1 when any entity failed, or when a
warning was raised under --strict.

Examples:
  tixgen generate ./models -o src/models.ts
  tixgen generate ./models --features typescript,zod --entity UserJson
  tixgen generate ./models -o src/models.ts --schema schema.json --ledger .tixgen.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args[0], cmd)
		},
	}

	opts.GenerationFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "write the JSON Schema bundle to this path")

	return cmd
}

func runGenerate(ctx context.Context, opts *GenerateOptions, modelsPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fmtr := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	s, err := resolveSettings(cmd, opts.RootOptions, &opts.GenerationFlags, modelsPath)
	if err != nil {
		return loadFailure(fmtr, err)
	}
	output, schema := s.cfg.Output, s.cfg.Schema
	if cmd.Flags().Changed("output") {
		output = opts.Output
	}
	if cmd.Flags().Changed("schema") {
		schema = opts.Schema
	}

	art, _, err := generate(ctx, s, modelsPath, fmtr)
	if err != nil {
		return loadFailure(fmtr, err)
	}

	report := newReport(art)
	report.Output = output

	if output != "" {
		if err := writeFile(output, []byte(art.Text)); err != nil {
			return loadFailure(fmtr, &LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing output file: %v", err)})
		}
	}
	if schema != "" {
		if art.Schema == nil {
			return loadFailure(fmtr, &LoadError{Code: ErrCodeGeneric, Message: "--schema needs the jsonschema capability"})
		}
		if err := writeFile(schema, art.Schema); err != nil {
			return loadFailure(fmtr, &LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing schema file: %v", err)})
		}
		report.Schema = schema
	}

	if s.ledger != "" {
		runID, err := recordRun(ctx, s.ledger, art)
		if err != nil {
			return loadFailure(fmtr, &LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("recording run: %v", err)})
		}
		report.RunID = runID
		fmtr.VerboseLog("Recorded run %s in %s", runID, s.ledger)
	}

	fmtr.Diagnostics(art.Diagnostics)
	return outputGenerate(fmtr, art, report)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func recordRun(ctx context.Context, ledger string, art *registry.Artifact) (string, error) {
	st, err := store.Open(ledger)
	if err != nil {
		return "", err
	}
	defer st.Close()
	run, err := st.RecordRun(ctx, store.NewRun(art))
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func outputGenerate(fmtr *OutputFormatter, art *registry.Artifact, report *Report) error {
	failed := art.Failed()
	if fmtr.Format == "json" {
		if failed {
			_ = fmtr.Failure(failureCode(report), "generation failed", report)
			return NewExitError(ExitFailure, "generation failed")
		}
		return fmtr.Success(report)
	}

	w := fmtr.Writer
	if report.Output == "" {
		fmt.Fprint(w, art.Text)
	} else {
		fmt.Fprintf(w, "✓ Generated %d entit%s to %s\n", len(report.Entities), plural(len(report.Entities), "y", "ies"), report.Output)
	}
	ew := fmtr.GetErrWriter()
	for _, e := range report.Errors {
		fmt.Fprintf(ew, "✗ %s [%s]: %s\n", e.Entity, e.Code, e.Message)
	}
	if failed {
		return NewExitError(ExitFailure, "generation failed")
	}
	return nil
}

func failureCode(r *Report) string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Code
	}
	for _, d := range r.Diagnostics {
		if d.Severity == "error" {
			return d.Code
		}
	}
	return ErrCodeGeneric
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
