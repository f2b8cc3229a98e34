package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tixgen/internal/store"
)

// CheckResult compares current output against the last recorded run.
type CheckResult struct {
	UpToDate bool           `json:"up_to_date"`
	RunID    string         `json:"run_id"`
	Hash     string         `json:"hash"`
	Previous string         `json:"previous_hash"`
	Changes  []store.Change `json:"changes,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &GenerationFlags{}

	cmd := &cobra.Command{
		Use:   "check <models>",
		Short: "Report entities changed since the last recorded run",
		Long: `Regenerate in memory and compare every fragment against the latest run
recorded in the ledger. Nothing is written.

Exit codes:
  0 - Output matches the last run
  1 - One or more fragments changed
  2 - Command error (no ledger, no recorded runs, invalid paths)

Examples:
  tixgen check ./models --ledger .tixgen.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), rootOpts, flags, args[0], cmd)
		},
	}

	flags.register(cmd)
	return cmd
}

func runCheck(ctx context.Context, opts *RootOptions, flags *GenerationFlags, modelsPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fmtr := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	s, err := resolveSettings(cmd, opts, flags, modelsPath)
	if err != nil {
		return loadFailure(fmtr, err)
	}
	if s.ledger == "" {
		return loadFailure(fmtr, &LoadError{Code: ErrCodeGeneric, Message: "check needs a ledger (--ledger or ledger: in tixgen.yaml)"})
	}

	latest, err := latestRun(ctx, s.ledger)
	if err != nil {
		return loadFailure(fmtr, err)
	}

	art, _, err := generate(ctx, s, modelsPath, fmtr)
	if err != nil {
		return loadFailure(fmtr, err)
	}

	current := store.NewRun(art)
	changes := store.Diff(latest.Fragments, current.Fragments)
	result := CheckResult{
		UpToDate: len(changes) == 0,
		RunID:    latest.ID,
		Hash:     current.ArtifactHash,
		Previous: latest.ArtifactHash,
		Changes:  changes,
	}

	if fmtr.Format == "json" {
		if !result.UpToDate {
			_ = fmtr.Failure(ErrCodeGeneric, "output is stale", result)
			return NewExitError(ExitFailure, "output is stale")
		}
		return fmtr.Success(result)
	}

	w := fmtr.Writer
	if result.UpToDate {
		fmt.Fprintf(w, "✓ Up to date with run %s\n", result.RunID)
		return nil
	}
	fmt.Fprintf(w, "✗ %d change(s) since run %s:\n", len(changes), result.RunID)
	for _, c := range changes {
		fmt.Fprintf(w, "  %-7s %s (%s)\n", c.Kind, c.Entity, c.Target)
	}
	return NewExitError(ExitFailure, "output is stale")
}

func latestRun(ctx context.Context, ledger string) (store.Run, error) {
	st, err := store.Open(ledger)
	if err != nil {
		return store.Run{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("opening ledger: %v", err)}
	}
	defer st.Close()

	run, err := st.LatestRun(ctx)
	if errors.Is(err, store.ErrNoRuns) {
		return store.Run{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no runs recorded in %s", ledger)}
	}
	if err != nil {
		return store.Run{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading ledger: %v", err)}
	}
	return run, nil
}
