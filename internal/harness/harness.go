package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/tixgen/internal/compiler"
	"github.com/roach88/tixgen/internal/diagnostic"
	"github.com/roach88/tixgen/internal/features"
	"github.com/roach88/tixgen/internal/registry"
	"github.com/roach88/tixgen/internal/store"
	"github.com/roach88/tixgen/internal/testutil"
)

// Run executes a scenario and returns the result. The returned error is
// reserved for scenarios that cannot run at all: unreadable sources, an
// unknown feature, or a ledger failure. Failed checks are reported in
// Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	gate := features.All()
	if len(scenario.Features) > 0 {
		var err error
		if gate, err = features.Parse(scenario.Features); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	decls, err := declarations(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	reg := registry.New(gate, registry.WithDiagnostics(diagnostic.Options{Strict: scenario.Strict}))
	for _, d := range decls {
		reg.Add(d)
	}
	art, err := reg.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	st, err := store.Open(":memory:",
		store.WithClock(testutil.NewDeterministicClock()),
		store.WithIDGenerator(testutil.NewSequentialIDs(scenario.Name)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	run, err := st.RecordRun(ctx, store.NewRun(art))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.Artifact = art
	result.Run = run

	if len(scenario.Payloads) > 0 {
		if art.Schema == nil {
			result.AddError("payloads need the jsonschema capability")
		} else {
			for _, msg := range CheckPayloads(art.Schema, scenario.Payloads) {
				result.AddError(msg)
			}
		}
	}
	for _, msg := range EvaluateAssertions(art, scenario.Assertions) {
		result.AddError(msg)
	}

	slog.Debug("scenario finished", "name", scenario.Name, "pass", result.Pass, "errors", len(result.Errors))
	return result, nil
}

// declarations collects inline models followed by each source in order.
func declarations(s *Scenario) ([]compiler.Declaration, error) {
	var decls []compiler.Declaration
	if s.hasInlineModels() {
		inline, err := compiler.ParseYAML(s.data, s.path)
		if err != nil {
			return nil, err
		}
		decls = append(decls, inline...)
	}
	for _, src := range s.Sources {
		more, err := compiler.Load(src)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", src, err)
		}
		decls = append(decls, more...)
	}
	return decls, nil
}
