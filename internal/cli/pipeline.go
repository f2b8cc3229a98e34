package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tixgen/internal/compiler"
	"github.com/roach88/tixgen/internal/diagnostic"
	"github.com/roach88/tixgen/internal/features"
	"github.com/roach88/tixgen/internal/registry"
	"github.com/roach88/tixgen/internal/resolver"
)

// GenerationFlags are shared by every command that runs the generator.
type GenerationFlags struct {
	Features []string
	Strict   bool
	Entities []string
	Ledger   string
}

func (f *GenerationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.Features, "features", nil, "enabled capabilities (naming,zod,jsonschema,objectid,typescript or all)")
	cmd.Flags().BoolVar(&f.Strict, "strict", false, "treat warnings as errors")
	cmd.Flags().StringArrayVar(&f.Entities, "entity", nil, "only generate this entity (repeatable)")
	cmd.Flags().StringVar(&f.Ledger, "ledger", "", "path to the SQLite generation ledger")
}

// settings is the merged view of config file and flags.
type settings struct {
	gate     features.Gate
	strict   bool
	entities []string
	order    []string
	ledger   string
	cfg      *Config
}

func resolveSettings(cmd *cobra.Command, root *RootOptions, flags *GenerationFlags, modelsPath string) (*settings, error) {
	cfg, err := findConfig(root.Config, modelsPath)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("config: %v", err)}
	}

	s := &settings{
		gate:     features.All(),
		strict:   cfg.Strict,
		entities: flags.Entities,
		order:    cfg.Order,
		ledger:   cfg.Ledger,
		cfg:      cfg,
	}

	names := cfg.Features
	if cmd.Flags().Changed("features") {
		names = flags.Features
	}
	if len(names) > 0 {
		if s.gate, err = features.Parse(names); err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
		}
	}
	if cmd.Flags().Changed("strict") {
		s.strict = flags.Strict
	}
	if cmd.Flags().Changed("ledger") {
		s.ledger = flags.Ledger
	}
	return s, nil
}

// generate loads the models and runs the registry.
func generate(ctx context.Context, s *settings, modelsPath string, fmtr *OutputFormatter) (*registry.Artifact, *LoadResult, error) {
	loaded, err := LoadModels(modelsPath)
	if err != nil {
		return nil, nil, err
	}
	fmtr.VerboseLog("Found %d model file(s) in %s", loaded.FileCount, modelsPath)

	decls, err := selectEntities(loaded.Declarations, s.entities)
	if err != nil {
		return nil, loaded, err
	}
	decls = orderDeclarations(decls, s.order)

	reg := registry.New(s.gate, registry.WithDiagnostics(diagnostic.Options{Strict: s.strict}))
	for _, d := range decls {
		fmtr.VerboseLog("Adding %s", d.Name)
		reg.Add(d)
	}
	art, err := reg.Build(ctx)
	if err != nil {
		return nil, loaded, &LoadError{Code: ErrCodeBuildFailed, Message: err.Error()}
	}
	return art, loaded, nil
}

// selectEntities keeps only the named entities. Names may be given with or
// without the Json suffix.
func selectEntities(decls []compiler.Declaration, names []string) ([]compiler.Declaration, error) {
	if len(names) == 0 {
		return decls, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[resolver.StripSuffix(n)] = true
	}
	var out []compiler.Declaration
	for _, d := range decls {
		wire := resolver.StripSuffix(d.Name)
		if want[wire] {
			out = append(out, d)
			delete(want, wire)
		}
	}
	if len(want) > 0 {
		var missing []string
		for _, n := range names {
			if want[resolver.StripSuffix(n)] {
				missing = append(missing, n)
			}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("unknown entity %v", missing)}
	}
	return out, nil
}

// orderDeclarations moves the named entities to the front in the given
// order; the rest keep their source order.
func orderDeclarations(decls []compiler.Declaration, order []string) []compiler.Declaration {
	if len(order) == 0 {
		return decls
	}
	rank := make(map[string]int, len(order))
	for i, n := range order {
		rank[resolver.StripSuffix(n)] = i
	}
	first := make([]compiler.Declaration, len(order))
	present := make([]bool, len(order))
	var rest []compiler.Declaration
	for _, d := range decls {
		if i, ok := rank[resolver.StripSuffix(d.Name)]; ok && !present[i] {
			first[i] = d
			present[i] = true
			continue
		}
		rest = append(rest, d)
	}
	out := make([]compiler.Declaration, 0, len(decls))
	for i, d := range first {
		if present[i] {
			out = append(out, d)
		}
	}
	return append(out, rest...)
}

// loadFailure reports a LoadError (or any error) and maps it to exit code 2.
func loadFailure(fmtr *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		var details any
		if loc := loadErr.Pos.String(); loc != "" {
			details = map[string]string{"position": loc}
		}
		_ = fmtr.Error(loadErr.Code, loadErr.Message, details)
		return WrapExitError(ExitCommandError, loadErr.Code, loadErr)
	}
	_ = fmtr.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, ErrCodeGeneric, err)
}
