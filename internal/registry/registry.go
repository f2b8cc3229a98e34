// Package registry drives a generation run: it resolves an ordered list of
// declarations, emits every enabled target per entity, and assembles the
// composite artifact.
//
// Entities appear in the artifact in the order they were added. An entity
// that is never added is simply absent; the registry has no other view of
// what exists.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/roach88/tixgen/internal/compiler"
	"github.com/roach88/tixgen/internal/diagnostic"
	"github.com/roach88/tixgen/internal/emit/jsonschema"
	"github.com/roach88/tixgen/internal/emit/typescript"
	"github.com/roach88/tixgen/internal/emit/zod"
	"github.com/roach88/tixgen/internal/features"
	"github.com/roach88/tixgen/internal/ir"
	"github.com/roach88/tixgen/internal/resolver"
)

// Target names one emitter.
type Target string

const (
	TargetTypeScript Target = "typescript"
	TargetZod        Target = "zod"
	TargetJSONSchema Target = "jsonschema"
)

// Targets returns the emitters the gate enables, in fragment order.
func Targets(g features.Gate) []Target {
	var out []Target
	if g.Structural {
		out = append(out, TargetTypeScript)
	}
	if g.Validation {
		out = append(out, TargetZod)
	}
	if g.JSONSchema {
		out = append(out, TargetJSONSchema)
	}
	return out
}

// Option configures a Registry.
type Option func(*Registry)

// WithDiagnostics sets strict/quiet handling of non-fatal findings.
func WithDiagnostics(opts diagnostic.Options) Option {
	return func(r *Registry) { r.diagOpts = opts }
}

// WithConcurrency bounds how many entities are processed at once. Values
// below 1 mean one per CPU.
func WithConcurrency(n int) Option {
	return func(r *Registry) { r.workers = n }
}

// Registry collects entities for one run. It is not safe for concurrent
// Add calls; Build may run its work in parallel.
type Registry struct {
	gate     features.Gate
	diagOpts diagnostic.Options
	workers  int
	items    []item
}

type item struct {
	decl   *compiler.Declaration
	entity *ir.EntityNode
}

func (it item) name() string {
	switch {
	case it.entity != nil:
		return it.entity.WireName
	case it.decl == nil:
		return ""
	}
	return resolver.StripSuffix(it.decl.Name)
}

// New creates an empty registry for gate.
func New(gate features.Gate, opts ...Option) *Registry {
	r := &Registry{gate: gate}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.NumCPU()
	}
	return r
}

// Add appends a declaration; it is classified during Build.
func (r *Registry) Add(d compiler.Declaration) {
	r.items = append(r.items, item{decl: &d})
}

// AddEntity appends an already resolved entity. It is checked with
// compiler.Validate during Build.
func (r *Registry) AddEntity(e *ir.EntityNode) {
	r.items = append(r.items, item{entity: e})
}

// Len returns the number of added entities.
func (r *Registry) Len() int {
	return len(r.items)
}

// EntityError is a fatal failure confined to one entity.
type EntityError struct {
	Entity string
	Err    error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Entity, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// Fragment is one emitter's output for one entity.
type Fragment struct {
	Entity     string
	Target     Target
	Text       string
	Hash       string
	EntityHash string
}

// Artifact is the result of a run.
type Artifact struct {
	// Text is the preamble followed by each entity's structural type and
	// validation schema, in registry order.
	Text string
	// Schema bundles every entity's JSON Schema under $defs. Nil when the
	// jsonschema capability is off.
	Schema []byte
	// Fragments lists per-entity output in registry order.
	Fragments []Fragment
	// Entities holds the entities that resolved, in registry order.
	Entities []*ir.EntityNode
	// Errors holds one *EntityError per entity that failed.
	Errors      []error
	Diagnostics []diagnostic.Diagnostic
	Gate        features.Gate
	Hash        string
}

// Failed reports whether any entity failed or any diagnostic is an error.
func (a *Artifact) Failed() bool {
	if len(a.Errors) > 0 {
		return true
	}
	for _, d := range a.Diagnostics {
		if d.Severity == diagnostic.SeverityError {
			return true
		}
	}
	return false
}

// Preamble returns the fixed text every artifact for g starts with, without
// a trailing newline. Empty when no capability needs one.
func Preamble(g features.Gate) string {
	var lines []string
	if g.Validation {
		lines = append(lines, zod.Import)
	}
	if g.Structural && g.Identifier {
		lines = append(lines, typescript.IdentifierAlias)
	}
	return strings.Join(lines, "\n")
}

type result struct {
	entity    *ir.EntityNode
	fragments []Fragment
	err       error
}

// Build resolves and emits every added entity. Per-entity failures are
// collected in Artifact.Errors; the returned error is reserved for
// cancellation and failures that affect the whole run.
func (r *Registry) Build(ctx context.Context) (*Artifact, error) {
	diag := diagnostic.NewCollector(r.diagOpts)

	results := make([]result, len(r.items))
	if err := r.each(ctx, func(i int) { results[i].entity, results[i].err = r.resolve(r.items[i], diag) }); err != nil {
		return nil, err
	}

	r.checkNames(results)
	r.checkReferences(results, diag)

	if err := r.each(ctx, func(i int) {
		if results[i].err == nil {
			results[i].fragments, results[i].err = r.emit(results[i].entity)
		}
	}); err != nil {
		return nil, err
	}

	art := &Artifact{Gate: r.gate}
	var body []string
	for i, res := range results {
		if res.err != nil {
			art.Errors = append(art.Errors, &EntityError{Entity: r.items[i].name(), Err: res.err})
			continue
		}
		art.Entities = append(art.Entities, res.entity)
		art.Fragments = append(art.Fragments, res.fragments...)
		for _, f := range res.fragments {
			if f.Target != TargetJSONSchema {
				body = append(body, strings.TrimRight(f.Text, "\n"))
			}
		}
	}

	var head []string
	if p := Preamble(r.gate); p != "" {
		head = append(head, p)
	}
	if r.gate.Structural {
		head = append(head, opaqueAliases(art.Entities)...)
	}
	var blocks []string
	if len(head) > 0 {
		blocks = append(blocks, strings.Join(head, "\n"))
	}
	blocks = append(blocks, body...)
	if len(blocks) > 0 {
		art.Text = strings.Join(blocks, "\n\n") + "\n"
	}
	art.Hash = ir.ArtifactHash(art.Text)

	if r.gate.JSONSchema {
		schema, err := jsonschema.Bundle(art.Entities).Indent()
		if err != nil {
			return nil, fmt.Errorf("bundle json schema: %w", err)
		}
		art.Schema = append(schema, '\n')
	}

	art.Diagnostics = diag.Sorted()
	slog.Debug("registry build finished",
		"entities", len(art.Entities),
		"errors", len(art.Errors),
		"fragments", len(art.Fragments),
		"diagnostics", len(art.Diagnostics))
	return art, nil
}

// each runs fn for every item index with bounded parallelism, stopping
// early on cancellation.
func (r *Registry) each(ctx context.Context, fn func(i int)) error {
	var wg sync.WaitGroup
	sem := make(chan struct{}, r.workers)
	for i := range r.items {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(idx)
		}(i)
	}
	wg.Wait()
	return ctx.Err()
}

func (r *Registry) resolve(it item, diag *diagnostic.Collector) (*ir.EntityNode, error) {
	if it.decl == nil {
		errs := compiler.Validate(it.entity)
		if len(errs) > 0 {
			msgs := make([]string, len(errs))
			for i, e := range errs {
				msgs[i] = e.Error()
			}
			return nil, &compiler.CompileError{
				Entity:  it.name(),
				Message: "invalid entity: " + strings.Join(msgs, "; "),
				Err:     invariantError(errs[0].Code),
			}
		}
		return it.entity, nil
	}
	return compiler.Classify(*it.decl, r.gate, diag)
}

// invariantError carries a ValidationError code through errors.As.
type invariantError string

func (e invariantError) Error() string { return "IR invariant violated" }

// Code returns the first violated invariant's code.
func (e invariantError) Code() string { return string(e) }

// checkNames fails every entity whose wire name repeats an earlier one.
func (r *Registry) checkNames(results []result) {
	seen := make(map[string]string, len(results))
	for i := range results {
		if results[i].err != nil {
			continue
		}
		e := results[i].entity
		if first, dup := seen[e.WireName]; dup {
			results[i].err = &compiler.CompileError{
				Entity:  e.WireName,
				Message: fmt.Sprintf("%s and %s both resolve to entity %q", first, e.DeclaredName, e.WireName),
				Err:     duplicateEntityError{},
			}
			continue
		}
		seen[e.WireName] = e.DeclaredName
	}
}

type duplicateEntityError struct{}

func (duplicateEntityError) Error() string { return "duplicate entity wire name" }

// Code returns the duplicate wire name code.
func (duplicateEntityError) Code() string { return compiler.ErrDuplicateWireName }

// opaqueAliases declares every opaque reference target as unknown so the
// structural output stays self-contained.
func opaqueAliases(entities []*ir.EntityNode) []string {
	seen := map[string]bool{}
	var names []string
	for _, e := range entities {
		for _, ref := range ir.References(e) {
			if ref.Opaque && !seen[ref.Target] {
				seen[ref.Target] = true
				names = append(names, ref.Target)
			}
		}
	}
	sort.Strings(names)
	aliases := make([]string, len(names))
	for i, n := range names {
		aliases[i] = typescript.OpaqueAlias(n)
	}
	return aliases
}

// checkReferences warns about references to names nobody added.
func (r *Registry) checkReferences(results []result, diag *diagnostic.Collector) {
	known := make(map[string]bool, len(r.items))
	for _, it := range r.items {
		known[it.name()] = true
	}
	for _, res := range results {
		if res.err != nil {
			continue
		}
		for _, ref := range ir.References(res.entity) {
			if ref.Opaque || known[ref.Target] {
				continue
			}
			field := ref.Field
			if ref.Variant != "" {
				field = ref.Variant + "." + ref.Field
			}
			diag.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Code:     diagnostic.CodeUndefinedReference,
				Entity:   ref.Entity,
				Field:    field,
				Message:  fmt.Sprintf("reference to %q, which is not in this run", ref.Target),
				Hint:     "add the referenced declaration, or check its spelling",
			})
		}
	}
}

func (r *Registry) emit(e *ir.EntityNode) ([]Fragment, error) {
	entityHash, err := ir.EntityHash(e)
	if err != nil {
		return nil, fmt.Errorf("hash entity: %w", err)
	}

	var schema []byte
	if r.gate.JSONSchema {
		schema, err = jsonschema.Emit(e)
		if err != nil {
			return nil, fmt.Errorf("emit json schema: %w", err)
		}
	}

	var out []Fragment
	add := func(t Target, text string) {
		out = append(out, Fragment{
			Entity:     e.WireName,
			Target:     t,
			Text:       text,
			Hash:       ir.FragmentHash(string(t), text),
			EntityHash: entityHash,
		})
	}
	for _, t := range Targets(r.gate) {
		switch t {
		case TargetTypeScript:
			add(t, typescript.Emit(e, typescript.Options{JSONSchema: schema}))
		case TargetZod:
			add(t, zod.Emit(e, zod.Options{Typed: r.gate.Structural}))
		case TargetJSONSchema:
			add(t, string(schema)+"\n")
		}
	}
	slog.Debug("entity emitted", "entity", e.WireName, "fragments", len(out))
	return out, nil
}
