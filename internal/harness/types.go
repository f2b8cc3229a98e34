package harness

import (
	"github.com/roach88/tixgen/internal/registry"
	"github.com/roach88/tixgen/internal/store"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every payload and assertion held.
	Pass bool

	// Errors contains one message per failed check.
	Errors []string

	// Artifact is the generated output.
	Artifact *registry.Artifact

	// Run is the artifact as recorded in the scenario's ledger.
	Run store.Run
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
