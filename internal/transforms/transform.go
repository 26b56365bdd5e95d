// Package transforms holds the source-to-source rewrite rules the engine can
// apply to a program unit. Each transform validates its options once at
// construction and is immutable afterwards; applying a transform is an
// in-memory, all-or-nothing mutation of the tree with no I/O.
package transforms

import "github.com/ecmalabs/espatch/internal/ast"

// Phase selects when the engine fires a transform relative to its walk over
// a program unit, and the traversal order of the transform's own sub-walk.
type Phase string

const (
	PhaseEnter Phase = "enter"
	PhaseExit  Phase = "exit"
)

// ModuleSystem is the module system the rewritten output targets.
type ModuleSystem string

const (
	ModuleCommonJS ModuleSystem = "CommonJS"
	ModuleES6      ModuleSystem = "ES6"
)

// Result reports what a transform did to one program unit.
type Result struct {
	// Sites is the number of expression sites that were replaced.
	Sites int
	// InsertedBinding is the name of the import binding the transform added,
	// or empty when no declaration was introduced.
	InsertedBinding string
}

// Transform rewrites one program unit in place. Apply must be a no-op when
// the unit contains nothing that matches.
type Transform interface {
	Name() string
	Phase() Phase
	Apply(prog *ast.Program, scope ast.ScopeInfo) Result
}
