package ast

import "strconv"

// ScopeInfo reports lexical binding information for positions in one program
// unit. It is an injected capability: transforms consume it to avoid shadowing
// when introducing new bindings, and hosts with a richer scope analysis can
// substitute their own implementation.
type ScopeInfo interface {
	// BindingNames returns the set of binding names visible at the given
	// node's position. Implementations may over-approximate; a superset is
	// always safe for collision avoidance.
	BindingNames(at Node) map[string]bool

	// FreshName returns a name derived from base that does not occur in
	// taken. The result is not remembered; callers add it to taken
	// themselves when they consume it.
	FreshName(base string, taken map[string]bool) string
}

// ProgramScope is the default ScopeInfo over a single program unit. It
// collects every binding introduced anywhere in the unit (declarations,
// function names and parameters, import specifiers) and reports that set for
// any position, a deliberate over-approximation that stays sound without a
// full lexical resolver.
type ProgramScope struct {
	prog     *Program
	bindings map[string]bool
}

func NewProgramScope(prog *Program) *ProgramScope {
	return &ProgramScope{prog: prog}
}

func (s *ProgramScope) BindingNames(at Node) map[string]bool {
	if s.bindings == nil {
		s.bindings = collectBindings(s.prog)
	}
	out := make(map[string]bool, len(s.bindings))
	for name := range s.bindings {
		out[name] = true
	}
	return out
}

// FreshName follows the conventional uid scheme: _base, _base2, _base3, ...
func (s *ProgramScope) FreshName(base string, taken map[string]bool) string {
	name := "_" + base
	for i := 2; taken[name]; i++ {
		name = "_" + base + strconv.Itoa(i)
	}
	return name
}

func collectBindings(prog *Program) map[string]bool {
	bindings := make(map[string]bool)
	addIdent := func(e Expr) {
		if id, ok := e.(*Ident); ok && id != nil {
			bindings[id.Name] = true
		}
	}

	Inspect(prog, func(n Node) bool {
		switch v := n.(type) {
		case *VarDeclarator:
			addIdent(v.ID)
		case *FuncDecl:
			if v.ID != nil {
				bindings[v.ID.Name] = true
			}
			for _, p := range v.Params {
				addIdent(p)
			}
		case *ArrowFunc:
			for _, p := range v.Params {
				addIdent(p)
			}
		case *ImportDecl:
			for _, spec := range v.Specifiers {
				bindings[spec.LocalName()] = true
			}
		}
		return true
	})
	return bindings
}
