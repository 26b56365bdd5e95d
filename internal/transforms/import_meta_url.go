package transforms

import (
	"fmt"

	"github.com/ecmalabs/espatch/internal/ast"
)

const importMetaURLName = "import-meta-url"

// candidateBinding is the first name tried for the import binding the ES6
// target introduces.
const candidateBinding = "url"

// ImportMetaURLOptions is the option record for the import-meta-url
// transform. Both fields are optional.
type ImportMetaURLOptions struct {
	// Module selects the target module system: "CommonJS" (default) or "ES6".
	Module string
	// Phase selects the traversal phase: "enter" (default) or "exit".
	Phase string
}

// ImportMetaURL rewrites every `import.meta.url` access in a program unit
// into an equivalent expression for a module system without native support:
//
//	CommonJS: require('url').pathToFileURL(__filename).toString()
//	ES6:      import <uid> from 'url';
//	          <uid>.pathToFileURL(__filename).toString()
//
// The match is deliberately conservative. Only the exact shape
// `import.meta` (the reserved meta-property) followed by a non-computed
// `.url` access is rewritten; aliased receivers, computed access, and every
// other `import.meta.*` property are left untouched so transforms that
// handle those forms still see them.
type ImportMetaURL struct {
	module ModuleSystem
	phase  Phase
}

// NewImportMetaURL validates opts and returns the configured transform.
// An unrecognized value for either field is a fatal setup error.
func NewImportMetaURL(opts ImportMetaURLOptions) (*ImportMetaURL, error) {
	t := &ImportMetaURL{module: ModuleCommonJS, phase: PhaseEnter}

	switch opts.Module {
	case "":
	case string(ModuleCommonJS), string(ModuleES6):
		t.module = ModuleSystem(opts.Module)
	default:
		return nil, fmt.Errorf("%s: invalid option module: %q (must be %q or %q)",
			importMetaURLName, opts.Module, ModuleCommonJS, ModuleES6)
	}

	switch opts.Phase {
	case "":
	case string(PhaseEnter), string(PhaseExit):
		t.phase = Phase(opts.Phase)
	default:
		return nil, fmt.Errorf("%s: invalid option phase: %q (must be %q or %q)",
			importMetaURLName, opts.Phase, PhaseEnter, PhaseExit)
	}

	return t, nil
}

func (t *ImportMetaURL) Name() string { return importMetaURLName }

func (t *ImportMetaURL) Phase() Phase { return t.phase }

func (t *ImportMetaURL) Module() ModuleSystem { return t.module }

// Apply runs the two-step pass over one program unit: collect every matching
// site (plus the binding names visible there), then synthesize one
// replacement and substitute it at each site. Matching completes before any
// substitution, so earlier swaps cannot affect later matches.
func (t *ImportMetaURL) Apply(prog *ast.Program, scope ast.ScopeInfo) Result {
	matches, bindings := t.collect(prog, scope)
	if len(matches) == 0 {
		return Result{}
	}

	var repl ast.Expr
	var inserted string
	switch t.module {
	case ModuleES6:
		name := chooseBinding(scope, bindings)
		prog.Body = append([]ast.Stmt{urlImportDecl(name)}, prog.Body...)
		repl = importedReplacement(name)
		inserted = name
	default:
		repl = requireReplacement()
	}

	matched := make(map[ast.Expr]bool, len(matches))
	for _, m := range matches {
		matched[m] = true
	}
	// The replacement is stateless and side-effect free, so the same node is
	// reused by reference at every site.
	ast.RewriteExprs(prog, func(e ast.Expr) ast.Expr {
		if matched[e] {
			return repl
		}
		return e
	})

	return Result{Sites: len(matches), InsertedBinding: inserted}
}

// collect walks the program once and returns every matching member access in
// traversal order, along with the union of binding names visible at the
// matched positions. Phase enter collects in pre-order, exit in post-order;
// the order only determines substitution sequence, never the match set.
func (t *ImportMetaURL) collect(prog *ast.Program, scope ast.ScopeInfo) ([]*ast.MemberExpr, map[string]bool) {
	var matches []*ast.MemberExpr
	bindings := make(map[string]bool)

	record := func(n ast.Node) {
		m, ok := matchMetaURL(n)
		if !ok {
			return
		}
		matches = append(matches, m)
		for name := range scope.BindingNames(m) {
			bindings[name] = true
		}
	}

	if t.phase == PhaseExit {
		ast.Walk(prog, nil, record)
	} else {
		ast.Inspect(prog, func(n ast.Node) bool {
			record(n)
			return true
		})
	}
	return matches, bindings
}

// matchMetaURL reports whether n is exactly `import.meta.url`: a non-computed
// member access whose property is the literal identifier `url` and whose
// receiver is the reserved import-meta node itself. Anything else, including
// malformed meta-property nodes, simply does not match.
func matchMetaURL(n ast.Node) (*ast.MemberExpr, bool) {
	m, ok := n.(*ast.MemberExpr)
	if !ok || m.Computed {
		return nil, false
	}
	prop, ok := m.Property.(*ast.Ident)
	if !ok || prop.Name != "url" {
		return nil, false
	}
	meta, ok := m.Object.(*ast.MetaProperty)
	if !ok || meta.Meta == nil || meta.Property == nil {
		return nil, false
	}
	if meta.Meta.Name != "import" || meta.Property.Name != "meta" {
		return nil, false
	}
	return m, true
}

// chooseBinding picks the local name for the inserted import declaration:
// the candidate `url` when free, otherwise a fresh uid from the scope
// capability.
func chooseBinding(scope ast.ScopeInfo, taken map[string]bool) string {
	if !taken[candidateBinding] {
		return candidateBinding
	}
	return scope.FreshName(candidateBinding, taken)
}

// urlImportDecl builds `import <name> from 'url';`.
func urlImportDecl(name string) *ast.ImportDecl {
	return &ast.ImportDecl{
		Specifiers: []ast.ImportSpecifier{
			&ast.ImportDefaultSpecifier{Local: ast.NewIdent(name)},
		},
		Source: ast.NewString("url"),
	}
}

// requireReplacement builds
// `require('url').pathToFileURL(__filename).toString()`.
func requireReplacement() ast.Expr {
	return pathToFileURLCall(ast.Call(ast.NewIdent("require"), ast.NewString("url")))
}

// importedReplacement builds `<name>.pathToFileURL(__filename).toString()`.
func importedReplacement(name string) ast.Expr {
	return pathToFileURLCall(ast.NewIdent(name))
}

func pathToFileURLCall(urlModule ast.Expr) ast.Expr {
	fileURL := ast.Call(ast.Member(urlModule, "pathToFileURL"), ast.NewIdent("__filename"))
	return ast.Call(ast.Member(fileURL, "toString"))
}
