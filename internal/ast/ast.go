// Package ast models the subset of an ECMAScript syntax tree that the
// transform engine operates on. Nodes are a tagged variant: each node kind is
// a pointer struct, and the Expr/Stmt marker interfaces encode the variant in
// Go's type system. Node kinds the engine does not model are carried through
// untouched as Raw nodes so a partially understood tree still round-trips.
package ast

import "encoding/json"

// Node is implemented by every syntax tree node, including *Program.
type Node any

// Expr is the expression variant. The marker method is never called.
type Expr interface{ isExpr() }

// Stmt is the statement variant. The marker method is never called.
type Stmt interface{ isStmt() }

func (*Ident) isExpr()        {}
func (*StringLit) isExpr()    {}
func (*NumberLit) isExpr()    {}
func (*BoolLit) isExpr()      {}
func (*NullLit) isExpr()      {}
func (*MetaProperty) isExpr() {}
func (*MemberExpr) isExpr()   {}
func (*CallExpr) isExpr()     {}
func (*AssignExpr) isExpr()   {}
func (*BinaryExpr) isExpr()   {}
func (*LogicalExpr) isExpr()  {}
func (*ArrowFunc) isExpr()    {}
func (*RawExpr) isExpr()      {}

func (*VarDecl) isStmt()    {}
func (*FuncDecl) isStmt()   {}
func (*BlockStmt) isStmt()  {}
func (*ExprStmt) isStmt()   {}
func (*ReturnStmt) isStmt() {}
func (*IfStmt) isStmt()     {}
func (*ImportDecl) isStmt() {}
func (*RawStmt) isStmt()    {}

// Program is the root node for one program unit (one source file).
type Program struct {
	Body       []Stmt
	SourceType string // "module" or "script"
}

// Ident is a plain identifier reference or binding name.
type Ident struct {
	Name string
}

type StringLit struct {
	Value string
}

type NumberLit struct {
	Value float64
}

type BoolLit struct {
	Value bool
}

type NullLit struct{}

// MetaProperty is the reserved meta-property form, e.g. `import.meta` or
// `new.target`. It is distinct from a MemberExpr: the "receiver" is a keyword,
// not an expression.
type MetaProperty struct {
	Meta     *Ident
	Property *Ident
}

// MemberExpr reads a property off an expression's value. Property is an
// *Ident for `a.b` and an arbitrary expression for computed access `a[b]`.
type MemberExpr struct {
	Object   Expr
	Property Expr
	Computed bool
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
}

type AssignExpr struct {
	Op    string // "=", "+=", ...
	Left  Expr
	Right Expr
}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

// LogicalExpr is a short-circuiting operator: "&&", "||", or "??". ESTree
// keeps it distinct from BinaryExpr, and the distinction must survive a
// round trip.
type LogicalExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

// ArrowFunc has either a BlockStmt body or a bare expression body.
type ArrowFunc struct {
	Params []Expr // *Ident or a Raw pattern
	Body   Node
}

// RawExpr preserves an expression kind the tree model does not cover. The
// original serialized form is kept verbatim so encoding emits it unchanged.
type RawExpr struct {
	Type string
	Raw  json.RawMessage
}

// VarDecl is a `var`, `let`, or `const` declaration statement.
type VarDecl struct {
	Kind  string
	Decls []*VarDeclarator
}

// VarDeclarator binds one name (or pattern) to an optional initializer.
type VarDeclarator struct {
	ID   Expr // *Ident, or a Raw pattern for destructuring forms
	Init Expr // nil when absent
}

type FuncDecl struct {
	ID     *Ident
	Params []Expr
	Body   *BlockStmt
}

type BlockStmt struct {
	Body []Stmt
}

type ExprStmt struct {
	Expr Expr
}

type ReturnStmt struct {
	Arg Expr // nil when absent
}

type IfStmt struct {
	Test Expr
	Cons Stmt
	Alt  Stmt // nil when absent
}

// ImportDecl is a static import declaration: `import ... from "source";`.
type ImportDecl struct {
	Specifiers []ImportSpecifier
	Source     *StringLit
}

// ImportSpecifier is one bound name in an import declaration.
type ImportSpecifier interface {
	// LocalName reports the binding the specifier introduces into scope.
	LocalName() string
	isImportSpecifier()
}

func (*ImportDefaultSpecifier) isImportSpecifier()   {}
func (*ImportNamedSpecifier) isImportSpecifier()     {}
func (*ImportNamespaceSpecifier) isImportSpecifier() {}

// ImportDefaultSpecifier binds a module's default export: `import x from "m"`.
type ImportDefaultSpecifier struct {
	Local *Ident
}

func (s *ImportDefaultSpecifier) LocalName() string { return s.Local.Name }

// ImportNamedSpecifier binds a named export: `import { a as b } from "m"`.
type ImportNamedSpecifier struct {
	Imported *Ident
	Local    *Ident
}

func (s *ImportNamedSpecifier) LocalName() string { return s.Local.Name }

// ImportNamespaceSpecifier binds the module namespace: `import * as m from "m"`.
type ImportNamespaceSpecifier struct {
	Local *Ident
}

func (s *ImportNamespaceSpecifier) LocalName() string { return s.Local.Name }

// RawStmt preserves a statement kind the tree model does not cover.
type RawStmt struct {
	Type string
	Raw  json.RawMessage
}
