package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkOrder(t *testing.T) {
	t.Parallel()

	// f(a, b)
	call := Call(NewIdent("f"), NewIdent("a"), NewIdent("b"))
	prog := &Program{Body: []Stmt{&ExprStmt{Expr: call}}}

	var pre, post []string
	name := func(n Node) string {
		switch v := n.(type) {
		case *Program:
			return "program"
		case *ExprStmt:
			return "stmt"
		case *CallExpr:
			return "call"
		case *Ident:
			return v.Name
		}
		return "?"
	}
	Walk(prog,
		func(n Node) bool { pre = append(pre, name(n)); return true },
		func(n Node) { post = append(post, name(n)) },
	)

	assert.Equal(t, []string{"program", "stmt", "call", "f", "a", "b"}, pre)
	assert.Equal(t, []string{"f", "a", "b", "call", "stmt", "program"}, post)
}

func TestWalkSkipsSubtree(t *testing.T) {
	t.Parallel()

	call := Call(NewIdent("f"), NewIdent("a"))
	prog := &Program{Body: []Stmt{&ExprStmt{Expr: call}}}

	var seen []Node
	Inspect(prog, func(n Node) bool {
		seen = append(seen, n)
		_, isCall := n.(*CallExpr)
		return !isCall
	})

	require.Len(t, seen, 3)
	assert.Same(t, call, seen[2])
}

func TestWalkIgnoresRawPayloads(t *testing.T) {
	t.Parallel()

	prog := &Program{Body: []Stmt{
		&RawStmt{Type: "ForStatement", Raw: []byte(`{"type":"ForStatement"}`)},
		&ExprStmt{Expr: &RawExpr{Type: "TaggedTemplateExpression", Raw: []byte(`{}`)}},
	}}

	count := 0
	Inspect(prog, func(n Node) bool {
		count++
		return true
	})
	// program, raw stmt, expr stmt, raw expr
	assert.Equal(t, 4, count)
}

func TestRewriteExprsReplacesBySlot(t *testing.T) {
	t.Parallel()

	target := NewIdent("old")
	other := NewIdent("keep")
	replacement := NewString("new")
	prog := &Program{Body: []Stmt{
		&ExprStmt{Expr: Call(NewIdent("f"), target, other)},
		&ReturnStmt{Arg: target},
	}}

	RewriteExprs(prog, func(e Expr) Expr {
		if e == Expr(target) {
			return replacement
		}
		return e
	})

	call := prog.Body[0].(*ExprStmt).Expr.(*CallExpr)
	assert.Same(t, replacement, call.Args[0])
	assert.Same(t, other, call.Args[1], "sibling slots must not be disturbed")
	assert.Same(t, replacement, prog.Body[1].(*ReturnStmt).Arg)
}

func TestRewriteExprsVisitsChildrenFirst(t *testing.T) {
	t.Parallel()

	inner := NewIdent("inner")
	member := Member(inner, "prop")
	prog := &Program{Body: []Stmt{&ExprStmt{Expr: member}}}

	var order []Expr
	RewriteExprs(prog, func(e Expr) Expr {
		order = append(order, e)
		return e
	})

	require.NotEmpty(t, order)
	assert.Same(t, inner, order[0])
	assert.Same(t, member, order[len(order)-1])
}
