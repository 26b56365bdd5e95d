package ast

// Walk traverses the tree rooted at n depth-first. pre fires before a node's
// children are visited; returning false skips the subtree. post fires after
// the children. Either callback may be nil. Raw nodes are leaves: their
// serialized payload is opaque and is not descended into.
func Walk(n Node, pre func(Node) bool, post func(Node)) {
	if n == nil || isNilNode(n) {
		return
	}
	if pre != nil && !pre(n) {
		return
	}
	for _, child := range children(n) {
		Walk(child, pre, post)
	}
	if post != nil {
		post(n)
	}
}

// Inspect traverses the tree in depth-first pre-order, go/ast style.
func Inspect(n Node, pre func(Node) bool) {
	Walk(n, pre, nil)
}

// children returns the direct child nodes of n in source order.
func children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil && !isNilNode(c) {
			out = append(out, c)
		}
	}

	switch v := n.(type) {
	case *Program:
		for _, s := range v.Body {
			add(s)
		}
	case *MetaProperty:
		add(v.Meta)
		add(v.Property)
	case *MemberExpr:
		add(v.Object)
		add(v.Property)
	case *CallExpr:
		add(v.Callee)
		for _, a := range v.Args {
			add(a)
		}
	case *AssignExpr:
		add(v.Left)
		add(v.Right)
	case *BinaryExpr:
		add(v.Left)
		add(v.Right)
	case *LogicalExpr:
		add(v.Left)
		add(v.Right)
	case *ArrowFunc:
		for _, p := range v.Params {
			add(p)
		}
		add(v.Body)
	case *VarDecl:
		for _, d := range v.Decls {
			add(d)
		}
	case *VarDeclarator:
		add(v.ID)
		add(v.Init)
	case *FuncDecl:
		add(v.ID)
		for _, p := range v.Params {
			add(p)
		}
		add(v.Body)
	case *BlockStmt:
		for _, s := range v.Body {
			add(s)
		}
	case *ExprStmt:
		add(v.Expr)
	case *ReturnStmt:
		add(v.Arg)
	case *IfStmt:
		add(v.Test)
		add(v.Cons)
		add(v.Alt)
	case *ImportDecl:
		for _, s := range v.Specifiers {
			add(s)
		}
		add(v.Source)
	case *ImportDefaultSpecifier:
		add(v.Local)
	case *ImportNamedSpecifier:
		add(v.Imported)
		add(v.Local)
	case *ImportNamespaceSpecifier:
		add(v.Local)
	}
	return out
}

// RewriteExprs walks the tree and replaces every expression slot with
// fn(expr). Children are rewritten before their parent is offered to fn.
// Returning the argument unchanged leaves the slot alone; the mutation is in
// place and sibling nodes are never disturbed.
func RewriteExprs(n Node, fn func(Expr) Expr) {
	rewriteNode(n, fn)
}

func rewriteExpr(e Expr, fn func(Expr) Expr) Expr {
	if e == nil || isNilNode(e) {
		return e
	}
	rewriteNode(e, fn)
	return fn(e)
}

func rewriteNode(n Node, fn func(Expr) Expr) {
	if n == nil || isNilNode(n) {
		return
	}
	switch v := n.(type) {
	case *Program:
		for _, s := range v.Body {
			rewriteNode(s, fn)
		}
	case *MemberExpr:
		v.Object = rewriteExpr(v.Object, fn)
		v.Property = rewriteExpr(v.Property, fn)
	case *CallExpr:
		v.Callee = rewriteExpr(v.Callee, fn)
		for i, a := range v.Args {
			v.Args[i] = rewriteExpr(a, fn)
		}
	case *AssignExpr:
		v.Left = rewriteExpr(v.Left, fn)
		v.Right = rewriteExpr(v.Right, fn)
	case *BinaryExpr:
		v.Left = rewriteExpr(v.Left, fn)
		v.Right = rewriteExpr(v.Right, fn)
	case *LogicalExpr:
		v.Left = rewriteExpr(v.Left, fn)
		v.Right = rewriteExpr(v.Right, fn)
	case *ArrowFunc:
		for i, p := range v.Params {
			v.Params[i] = rewriteExpr(p, fn)
		}
		if body, ok := v.Body.(Expr); ok {
			v.Body = rewriteExpr(body, fn)
		} else {
			rewriteNode(v.Body, fn)
		}
	case *VarDecl:
		for _, d := range v.Decls {
			d.Init = rewriteExpr(d.Init, fn)
		}
	case *FuncDecl:
		rewriteNode(v.Body, fn)
	case *BlockStmt:
		for _, s := range v.Body {
			rewriteNode(s, fn)
		}
	case *ExprStmt:
		v.Expr = rewriteExpr(v.Expr, fn)
	case *ReturnStmt:
		v.Arg = rewriteExpr(v.Arg, fn)
	case *IfStmt:
		v.Test = rewriteExpr(v.Test, fn)
		rewriteNode(v.Cons, fn)
		rewriteNode(v.Alt, fn)
	}
}

// isNilNode reports whether n is nil, including a typed nil from one of the
// concrete pointer fields (*Ident, *StringLit, *BlockStmt) hiding inside the
// Node interface.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Ident:
		return v == nil
	case *StringLit:
		return v == nil
	case *BlockStmt:
		return v == nil
	}
	return false
}
