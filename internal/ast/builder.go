package ast

// Constructor helpers for building expression fragments directly as typed
// nodes. Transforms use these instead of a text templating step.

func NewIdent(name string) *Ident { return &Ident{Name: name} }

func NewString(value string) *StringLit { return &StringLit{Value: value} }

// Member builds the non-computed access object.name.
func Member(object Expr, name string) *MemberExpr {
	return &MemberExpr{Object: object, Property: NewIdent(name)}
}

// Call builds callee(args...).
func Call(callee Expr, args ...Expr) *CallExpr {
	return &CallExpr{Callee: callee, Args: args}
}

// ImportMeta builds the reserved `import.meta` meta-property node.
func ImportMeta() *MetaProperty {
	return &MetaProperty{Meta: NewIdent("import"), Property: NewIdent("meta")}
}
