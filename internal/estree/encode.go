package estree

import (
	"encoding/json"
	"fmt"

	"github.com/ecmalabs/espatch/internal/ast"
)

// Encode serializes a Program back to an ESTree JSON document. Raw nodes are
// emitted exactly as they were decoded.
func Encode(prog *ast.Program) ([]byte, error) {
	doc := map[string]any{
		"type": "Program",
		"body": encodeStmts(prog.Body),
	}
	if prog.SourceType != "" {
		doc["sourceType"] = prog.SourceType
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding program: %w", err)
	}
	return out, nil
}

func encodeStmts(stmts []ast.Stmt) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, encodeStmt(s))
	}
	return out
}

func encodeStmt(s ast.Stmt) any {
	switch v := s.(type) {
	case *ast.VarDecl:
		decls := make([]any, 0, len(v.Decls))
		for _, d := range v.Decls {
			decl := map[string]any{
				"type": "VariableDeclarator",
				"id":   encodeExpr(d.ID),
			}
			if d.Init != nil {
				decl["init"] = encodeExpr(d.Init)
			} else {
				decl["init"] = nil
			}
			decls = append(decls, decl)
		}
		return map[string]any{
			"type":         "VariableDeclaration",
			"kind":         v.Kind,
			"declarations": decls,
		}

	case *ast.FuncDecl:
		node := map[string]any{
			"type":   "FunctionDeclaration",
			"params": encodeExprs(v.Params),
			"body":   encodeStmt(v.Body),
		}
		if v.ID != nil {
			node["id"] = encodeExpr(v.ID)
		} else {
			node["id"] = nil
		}
		return node

	case *ast.BlockStmt:
		return map[string]any{
			"type": "BlockStatement",
			"body": encodeStmts(v.Body),
		}

	case *ast.ExprStmt:
		return map[string]any{
			"type":       "ExpressionStatement",
			"expression": encodeExpr(v.Expr),
		}

	case *ast.ReturnStmt:
		node := map[string]any{"type": "ReturnStatement"}
		if v.Arg != nil {
			node["argument"] = encodeExpr(v.Arg)
		} else {
			node["argument"] = nil
		}
		return node

	case *ast.IfStmt:
		node := map[string]any{
			"type":       "IfStatement",
			"test":       encodeExpr(v.Test),
			"consequent": encodeStmt(v.Cons),
		}
		if v.Alt != nil {
			node["alternate"] = encodeStmt(v.Alt)
		} else {
			node["alternate"] = nil
		}
		return node

	case *ast.ImportDecl:
		specs := make([]any, 0, len(v.Specifiers))
		for _, spec := range v.Specifiers {
			specs = append(specs, encodeImportSpecifier(spec))
		}
		return map[string]any{
			"type":       "ImportDeclaration",
			"specifiers": specs,
			"source":     encodeExpr(v.Source),
		}

	case *ast.RawStmt:
		return v.Raw

	default:
		return nil
	}
}

func encodeExprs(exprs []ast.Expr) []any {
	out := make([]any, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, encodeExpr(e))
	}
	return out
}

func encodeExpr(e ast.Expr) any {
	switch v := e.(type) {
	case *ast.Ident:
		return map[string]any{"type": "Identifier", "name": v.Name}

	case *ast.StringLit:
		return map[string]any{"type": "Literal", "value": v.Value, "raw": quoteString(v.Value)}

	case *ast.NumberLit:
		return map[string]any{"type": "Literal", "value": v.Value}

	case *ast.BoolLit:
		return map[string]any{"type": "Literal", "value": v.Value}

	case *ast.NullLit:
		return map[string]any{"type": "Literal", "value": nil}

	case *ast.MetaProperty:
		return map[string]any{
			"type":     "MetaProperty",
			"meta":     encodeExpr(v.Meta),
			"property": encodeExpr(v.Property),
		}

	case *ast.MemberExpr:
		return map[string]any{
			"type":     "MemberExpression",
			"object":   encodeExpr(v.Object),
			"property": encodeExpr(v.Property),
			"computed": v.Computed,
		}

	case *ast.CallExpr:
		return map[string]any{
			"type":      "CallExpression",
			"callee":    encodeExpr(v.Callee),
			"arguments": encodeExprs(v.Args),
		}

	case *ast.AssignExpr:
		return map[string]any{
			"type":     "AssignmentExpression",
			"operator": v.Op,
			"left":     encodeExpr(v.Left),
			"right":    encodeExpr(v.Right),
		}

	case *ast.BinaryExpr:
		return map[string]any{
			"type":     "BinaryExpression",
			"operator": v.Op,
			"left":     encodeExpr(v.Left),
			"right":    encodeExpr(v.Right),
		}

	case *ast.LogicalExpr:
		return map[string]any{
			"type":     "LogicalExpression",
			"operator": v.Op,
			"left":     encodeExpr(v.Left),
			"right":    encodeExpr(v.Right),
		}

	case *ast.ArrowFunc:
		node := map[string]any{
			"type":   "ArrowFunctionExpression",
			"params": encodeExprs(v.Params),
		}
		if body, ok := v.Body.(ast.Expr); ok {
			node["body"] = encodeExpr(body)
			node["expression"] = true
		} else if body, ok := v.Body.(ast.Stmt); ok {
			node["body"] = encodeStmt(body)
			node["expression"] = false
		}
		return node

	case *ast.RawExpr:
		return v.Raw

	default:
		return nil
	}
}

func encodeImportSpecifier(spec ast.ImportSpecifier) any {
	switch v := spec.(type) {
	case *ast.ImportDefaultSpecifier:
		return map[string]any{
			"type":  "ImportDefaultSpecifier",
			"local": encodeExpr(v.Local),
		}
	case *ast.ImportNamespaceSpecifier:
		return map[string]any{
			"type":  "ImportNamespaceSpecifier",
			"local": encodeExpr(v.Local),
		}
	case *ast.ImportNamedSpecifier:
		imported := v.Imported
		if imported == nil {
			imported = v.Local
		}
		return map[string]any{
			"type":     "ImportSpecifier",
			"imported": encodeExpr(imported),
			"local":    encodeExpr(v.Local),
		}
	default:
		return nil
	}
}

func quoteString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
