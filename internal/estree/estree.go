// Package estree converts between ESTree-style JSON documents and the typed
// tree in internal/ast. The codec is deliberately tolerant: node kinds the
// tree model does not cover decode into Raw nodes whose payload is preserved
// byte for byte, so a document containing unmodeled syntax still survives a
// decode/transform/encode round trip unchanged outside the rewritten sites.
package estree

import (
	"encoding/json"
	"fmt"

	"github.com/ecmalabs/espatch/internal/ast"
)

// Decode parses an ESTree JSON document into a Program.
func Decode(data []byte) (*ast.Program, error) {
	var root struct {
		Type       string            `json:"type"`
		SourceType string            `json:"sourceType"`
		Body       []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	if root.Type != "Program" {
		return nil, fmt.Errorf("expected Program root, got %q", root.Type)
	}

	prog := &ast.Program{SourceType: root.SourceType}
	for _, raw := range root.Body {
		stmt, err := decodeStmt(raw)
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, stmt)
	}
	return prog, nil
}

func nodeType(raw json.RawMessage) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", fmt.Errorf("decoding node type: %w", err)
	}
	return head.Type, nil
}

func decodeStmt(raw json.RawMessage) (ast.Stmt, error) {
	typ, err := nodeType(raw)
	if err != nil {
		return nil, err
	}

	switch typ {
	case "VariableDeclaration":
		var v struct {
			Kind         string            `json:"kind"`
			Declarations []json.RawMessage `json:"declarations"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		decl := &ast.VarDecl{Kind: v.Kind}
		for _, d := range v.Declarations {
			var vd struct {
				ID   json.RawMessage `json:"id"`
				Init json.RawMessage `json:"init"`
			}
			if err := json.Unmarshal(d, &vd); err != nil {
				return nil, err
			}
			id, err := decodeExpr(vd.ID)
			if err != nil {
				return nil, err
			}
			init, err := decodeOptExpr(vd.Init)
			if err != nil {
				return nil, err
			}
			decl.Decls = append(decl.Decls, &ast.VarDeclarator{ID: id, Init: init})
		}
		return decl, nil

	case "FunctionDeclaration":
		var v struct {
			ID     json.RawMessage   `json:"id"`
			Params []json.RawMessage `json:"params"`
			Body   json.RawMessage   `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		fn := &ast.FuncDecl{}
		if len(v.ID) > 0 && string(v.ID) != "null" {
			id, err := decodeExpr(v.ID)
			if err != nil {
				return nil, err
			}
			fn.ID, _ = id.(*ast.Ident)
		}
		for _, p := range v.Params {
			param, err := decodeExpr(p)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, param)
		}
		body, err := decodeStmt(v.Body)
		if err != nil {
			return nil, err
		}
		fn.Body, _ = body.(*ast.BlockStmt)
		return fn, nil

	case "BlockStatement":
		var v struct {
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		block := &ast.BlockStmt{}
		for _, s := range v.Body {
			stmt, err := decodeStmt(s)
			if err != nil {
				return nil, err
			}
			block.Body = append(block.Body, stmt)
		}
		return block, nil

	case "ExpressionStatement":
		var v struct {
			Expression json.RawMessage `json:"expression"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		expr, err := decodeExpr(v.Expression)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr}, nil

	case "ReturnStatement":
		var v struct {
			Argument json.RawMessage `json:"argument"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		arg, err := decodeOptExpr(v.Argument)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Arg: arg}, nil

	case "IfStatement":
		var v struct {
			Test       json.RawMessage `json:"test"`
			Consequent json.RawMessage `json:"consequent"`
			Alternate  json.RawMessage `json:"alternate"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		test, err := decodeExpr(v.Test)
		if err != nil {
			return nil, err
		}
		cons, err := decodeStmt(v.Consequent)
		if err != nil {
			return nil, err
		}
		stmt := &ast.IfStmt{Test: test, Cons: cons}
		if len(v.Alternate) > 0 && string(v.Alternate) != "null" {
			alt, err := decodeStmt(v.Alternate)
			if err != nil {
				return nil, err
			}
			stmt.Alt = alt
		}
		return stmt, nil

	case "ImportDeclaration":
		var v struct {
			Specifiers []json.RawMessage `json:"specifiers"`
			Source     json.RawMessage   `json:"source"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		decl := &ast.ImportDecl{}
		for _, s := range v.Specifiers {
			spec, err := decodeImportSpecifier(s)
			if err != nil {
				return nil, err
			}
			decl.Specifiers = append(decl.Specifiers, spec)
		}
		src, err := decodeExpr(v.Source)
		if err != nil {
			return nil, err
		}
		if lit, ok := src.(*ast.StringLit); ok {
			decl.Source = lit
		}
		return decl, nil

	default:
		return &ast.RawStmt{Type: typ, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

func decodeOptExpr(raw json.RawMessage) (ast.Expr, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return decodeExpr(raw)
}

func decodeExpr(raw json.RawMessage) (ast.Expr, error) {
	typ, err := nodeType(raw)
	if err != nil {
		return nil, err
	}

	switch typ {
	case "Identifier":
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &ast.Ident{Name: v.Name}, nil

	case "Literal":
		var v struct {
			Value  any             `json:"value"`
			Regex  json.RawMessage `json:"regex"`
			BigInt json.RawMessage `json:"bigint"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		// Regex and bigint literals carry their payload outside "value"
		// (regex serializes value as {} or null), so they keep their
		// original form regardless of what "value" holds.
		if len(v.Regex) > 0 || len(v.BigInt) > 0 {
			return &ast.RawExpr{Type: typ, Raw: append(json.RawMessage(nil), raw...)}, nil
		}
		switch val := v.Value.(type) {
		case string:
			return &ast.StringLit{Value: val}, nil
		case float64:
			return &ast.NumberLit{Value: val}, nil
		case bool:
			return &ast.BoolLit{Value: val}, nil
		case nil:
			return &ast.NullLit{}, nil
		default:
			return &ast.RawExpr{Type: typ, Raw: append(json.RawMessage(nil), raw...)}, nil
		}

	case "MetaProperty":
		var v struct {
			Meta     json.RawMessage `json:"meta"`
			Property json.RawMessage `json:"property"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		meta, err := decodeExpr(v.Meta)
		if err != nil {
			return nil, err
		}
		prop, err := decodeExpr(v.Property)
		if err != nil {
			return nil, err
		}
		mp := &ast.MetaProperty{}
		mp.Meta, _ = meta.(*ast.Ident)
		mp.Property, _ = prop.(*ast.Ident)
		return mp, nil

	case "MemberExpression":
		var v struct {
			Object   json.RawMessage `json:"object"`
			Property json.RawMessage `json:"property"`
			Computed bool            `json:"computed"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		obj, err := decodeExpr(v.Object)
		if err != nil {
			return nil, err
		}
		prop, err := decodeExpr(v.Property)
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpr{Object: obj, Property: prop, Computed: v.Computed}, nil

	case "CallExpression":
		var v struct {
			Callee    json.RawMessage   `json:"callee"`
			Arguments []json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		callee, err := decodeExpr(v.Callee)
		if err != nil {
			return nil, err
		}
		call := &ast.CallExpr{Callee: callee}
		for _, a := range v.Arguments {
			arg, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		return call, nil

	case "AssignmentExpression", "BinaryExpression", "LogicalExpression":
		var v struct {
			Operator string          `json:"operator"`
			Left     json.RawMessage `json:"left"`
			Right    json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		left, err := decodeExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(v.Right)
		if err != nil {
			return nil, err
		}
		switch typ {
		case "AssignmentExpression":
			return &ast.AssignExpr{Op: v.Operator, Left: left, Right: right}, nil
		case "LogicalExpression":
			return &ast.LogicalExpr{Op: v.Operator, Left: left, Right: right}, nil
		}
		return &ast.BinaryExpr{Op: v.Operator, Left: left, Right: right}, nil

	case "ArrowFunctionExpression":
		var v struct {
			Params     []json.RawMessage `json:"params"`
			Body       json.RawMessage   `json:"body"`
			Expression bool              `json:"expression"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		arrow := &ast.ArrowFunc{}
		for _, p := range v.Params {
			param, err := decodeExpr(p)
			if err != nil {
				return nil, err
			}
			arrow.Params = append(arrow.Params, param)
		}
		if v.Expression {
			body, err := decodeExpr(v.Body)
			if err != nil {
				return nil, err
			}
			arrow.Body = body
		} else {
			body, err := decodeStmt(v.Body)
			if err != nil {
				return nil, err
			}
			arrow.Body = body
		}
		return arrow, nil

	default:
		return &ast.RawExpr{Type: typ, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

func decodeImportSpecifier(raw json.RawMessage) (ast.ImportSpecifier, error) {
	typ, err := nodeType(raw)
	if err != nil {
		return nil, err
	}

	var v struct {
		Local    json.RawMessage `json:"local"`
		Imported json.RawMessage `json:"imported"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	local, err := decodeExpr(v.Local)
	if err != nil {
		return nil, err
	}
	localID, ok := local.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("import specifier local is %T, expected identifier", local)
	}

	switch typ {
	case "ImportDefaultSpecifier":
		return &ast.ImportDefaultSpecifier{Local: localID}, nil
	case "ImportNamespaceSpecifier":
		return &ast.ImportNamespaceSpecifier{Local: localID}, nil
	case "ImportSpecifier":
		imported, err := decodeExpr(v.Imported)
		if err != nil {
			return nil, err
		}
		spec := &ast.ImportNamedSpecifier{Local: localID}
		spec.Imported, _ = imported.(*ast.Ident)
		return spec, nil
	default:
		return nil, fmt.Errorf("unknown import specifier type %q", typ)
	}
}
