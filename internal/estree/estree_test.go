package estree

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecmalabs/espatch/internal/ast"
)

// rawJSONEqual compares Raw payloads by value rather than by byte, since
// re-encoding may change their whitespace.
var rawJSONEqual = cmp.Transformer("rawJSON", func(r json.RawMessage) any {
	var v any
	if err := json.Unmarshal(r, &v); err != nil {
		return string(r)
	}
	return v
})

// const x = import.meta.url;
const metaURLDoc = `{
  "type": "Program",
  "sourceType": "module",
  "body": [
    {
      "type": "VariableDeclaration",
      "kind": "const",
      "declarations": [
        {
          "type": "VariableDeclarator",
          "id": { "type": "Identifier", "name": "x" },
          "init": {
            "type": "MemberExpression",
            "computed": false,
            "object": {
              "type": "MetaProperty",
              "meta": { "type": "Identifier", "name": "import" },
              "property": { "type": "Identifier", "name": "meta" }
            },
            "property": { "type": "Identifier", "name": "url" }
          }
        }
      ]
    }
  ]
}`

func TestDecodeMetaURL(t *testing.T) {
	t.Parallel()

	prog, err := Decode([]byte(metaURLDoc))
	require.NoError(t, err)
	assert.Equal(t, "module", prog.SourceType)
	require.Len(t, prog.Body, 1)

	decl, ok := prog.Body[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "const", decl.Kind)
	require.Len(t, decl.Decls, 1)

	member, ok := decl.Decls[0].Init.(*ast.MemberExpr)
	require.True(t, ok)
	assert.False(t, member.Computed)

	meta, ok := member.Object.(*ast.MetaProperty)
	require.True(t, ok)
	assert.Equal(t, "import", meta.Meta.Name)
	assert.Equal(t, "meta", meta.Property.Name)
	assert.Equal(t, "url", member.Property.(*ast.Ident).Name)
}

func TestDecodeRejectsNonProgramRoot(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte(`{"type": "ExpressionStatement"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected Program root")
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "meta url document",
			doc:  metaURLDoc,
		},
		{
			name: "import declaration and call",
			doc: `{
  "type": "Program",
  "sourceType": "module",
  "body": [
    {
      "type": "ImportDeclaration",
      "specifiers": [
        { "type": "ImportDefaultSpecifier", "local": { "type": "Identifier", "name": "fs" } },
        { "type": "ImportSpecifier",
          "imported": { "type": "Identifier", "name": "join" },
          "local": { "type": "Identifier", "name": "j" } }
      ],
      "source": { "type": "Literal", "value": "fs" }
    },
    {
      "type": "ExpressionStatement",
      "expression": {
        "type": "CallExpression",
        "callee": { "type": "Identifier", "name": "j" },
        "arguments": [ { "type": "Literal", "value": 1 }, { "type": "Literal", "value": null } ]
      }
    }
  ]
}`,
		},
		{
			name: "unknown statement kinds pass through",
			doc: `{
  "type": "Program",
  "body": [
    {
      "type": "ForStatement",
      "init": null,
      "test": null,
      "update": null,
      "body": { "type": "EmptyStatement" }
    },
    {
      "type": "ExpressionStatement",
      "expression": {
        "type": "TaggedTemplateExpression",
        "tag": { "type": "Identifier", "name": "html" }
      }
    }
  ]
}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			first, err := Decode([]byte(tt.doc))
			require.NoError(t, err)

			encoded, err := Encode(first)
			require.NoError(t, err)

			second, err := Decode(encoded)
			require.NoError(t, err)

			if diff := cmp.Diff(first, second, rawJSONEqual); diff != "" {
				t.Errorf("round trip changed the tree (-first +second):\n%s", diff)
			}
		})
	}
}

// TestRoundTripPreservesDocument compares the re-encoded document against the
// input document by JSON value. Unlike TestRoundTrip it can catch information
// the first decode already lost, so it covers the node kinds that sit between
// fully modeled and fully unknown.
func TestRoundTripPreservesDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "logical expression keeps its type tag",
			doc: `{
  "type": "Program",
  "sourceType": "module",
  "body": [
    {
      "type": "ExpressionStatement",
      "expression": {
        "type": "LogicalExpression",
        "operator": "&&",
        "left": { "type": "Identifier", "name": "a" },
        "right": {
          "type": "LogicalExpression",
          "operator": "??",
          "left": { "type": "Identifier", "name": "b" },
          "right": { "type": "Identifier", "name": "c" }
        }
      }
    }
  ]
}`,
		},
		{
			name: "bigint literal keeps its payload",
			doc: `{
  "type": "Program",
  "sourceType": "module",
  "body": [
    {
      "type": "ExpressionStatement",
      "expression": {
        "type": "Literal",
        "value": null,
        "bigint": "9007199254740993",
        "raw": "9007199254740993n"
      }
    }
  ]
}`,
		},
		{
			name: "regex literal keeps its payload",
			doc: `{
  "type": "Program",
  "sourceType": "module",
  "body": [
    {
      "type": "ExpressionStatement",
      "expression": {
        "type": "Literal",
        "value": {},
        "regex": { "pattern": "ab+c", "flags": "gi" },
        "raw": "/ab+c/gi"
      }
    }
  ]
}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prog, err := Decode([]byte(tt.doc))
			require.NoError(t, err)

			encoded, err := Encode(prog)
			require.NoError(t, err)

			var want, got any
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &want))
			require.NoError(t, json.Unmarshal(encoded, &got))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip changed the document (-input +output):\n%s", diff)
			}
		})
	}
}

func TestDecodeLogicalExpression(t *testing.T) {
	t.Parallel()

	doc := `{
  "type": "Program",
  "body": [
    {
      "type": "ExpressionStatement",
      "expression": {
        "type": "LogicalExpression",
        "operator": "||",
        "left": { "type": "Identifier", "name": "a" },
        "right": { "type": "Identifier", "name": "b" }
      }
    }
  ]
}`
	prog, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	logical, ok := prog.Body[0].(*ast.ExprStmt).Expr.(*ast.LogicalExpr)
	require.True(t, ok)
	assert.Equal(t, "||", logical.Op)
}

func TestEncodeInsertedImport(t *testing.T) {
	t.Parallel()

	prog := &ast.Program{
		SourceType: "module",
		Body: []ast.Stmt{
			&ast.ImportDecl{
				Specifiers: []ast.ImportSpecifier{
					&ast.ImportDefaultSpecifier{Local: ast.NewIdent("url")},
				},
				Source: ast.NewString("url"),
			},
		},
	}

	encoded, err := Encode(prog)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"ImportDeclaration"`)
	assert.Contains(t, string(encoded), `"ImportDefaultSpecifier"`)

	again, err := Decode(encoded)
	require.NoError(t, err)
	if diff := cmp.Diff(prog, again, rawJSONEqual); diff != "" {
		t.Errorf("decode(encode) changed the tree:\n%s", diff)
	}
}
