package espatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	tt "github.com/ecmalabs/espatch/internal/types"
)

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

// const y = 1;
const plainDoc = `{
  "type": "Program",
  "body": [
    {
      "type": "VariableDeclaration",
      "kind": "const",
      "declarations": [
        {
          "type": "VariableDeclarator",
          "id": { "type": "Identifier", "name": "y" },
          "init": { "type": "Literal", "value": 1 }
        }
      ]
    }
  ]
}`

func writeTempDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessFilesSingleFile(t *testing.T) {
	path := writeTempDoc(t, t.TempDir(), "mod.json", metaURLDoc)

	engine, err := New("", nil)
	require.NoError(t, err)

	logger, _ := zap.NewProduction()
	changes, err := ProcessFiles(context.Background(), logger, engine, []string{path}, ProcessFile)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, "import-meta-url", changes[0].Transform)
	assert.Equal(t, path, changes[0].Filename)
	assert.Equal(t, 1, changes[0].Sites)
}

func TestProcessFilesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTempDoc(t, dir, "a.json", metaURLDoc)
	writeTempDoc(t, dir, "b.json", plainDoc)
	writeTempDoc(t, dir, "notes.txt", "not an AST document")

	engine, err := New("", nil)
	require.NoError(t, err)

	logger, _ := zap.NewProduction()
	changes, err := ProcessFiles(context.Background(), logger, engine, []string{dir}, ProcessFile)
	require.NoError(t, err)

	require.Len(t, changes, 1, "only the document with matches reports a change")
	assert.Equal(t, filepath.Join(dir, "a.json"), changes[0].Filename)
}

func TestProcessFilesDirectoryKeepsResultsPastFailures(t *testing.T) {
	dir := t.TempDir()
	writeTempDoc(t, dir, "bad1.json", "{ not json")
	writeTempDoc(t, dir, "bad2.json", "{ not json")
	writeTempDoc(t, dir, "bad3.json", "{ not json")
	writeTempDoc(t, dir, "good.json", metaURLDoc)

	engine, err := New("", nil)
	require.NoError(t, err)

	changes, err := ProcessFiles(context.Background(), nil, engine, []string{dir}, ProcessFile)
	require.NoError(t, err)

	require.Len(t, changes, 1, "failing documents must not swallow another document's result")
	assert.Equal(t, filepath.Join(dir, "good.json"), changes[0].Filename)
}

func TestWriteProcessorRewritesFile(t *testing.T) {
	path := writeTempDoc(t, t.TempDir(), "mod.json", metaURLDoc)

	engine, err := New("", nil)
	require.NoError(t, err)

	logger, _ := zap.NewProduction()
	_, err = ProcessFiles(context.Background(), logger, engine, []string{path}, WriteProcessor())
	require.NoError(t, err)

	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), `"pathToFileURL"`)
	assert.NotContains(t, string(rewritten), `"MetaProperty"`)
}

func TestNewAppliesConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTempDoc(t, dir, ".espatch.yaml", `
name: espatch
transforms:
  import-meta-url:
    module: ES6
`)
	docPath := writeTempDoc(t, dir, "mod.json", metaURLDoc)

	engine, err := New(cfgPath, nil)
	require.NoError(t, err)

	changes, _, err := engine.Run(docPath)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "url", changes[0].InsertedBinding)
}

func TestNewOverridesTakePrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTempDoc(t, dir, ".espatch.yaml", `
name: espatch
transforms:
  import-meta-url:
    module: ES6
`)

	engine, err := New(cfgPath, map[string]tt.ConfigTransform{
		"import-meta-url": {Module: "CommonJS"},
	})
	require.NoError(t, err)

	changes, output, err := engine.RunSource([]byte(metaURLDoc))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Empty(t, changes[0].InsertedBinding)
	assert.Contains(t, string(output), `"require"`)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTempDoc(t, dir, ".espatch.yaml", `
name: espatch
transforms:
  import-meta-url:
    module: AMD
`)

	_, err := New(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid option module")
}
