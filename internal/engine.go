package internal

import (
	"fmt"
	"os"
	"sort"

	"github.com/ecmalabs/espatch/internal/ast"
	"github.com/ecmalabs/espatch/internal/estree"
	"github.com/ecmalabs/espatch/internal/transforms"
	tt "github.com/ecmalabs/espatch/internal/types"

	"github.com/fsnotify/fsnotify"
)

// Engine manages the transform process for program units serialized as
// ESTree JSON documents.
type Engine struct {
	ignoredTransforms map[string]bool
	transforms        map[string]transforms.Transform

	watcher    *fsnotify.Watcher
	watchDirs  []string
	isWatching bool
}

// transformConstructor builds a configured transform from its config entry.
// Option validation happens here, before any tree is touched.
type transformConstructor func(tt.ConfigTransform) (transforms.Transform, error)

var allTransformConstructors = map[string]transformConstructor{
	"import-meta-url": func(cfg tt.ConfigTransform) (transforms.Transform, error) {
		return transforms.NewImportMetaURL(transforms.ImportMetaURLOptions{
			Module: cfg.Module,
			Phase:  cfg.Phase,
		})
	},
}

// NewEngine creates an engine with every registered transform, applying any
// per-transform options from cfgs. Unknown transform names in cfgs are
// skipped; invalid option values abort setup.
func NewEngine(cfgs map[string]tt.ConfigTransform) (*Engine, error) {
	engine := &Engine{
		ignoredTransforms: make(map[string]bool),
		transforms:        make(map[string]transforms.Transform),
	}

	for name, construct := range allTransformConstructors {
		t, err := construct(cfgs[name])
		if err != nil {
			return nil, err
		}
		engine.transforms[name] = t
	}
	return engine, nil
}

// IgnoreTransform disables the named transform for subsequent runs.
func (e *Engine) IgnoreTransform(name string) {
	e.ignoredTransforms[name] = true
}

// Run applies all enabled transforms to the AST document at filename and
// returns the per-transform changes together with the re-encoded document.
func (e *Engine) Run(filename string) ([]tt.Change, []byte, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading %s: %w", filename, err)
	}

	changes, output, err := e.RunSource(src)
	if err != nil {
		return nil, nil, fmt.Errorf("error transforming %s: %w", filename, err)
	}
	for i := range changes {
		changes[i].Filename = filename
	}
	return changes, output, nil
}

// RunSource applies all enabled transforms to one serialized program unit.
func (e *Engine) RunSource(src []byte) ([]tt.Change, []byte, error) {
	prog, err := estree.Decode(src)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(e.transforms))
	for name := range e.transforms {
		names = append(names, name)
	}
	sort.Strings(names)

	var changes []tt.Change
	for _, name := range names {
		if e.ignoredTransforms[name] {
			continue
		}
		// a fresh scope per pass so bindings introduced by a previous
		// transform are visible to the next one
		scope := ast.NewProgramScope(prog)
		res := e.transforms[name].Apply(prog, scope)
		if res.Sites == 0 {
			continue
		}
		changes = append(changes, tt.Change{
			Transform:       name,
			Sites:           res.Sites,
			InsertedBinding: res.InsertedBinding,
		})
	}

	output, err := estree.Encode(prog)
	if err != nil {
		return nil, nil, err
	}
	return changes, output, nil
}
