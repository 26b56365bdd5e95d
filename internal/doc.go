// Package internal provides the core functionality of the espatch transform
// engine.
//
// This package implements a small, extensible engine that applies
// source-to-source rewrite rules to ECMAScript program units. Program units
// arrive and leave as ESTree JSON documents; the engine never parses or
// prints JavaScript source text itself.
//
// Key components:
//
// Engine: coordinates one transform pass per program unit. It holds the
// registered transforms, applies per-transform options from the
// configuration file, and re-encodes the rewritten tree.
//
// Transform (internal/transforms): the contract a rewrite rule implements.
// A transform validates its options once at construction and then mutates
// the tree in place, reporting how many sites it replaced.
//
// Change (internal/types): the record of one transform's effect on one
// program unit.
//
// The package also contains the watch loop that re-runs the engine when an
// AST document on disk changes, and the colored change reporter.
//
// Usage:
//
//	engine, err := internal.NewEngine(nil)
//	if err != nil {
//	    // handle error
//	}
//
//	changes, output, err := engine.Run("path/to/file.json")
//	if err != nil {
//	    // handle error
//	}
package internal
