// Package pkg provides the core libraries for buildfeatures.
//
// # Overview
//
// A feature is a named bundle of build dependencies that a host build enables
// or disables as a unit. The pkg directory is organized into three areas:
//
//  1. Domain logic: [feature] (registry, selection, resolution), [versions]
//     (fallback version table) and [casing] (identifier conventions)
//  2. Documents: [featurefile] (feature documents) and [script] (build script
//     blocks and rewrites)
//  3. Tooling: [extract] (turn declared dependencies into features), [host]
//     (filesystem, publishing, dependency sinks) and [render] (DOT and SVG
//     graphs)
//
// # Architecture
//
// The typical data flow for resolution:
//
//	feature documents + version documents
//	         ↓
//	    [featurefile] package (parse, register definitions)
//	         ↓
//	    [feature] package (selection from script and project file)
//	         ↓
//	    [feature.Resolver] (emit declarations)
//	         ↓
//	    [host] package (print, record or hand to a build)
//
// Extraction runs the other way: [extract] reads the declared dependencies
// through [host.ScriptFacts], writes a new feature document and version
// document, publishes the shared repository and rewrites the build script
// with [script].
//
// # Quick Start
//
// Load a feature document and resolve it:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/buildfeatures/pkg/feature"
//	    "github.com/matzehuels/buildfeatures/pkg/featurefile"
//	    "github.com/matzehuels/buildfeatures/pkg/host"
//	    "github.com/matzehuels/buildfeatures/pkg/versions"
//	)
//
//	doc, _ := featurefile.Parse(data)
//	table := versions.NewDefault()
//	reg := feature.NewRegistry(nil)
//	_ = featurefile.Apply(reg, table, doc)
//	reg.Select(map[string]bool{"web": true})
//
//	r := feature.NewResolver(reg, host.Printer{W: os.Stdout}, feature.Options{Versions: table})
//	_, _ = r.Apply(context.Background())
//
// # Errors
//
// All packages report failures as [errors.Error] values carrying a stable
// [errors.Code]. Use [errors.Is] to branch on a code.
package pkg
