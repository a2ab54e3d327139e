// Package pkg provides the core libraries for archgen diagram generation.
//
// # Overview
//
// Archgen compiles untrusted architecture-plan JSON (typically produced by an
// LLM) into deterministic draw.io-compatible diagrams. The pkg directory is
// organized into three main areas:
//
//  1. Plan handling - extraction, repair, and normalization of plan JSON
//  2. Diagram construction - layout, style synthesis, and the XML document
//  3. Output and quality - SVG/DOT rendering, validation, caching
//
// # Architecture
//
// The typical data flow through archgen:
//
//	Raw LLM output (fenced, prefixed, or broken JSON)
//	         ↓
//	    [plan] package (extract + normalize into a canonical plan)
//	         ↓
//	    [layout] package (swimlane or flowchart geometry)
//	         ↓
//	    [synth] package (plan + layout + theme → document shapes)
//	         ↓
//	    [document] package (mxGraphModel XML codec)
//	         ↓
//	    [render] / [validate] packages (SVG, DOT, PNG; local quality report)
//
// # Quick Start
//
// Run the whole chain through the pipeline:
//
//	import (
//	    "context"
//	    "github.com/archgen/archgen/pkg/cache"
//	    "github.com/archgen/archgen/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil)
//	result, err := runner.Generate(context.Background(), rawPlan, pipeline.Options{
//	    Goal:    "event driven order platform",
//	    Formats: []string{"xml", "svg"},
//	})
//
// Or call the stages directly:
//
//	obj, _ := plan.Parse(raw)
//	p := plan.Normalize(goal, obj, plan.ModeSwimlane, th)
//	l := layout.ForMode(plan.ModeSwimlane).Build(p)
//	doc := synth.Build(p, l, th)
//	xmlBytes, _ := document.Marshal(doc)
//	svg := render.SVG(xmlBytes)
//
// # Main Packages
//
// [plan] - Plan extraction and normalization. Parse recovers a JSON object
// from messy LLM output (code fences, prose prefixes, single quotes, trailing
// commas); Normalize produces the canonical plan (lane assignment, container
// demotion, mode-specific edge dedup and node caps, enrichment).
//
// [theme] - Immutable style and vocabulary configuration: lane palettes, node
// type shapes and colors, container keywords. Loadable from TOML.
//
// [layout] - Deterministic 2D geometry. Swimlane engine places nodes in
// horizontal lane bands with group boxes; flowchart engine layers nodes by
// BFS depth and centers each row.
//
// [document] - The diagram document model and its mxGraphModel XML codec,
// including the ordered style-string codec and tolerant parsing of wrapped or
// entity-damaged XML.
//
// [synth] - Style synthesis: turns a plan plus layout into document shapes
// with the theme's colors, contrast-aware font selection, and a lane legend.
//
// [render] - Standalone SVG rendering (never fails; draws an error image for
// unparseable input) plus DOT export and Graphviz-backed PNG/SVG previews.
//
// [validate] - Local quality checks against serialized diagram XML:
// structure, arrow vocabulary, node overlap, color contrast, goal keywords.
//
// ## Infrastructure
//
// [pipeline] - Complete generation pipeline (parse → normalize → layout →
// synthesize → render → validate) used by CLI and server. Ensures consistent
// behavior across all entry points.
//
// [cache] - Content-addressed artifact caching keyed by plan hash, mode, and
// format. File, Redis, and null backends.
//
// [errors] - Structured errors with machine-readable codes, shared by CLI
// and API.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/plan/...     # Specific package
//
// [plan]: https://pkg.go.dev/github.com/archgen/archgen/pkg/plan
// [theme]: https://pkg.go.dev/github.com/archgen/archgen/pkg/theme
// [layout]: https://pkg.go.dev/github.com/archgen/archgen/pkg/layout
// [document]: https://pkg.go.dev/github.com/archgen/archgen/pkg/document
// [synth]: https://pkg.go.dev/github.com/archgen/archgen/pkg/synth
// [render]: https://pkg.go.dev/github.com/archgen/archgen/pkg/render
// [validate]: https://pkg.go.dev/github.com/archgen/archgen/pkg/validate
// [pipeline]: https://pkg.go.dev/github.com/archgen/archgen/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/archgen/archgen/pkg/cache
// [errors]: https://pkg.go.dev/github.com/archgen/archgen/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/archgen/archgen/pkg/buildinfo
package pkg
