// Package pkg provides the libraries behind wiresep, the wire declutter
// engine for orthogonal schematic editors.
//
// # Overview
//
// A schematic snapshot holds wires (a start point plus a list of alternating
// horizontal and vertical segments) and symbols (boxes with ports). Editing
// tends to stack segments of different nets on top of each other. wiresep
// spreads such stacks apart at a fixed separation without moving pins or the
// stubs ("nubs") that leave them.
//
// # Architecture
//
//	snapshot.json
//	     ↓
//	[io] decode, assign missing wire ids
//	     ↓
//	[declutter] extract lines → build clusters → place → move segments
//	     ↓            (horizontal pass, then vertical pass)
//	[corner] optionally straighten small step detours
//	     ↓
//	[io] encode
//
// [pipeline] runs these steps behind a [cache] keyed on the snapshot hash
// and the options, and is shared by the CLI and the HTTP server.
//
// # Main Packages
//
// [geom] - Points, bounds and boxes with the overlap tests the engine uses.
//
// [diagram] - Wires, segments, symbols and ports. Segment moves that keep
// both wire ends and both nubs in place.
//
// [declutter] - Line extraction, clustering, span and slot placement, and
// the per-axis separation pass.
//
// [corner] - Detection and removal of small corners.
//
// [io] - JSON snapshot import and export, including the canonical encoding
// used for cache keys.
//
// [pipeline] - Validated, cached, instrumented runs over both axes.
//
// [cache] - File, Redis and null result caches.
//
// [config] - TOML and YAML configuration with environment overrides.
//
// [observability] - Hooks for passes, cache events and HTTP requests.
//
// [errors] - Coded errors shared by all packages.
//
// # Quick Start
//
//	d, _ := io.ImportJSON("board.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, d, pipeline.Options{Corners: true})
//	io.ExportJSON(result.Diagram, "board.decluttered.json")
//
// # Testing
//
//	go test ./pkg/...
//	go test ./pkg/declutter -run Separate
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/wiresep/pkg/geom
// [diagram]: https://pkg.go.dev/github.com/matzehuels/wiresep/pkg/diagram
// [declutter]: https://pkg.go.dev/github.com/matzehuels/wiresep/pkg/declutter
// [corner]: https://pkg.go.dev/github.com/matzehuels/wiresep/pkg/corner
// [io]: https://pkg.go.dev/github.com/matzehuels/wiresep/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wiresep/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/wiresep/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/wiresep/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/wiresep/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/wiresep/pkg/errors
package pkg
