// Package io provides JSON import and export for diagram snapshots.
//
// # JSON Format
//
// A snapshot has a "wires" array and an optional "symbols" array:
//
//	{
//	  "wires": [
//	    {
//	      "id": "w1",
//	      "output_port": "and1.out",
//	      "input_port": "or2.in0",
//	      "start": {"x": 40, "y": 15},
//	      "initial_orientation": "horizontal",
//	      "segments": [{"length": 8}, {"length": 20}, {"length": 40, "manual": true}, {"length": 10}, {"length": 8}]
//	    }
//	  ],
//	  "symbols": [
//	    {
//	      "id": "and1",
//	      "box": {"top_left": {"x": 0, "y": 0}, "w": 40, "h": 30},
//	      "ports": {"and1.out": "right"}
//	    }
//	  ]
//	}
//
// Segment lengths are signed; segment orientations alternate starting with
// initial_orientation. A wire without an "id" is given a random UUID.
//
// # Import
//
// Use [ImportJSON] to read a snapshot from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate identifiers, orientation and edge names,
// and reject duplicate wire ids and wires with fewer than two segments.
//
// # Export
//
// Use [ExportJSON] to write a snapshot to a file, or [WriteJSON] to write to
// any io.Writer. Wires are written in id order, so exporting the same diagram
// twice produces identical bytes; [pipeline] hashes this form for its cache
// keys.
//
// [pipeline]: github.com/matzehuels/wiresep/pkg/pipeline
package io
