package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/wiresep/pkg/diagram"
	errs "github.com/matzehuels/wiresep/pkg/errors"
)

// WriteJSON encodes d as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(d diagram.Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(encode(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the canonical compact encoding of d.
func Marshal(d diagram.Diagram) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(encode(d)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportJSON writes d to a file at path, creating or truncating it.
func ExportJSON(d diagram.Diagram, path string) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(d, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(d diagram.Diagram) snapshot {
	out := snapshot{Wires: make([]wire, 0, len(d.Wires))}
	for _, id := range d.Wires.IDs() {
		w := d.Wires[id]
		segs := make([]segment, len(w.Segments))
		for i, s := range w.Segments {
			segs[i] = segment{Length: s.Length, Manual: s.Manual}
		}
		out.Wires = append(out.Wires, wire{
			ID:                 string(w.ID),
			OutputPort:         string(w.OutputPort),
			InputPort:          string(w.InputPort),
			Start:              w.Start,
			InitialOrientation: w.InitialOrientation.String(),
			Segments:           segs,
		})
	}
	for _, s := range d.Symbols {
		sym := symbol{ID: s.ID, Box: s.Box}
		if len(s.Ports) > 0 {
			sym.Ports = make(map[string]string, len(s.Ports))
			for p, e := range s.Ports {
				sym.Ports[string(p)] = e.String()
			}
		}
		out.Symbols = append(out.Symbols, sym)
	}
	return out
}
