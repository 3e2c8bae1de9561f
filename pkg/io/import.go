package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/matzehuels/wiresep/pkg/diagram"
	errs "github.com/matzehuels/wiresep/pkg/errors"
)

// ReadJSON decodes a snapshot from r.
//
// ReadJSON returns an INVALID_SNAPSHOT error if:
//   - The JSON is malformed
//   - A wire id is duplicated or contains control characters
//   - A wire has fewer than two segments
//   - An orientation or port edge name is unknown
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (diagram.Diagram, error) {
	var data snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return diagram.Diagram{}, errs.Wrap(errs.ErrCodeInvalidSnapshot, err, "decode snapshot")
	}

	d := diagram.Diagram{Wires: make(diagram.Wires, len(data.Wires))}
	for i, w := range data.Wires {
		dw, err := decodeWire(w, i)
		if err != nil {
			return diagram.Diagram{}, fmt.Errorf("wire %d: %w", i, err)
		}
		if _, dup := d.Wires[dw.ID]; dup {
			return diagram.Diagram{}, errs.New(errs.ErrCodeInvalidSnapshot, "duplicate wire id %q", dw.ID)
		}
		d.Wires[dw.ID] = dw
	}

	for _, s := range data.Symbols {
		ds, err := decodeSymbol(s)
		if err != nil {
			return diagram.Diagram{}, fmt.Errorf("symbol %s: %w", s.ID, err)
		}
		d.Symbols = append(d.Symbols, ds)
	}
	return d, nil
}

// wireNamespace scopes the name-based UUIDs given to wires without an id.
var wireNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/wiresep/wire"))

// wireID derives the id of an unnamed wire from its position in the
// snapshot and its content, so the same snapshot always gets the same ids
// and hashes to the same cache key.
func wireID(w wire, pos int) string {
	b, err := json.Marshal(w)
	if err != nil {
		return uuid.NewString()
	}
	name := append([]byte(fmt.Sprintf("%d:", pos)), b...)
	return uuid.NewSHA1(wireNamespace, name).String()
}

func decodeWire(w wire, pos int) (diagram.Wire, error) {
	if w.ID == "" {
		w.ID = wireID(w, pos)
	}
	if err := errs.ValidateWireID(w.ID); err != nil {
		return diagram.Wire{}, err
	}
	if len(w.Segments) < 2 {
		return diagram.Wire{}, errs.New(errs.ErrCodeInvalidSnapshot,
			"wire %s has %d segments, need at least 2", w.ID, len(w.Segments))
	}

	o := diagram.Horizontal
	if w.InitialOrientation != "" {
		var err error
		if o, err = diagram.ParseOrientation(w.InitialOrientation); err != nil {
			return diagram.Wire{}, errs.Wrap(errs.ErrCodeInvalidSnapshot, err, "wire %s", w.ID)
		}
	}

	segs := make([]diagram.Segment, len(w.Segments))
	for i, s := range w.Segments {
		segs[i] = diagram.Segment{Index: i, Length: s.Length, Manual: s.Manual}
	}
	return diagram.Wire{
		ID:                 diagram.WireID(w.ID),
		OutputPort:         diagram.PortID(w.OutputPort),
		InputPort:          diagram.PortID(w.InputPort),
		Start:              w.Start,
		InitialOrientation: o,
		Segments:           segs,
	}, nil
}

func decodeSymbol(s symbol) (diagram.Symbol, error) {
	if err := errs.ValidateID("symbol", s.ID); err != nil {
		return diagram.Symbol{}, err
	}
	ds := diagram.Symbol{ID: s.ID, Box: s.Box}
	if len(s.Ports) > 0 {
		ds.Ports = make(map[diagram.PortID]diagram.Edge, len(s.Ports))
	}
	for port, name := range s.Ports {
		e, err := diagram.ParseEdge(name)
		if err != nil {
			return diagram.Symbol{}, errs.Wrap(errs.ErrCodeInvalidSnapshot, err, "port %s", port)
		}
		ds.Ports[diagram.PortID(port)] = e
	}
	return ds, nil
}

// ImportJSON reads the snapshot file at path.
//
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string) (diagram.Diagram, error) {
	if err := errs.ValidatePath(path); err != nil {
		return diagram.Diagram{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return diagram.Diagram{}, errs.Wrap(errs.ErrCodeNotFound, err, "open snapshot %s", path)
	}
	defer f.Close()

	d, err := ReadJSON(f)
	if err != nil {
		return diagram.Diagram{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
