package io

import "github.com/matzehuels/wiresep/pkg/geom"

type snapshot struct {
	Wires   []wire   `json:"wires"`
	Symbols []symbol `json:"symbols,omitempty"`
}

type wire struct {
	ID                 string     `json:"id,omitempty"`
	OutputPort         string     `json:"output_port"`
	InputPort          string     `json:"input_port"`
	Start              geom.Point `json:"start"`
	InitialOrientation string     `json:"initial_orientation"`
	Segments           []segment  `json:"segments"`
}

type segment struct {
	Length float64 `json:"length"`
	Manual bool    `json:"manual,omitempty"`
}

type symbol struct {
	ID    string            `json:"id"`
	Box   geom.Box          `json:"box"`
	Ports map[string]string `json:"ports,omitempty"`
}
