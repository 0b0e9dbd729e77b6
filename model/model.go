package model

import "io"

// Host is the simulation model that owns the grid dimensions and the
// package list.
type Host interface {
	// Shape returns rows, columns, layers and stress periods.
	Shape() (nrow, ncol, nlay, nper int)
	// Transient is true when any stress period is not steady state.
	Transient() bool
	// ConfiningBed reports whether layer k (zero-based) has a confining bed below it.
	ConfiningBed(k int) bool
	Version() string
	AddPackage(p Package)
}

// Package is a package file the host can write.
type Package interface {
	Name() string
	Extension() string
	Unit() int
	Write(w io.Writer) error
}

// OutputFile is an auxiliary file a package writes through its own unit.
type OutputFile struct {
	Extension string `json:"extension"`
	Name      string `json:"name"`
	Unit      int    `json:"unit"`
}

// Msg is the envelope exchanged with websocket clients.
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
