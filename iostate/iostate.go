// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iostate implements the minimal, optional persisted-state
// container of spec section 6(c): one directory per run, one encoded
// file per output step. Grounded directly on fem/fileio.go's
// GetEncoder/GetDecoder (gob/json switch keyed by a string tag) and its
// per-tidx file naming convention, and on fem/summary.go's Summary for
// the run-level scalar file.
package iostate

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/vec3"
)

// Encoder is satisfied by both *gob.Encoder and *json.Encoder.
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder is satisfied by both *gob.Decoder and *json.Decoder.
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a gob encoder, or a json encoder when enctype=="json".
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a gob decoder, or a json decoder when enctype=="json".
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// FilamentState is the per-filament record written at every output step:
// node positions, the periodic offset, and the method name needed to
// reconstruct evaluation behaviour (the method's numerical parameters
// themselves are supplied by the caller on read, per spec section 6(c)'s
// round-trip contract -- a persisted Method name alone cannot carry e.g.
// an FD stencil half-width, so Reader.ReadStep takes the caller's own
// filament.Method to rebuild with).
type FilamentState struct {
	Nodes      []vec3.Vec3
	Offset     vec3.Vec3
	MethodName string
}

// FieldState holds the per-node velocity/streamfunction/tangent arrays
// aligned by index to a FilamentState's Nodes, per spec section 6(c).
type FieldState struct {
	V        []vec3.Vec3
	Psi      []vec3.Vec3
	Tangents []vec3.Vec3
}

// StepSummary is the global scalar record written once per step.
type StepSummary struct {
	Step int
	Time float64
	Dt   float64
}

// Writer persists filament and field state to one directory, one file
// per output step, exactly as fem.Domain.Save writes one nod/ele file
// per tidx.
type Writer struct {
	Dir     string
	EncType string // "gob" (default) or "json"
}

func stepPath(dir, enctype string, tidx int) string {
	return path.Join(dir, io.Sf("step_%06d.%s", tidx, enctype))
}

func fieldsPath(dir, enctype string, tidx int) string {
	return path.Join(dir, io.Sf("fields_%06d.%s", tidx, enctype))
}

func summaryPath(dir, enctype string) string {
	return path.Join(dir, io.Sf("summary.%s", enctype))
}

// WriteStep encodes the current filaments and (optionally, if non-nil)
// per-node fields to step_%06d/fields_%06d files under Dir.
func (w Writer) WriteStep(tidx int, filaments []*filament.Filament, fields []FieldState) error {
	enctype := w.encType()

	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	states := make([]FilamentState, len(filaments))
	for i, f := range filaments {
		states[i] = FilamentState{Nodes: f.VisiblePoints(), Offset: f.Offset, MethodName: f.Method.Name()}
	}
	if err := enc.Encode(states); err != nil {
		return chk.Err("iostate: cannot encode filament states\n%v", err)
	}
	if err := saveFile(stepPath(w.Dir, enctype, tidx), &buf); err != nil {
		return err
	}

	if fields == nil {
		return nil
	}
	var fbuf bytes.Buffer
	fenc := GetEncoder(&fbuf, enctype)
	if err := fenc.Encode(fields); err != nil {
		return chk.Err("iostate: cannot encode field states\n%v", err)
	}
	return saveFile(fieldsPath(w.Dir, enctype, tidx), &fbuf)
}

// WriteSummary encodes the run-level scalar summary.
func (w Writer) WriteSummary(s StepSummary) error {
	enctype := w.encType()
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	if err := enc.Encode(s); err != nil {
		return chk.Err("iostate: cannot encode summary\n%v", err)
	}
	return saveFile(summaryPath(w.Dir, enctype), &buf)
}

func (w Writer) encType() string {
	if w.EncType == "" {
		return "gob"
	}
	return w.EncType
}

func saveFile(filename string, buf *bytes.Buffer) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		cerr := fil.Close()
		if err == nil {
			err = cerr
		}
	}()
	_, err = fil.Write(buf.Bytes())
	return err
}

// Reader reconstructs filaments from a Writer's output. ReadStep's methods
// argument supplies
// one filament.Method per persisted filament (by index), since the
// method's numerical parameters are not themselves serialized.
type Reader struct {
	Dir     string
	EncType string
}

func (r Reader) encType() string {
	if r.EncType == "" {
		return "gob"
	}
	return r.EncType
}

// ReadStep decodes the filament states at tidx and rebuilds filaments
// using methods[i] for state i (spec section 6(c)'s round-trip property:
// re-Init from persisted nodes/offset reproduces the same geometry).
func (r Reader) ReadStep(tidx int, methods []filament.Method) ([]*filament.Filament, error) {
	enctype := r.encType()
	fil, err := os.Open(stepPath(r.Dir, enctype, tidx))
	if err != nil {
		return nil, err
	}
	defer fil.Close()

	dec := GetDecoder(fil, enctype)
	var states []FilamentState
	if err := dec.Decode(&states); err != nil {
		return nil, chk.Err("iostate: cannot decode filament states\n%v", err)
	}
	if len(methods) != len(states) {
		return nil, chk.Err("iostate: expected %d methods, got %d", len(states), len(methods))
	}

	out := make([]*filament.Filament, len(states))
	for i, s := range states {
		out[i] = filament.Init(s.Nodes, methods[i], s.Offset)
	}
	return out, nil
}

// ReadFields decodes the per-node field states at tidx, if present.
func (r Reader) ReadFields(tidx int) ([]FieldState, error) {
	enctype := r.encType()
	fil, err := os.Open(fieldsPath(r.Dir, enctype, tidx))
	if err != nil {
		return nil, err
	}
	defer fil.Close()

	dec := GetDecoder(fil, enctype)
	var fields []FieldState
	if err := dec.Decode(&fields); err != nil {
		return nil, chk.Err("iostate: cannot decode field states\n%v", err)
	}
	return fields, nil
}

// ReadSummary decodes the run-level scalar summary.
func (r Reader) ReadSummary() (StepSummary, error) {
	enctype := r.encType()
	fil, err := os.Open(summaryPath(r.Dir, enctype))
	if err != nil {
		return StepSummary{}, err
	}
	defer fil.Close()

	dec := GetDecoder(fil, enctype)
	var s StepSummary
	if err := dec.Decode(&s); err != nil {
		return StepSummary{}, chk.Err("iostate: cannot decode summary\n%v", err)
	}
	return s, nil
}
