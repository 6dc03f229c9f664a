// Copyright 2019 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cavefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// XMLDeclaration is the first line of every written document.
const XMLDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

// Layout controls the whitespace written between elements. Nothing is ever indented.
type Layout int

const (
	// LineLayout starts every element on its own line. Elements holding only text stay on one line, and the end tag
	// of an element with children gets its own line. This is the layout survey tools write.
	LineLayout Layout = iota
	// CompactLayout writes no whitespace between elements.
	CompactLayout
)

func (l Layout) String() string {
	switch l {
	case LineLayout:
		return "lines"
	case CompactLayout:
		return "compact"
	}

	return fmt.Sprintf("Layout(%d)", int(l))
}

// ParseLayout parses the names returned by Layout.String.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "lines":
		return LineLayout, nil
	case "compact":
		return CompactLayout, nil
	}

	return 0, fmt.Errorf("unknown layout '%s', expected 'lines' or 'compact'", s)
}

// EncodeOption configures a Writer.
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	layout Layout
}

// WithLayout selects the whitespace layout.
func WithLayout(l Layout) EncodeOption {
	return func(opts *encodeOptions) {
		opts.layout = l
	}
}

var WriteBufSize = 64 * 1024

var ErrWriterClosed = errors.New("cavefile writer already closed")

type frame struct {
	name     string
	children bool
}

// emitter writes elements and tracks just enough state to decide between <X/> and <X></X> and where newlines go.
// The first write error sticks and every later call is a no-op.
type emitter struct {
	bWr     *bufio.Writer
	layout  Layout
	stack   []frame
	pending bool
	err     error
}

func (e *emitter) write(s string) {
	if e.err != nil {
		return
	}

	_, e.err = e.bWr.WriteString(s)
}

func (e *emitter) newline() {
	if e.layout == LineLayout {
		e.write("\n")
	}
}

func (e *emitter) finishStartTag() {
	if e.pending {
		e.write(">")
		e.pending = false
	}
}

func (e *emitter) open(name string) {
	e.finishStartTag()

	if n := len(e.stack); n > 0 {
		e.stack[n-1].children = true
	}

	e.newline()
	e.write("<")
	e.write(name)
	e.pending = true
	e.stack = append(e.stack, frame{name: name})
}

func (e *emitter) text(s string) {
	e.finishStartTag()
	e.write(s)
}

func (e *emitter) close() {
	f := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]

	if e.pending {
		e.write("/>")
		e.pending = false
		return
	}

	if f.children {
		e.newline()
	}

	e.write("</")
	e.write(f.name)
	e.write(">")
}

// leaf writes an element holding text. The text is written unescaped; use it only for values built by this package.
func (e *emitter) leaf(name, val string) {
	e.open(name)
	e.text(val)
	e.close()
}

// escapedLeaf writes decoded text. Numbers, flags and dates come from the document too, so they are escaped like
// free text.
func (e *emitter) escapedLeaf(name, val string) {
	e.leaf(name, EscapeText(val))
}

func (e *emitter) empty(name string) {
	e.open(name)
	e.close()
}

func (e *emitter) writeHeaderStart(hdr *Header) {
	e.write(XMLDeclaration)
	e.open(TagCaveFile)
	e.escapedLeaf(TagCaveName, hdr.CaveName)
	e.escapedLeaf(TagFirstStartAbsoluteElevation, hdr.FirstStartAbsoluteElevation)
	e.escapedLeaf(TagGeoCoding, hdr.GeoCoding)
	e.empty(TagListAnnotation)
	e.open(TagData)
}

func (e *emitter) writeHeaderEnd(hdr *Header) {
	e.close()
	e.escapedLeaf(TagUnit, hdr.Unit)
	e.escapedLeaf(TagUseMagneticAzimuth, hdr.UseMagneticAzimuth)
	e.writeTrailer()
	e.close()
}

func (e *emitter) writeRecord(r *Record) {
	e.open(TagStation)
	e.escapedLeaf(TagAzimuth, r.Azimuth)
	e.leaf(TagClosureToID, FormatID(r.ClosureToID))
	e.escapedLeaf(TagColor, r.Color)
	e.escapedLeaf(TagComment, r.Comment.String())
	e.escapedLeaf(TagDate, r.Date)
	e.escapedLeaf(TagDepth, r.Depth)
	e.escapedLeaf(TagDepthIn, r.DepthIn)
	e.escapedLeaf(TagDown, r.Down)
	e.escapedLeaf(TagExcluded, r.Excluded)
	e.escapedLeaf(TagExplorer, r.Explorer.String())
	e.leaf(TagFromID, FormatID(r.FromID))
	e.leaf(TagID, FormatID(r.ID))
	e.escapedLeaf(TagInclination, r.Inclination)
	e.escapedLeaf(TagLatitude, r.Latitude)
	e.escapedLeaf(TagLeft, r.Left)
	e.escapedLeaf(TagLength, r.Length)
	e.escapedLeaf(TagLocked, r.Locked)
	e.escapedLeaf(TagLongitude, r.Longitude)
	e.escapedLeaf(TagName, r.Name.String())
	e.escapedLeaf(TagProfileType, r.ProfileType)
	e.escapedLeaf(TagRight, r.Right)
	e.escapedLeaf(TagSection, r.Section.String())
	e.writeShape(&r.Shape)
	e.escapedLeaf(TagStationType, r.StationType)
	e.escapedLeaf(TagUp, r.Up)
	e.close()
}

func (e *emitter) writeShape(sh *Shape) {
	e.open(TagShape)
	e.escapedLeaf(TagHasProfileAzimuth, sh.HasProfileAzimuth)
	e.escapedLeaf(TagHasProfileTilt, sh.HasProfileTilt)
	e.escapedLeaf(TagProfileAzimuth, sh.ProfileAzimuth)
	e.escapedLeaf(TagProfileTilt, sh.ProfileTilt)

	e.open(TagRadiusCollection)
	for i := range sh.RadiusVectors {
		rv := &sh.RadiusVectors[i]
		e.open(TagRadiusVector)
		e.escapedLeaf(TagAngle, rv.Angle)
		e.escapedLeaf(TagRadiusLength, rv.Length)
		e.escapedLeaf(TagTensionCorridor, rv.TensionCorridor)
		e.escapedLeaf(TagTensionProfile, rv.TensionProfile)
		e.close()
	}
	e.close()

	e.close()
}

// Writer writes a document one record at a time. The header is written with the first record, and everything after
// the last record is written by Close. Close does not close the underlying writer.
type Writer struct {
	e       *emitter
	hdr     Header
	started bool
	closed  bool
	written int
}

// NewWriter returns a Writer that writes a document with the given header to wr.
func NewWriter(wr io.Writer, hdr Header, opts ...EncodeOption) *Writer {
	var eo encodeOptions
	for _, opt := range opts {
		opt(&eo)
	}

	return &Writer{
		e:   &emitter{bWr: bufio.NewWriterSize(wr, WriteBufSize), layout: eo.layout},
		hdr: hdr,
	}
}

func (w *Writer) start() {
	if !w.started {
		w.e.writeHeaderStart(&w.hdr)
		w.started = true
	}
}

func (w *Writer) ioErr() error {
	if w.e.err != nil {
		return ErrIOFailure.Wrap(w.e.err, w.e.err.Error())
	}

	return nil
}

// WriteRecord writes one SRVD element.
func (w *Writer) WriteRecord(r *Record) error {
	if w.closed {
		return ErrWriterClosed
	}

	w.start()
	w.e.writeRecord(r)
	w.written++

	return w.ioErr()
}

// Written returns the number of records written so far.
func (w *Writer) Written() int {
	return w.written
}

// Close writes the rest of the document and flushes it.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}

	w.closed = true
	w.start()
	w.e.writeHeaderEnd(&w.hdr)

	if err := w.ioErr(); err != nil {
		return err
	}

	if err := w.e.bWr.Flush(); err != nil {
		return ErrIOFailure.Wrap(err, err.Error())
	}

	logrus.Debugf("wrote cave file '%s' with %d stations", w.hdr.CaveName, w.written)
	return nil
}

// Encode writes cf to wr.
func Encode(wr io.Writer, cf *CaveFile, opts ...EncodeOption) error {
	w := NewWriter(wr, cf.Info, opts...)

	for i := range cf.Data {
		if err := w.WriteRecord(&cf.Data[i]); err != nil {
			return err
		}
	}

	return w.Close()
}

// Marshal returns the encoded form of cf.
func Marshal(cf *CaveFile, opts ...EncodeOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, cf, opts...); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
