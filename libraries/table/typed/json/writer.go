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

package json

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
	"github.com/cavesurvey/tmlu/libraries/utils/iohelp"
)

const jsonHeader = `[`
const jsonFooter = "\n]\n"
const jsonEmpty = "[]\n"

// DefaultIndent is the indentation used unless another is configured.
const DefaultIndent = "  "

var WriteBufSize = 256 * 1024

// StartEntry is the projection of a START station.
type StartEntry struct {
	ID        int32   `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Depth     float64 `json:"depth"`
}

// RelativeEntry is the projection of a REAL or VIRTUAL station.
type RelativeEntry struct {
	ID      int32   `json:"id"`
	Length  float64 `json:"length"`
	Azimuth float64 `json:"azimuth"`
	Depth   float64 `json:"depth"`
	Date    string  `json:"date"`
	FromID  int32   `json:"from_id"`
}

// LoopEntry is the projection of a CLOSURE station.
type LoopEntry struct {
	ID     int32 `json:"id"`
	FromID int32 `json:"from_id"`
	ToID   int32 `json:"to_id"`
}

// Entry holds exactly one of its fields, and encodes as an object with a single key naming the kind.
type Entry struct {
	Start    *StartEntry    `json:"start,omitempty"`
	Relative *RelativeEntry `json:"relative,omitempty"`
	Loop     *LoopEntry     `json:"loop,omitempty"`
}

// NewEntry projects a station record. Numeric text that does not parse is ErrMalformedInput.
func NewEntry(r *cavefile.Record) (*Entry, error) {
	st, err := r.Station()
	if err != nil {
		return nil, err
	}

	switch st := st.(type) {
	case *cavefile.StartStation:
		e := &StartEntry{ID: st.ID}
		if e.Latitude, err = cavefile.ParseNumber(cavefile.TagLatitude, st.Latitude); err != nil {
			return nil, err
		}
		if e.Longitude, err = cavefile.ParseNumber(cavefile.TagLongitude, st.Longitude); err != nil {
			return nil, err
		}
		if e.Depth, err = cavefile.ParseNumber(cavefile.TagDepth, st.Depth); err != nil {
			return nil, err
		}
		return &Entry{Start: e}, nil

	case *cavefile.RelativeStation:
		e := &RelativeEntry{ID: st.ID, Date: st.Date, FromID: st.FromID}
		if e.Length, err = cavefile.ParseNumber(cavefile.TagLength, st.Length); err != nil {
			return nil, err
		}
		if e.Azimuth, err = cavefile.ParseNumber(cavefile.TagAzimuth, st.Azimuth); err != nil {
			return nil, err
		}
		if e.Depth, err = cavefile.ParseNumber(cavefile.TagDepth, st.Depth); err != nil {
			return nil, err
		}
		return &Entry{Relative: e}, nil

	case *cavefile.ClosureStation:
		return &Entry{Loop: &LoopEntry{ID: st.ID, FromID: st.FromID, ToID: st.ToID}}, nil
	}

	panic(fmt.Sprintf("unexpected station type %T", st))
}

// RowWriter writes the JSON projection of a survey: an array with one entry per station. The projection cannot be
// read back.
type RowWriter struct {
	closer      io.WriteCloser
	bWr         *bufio.Writer
	indent      string
	rowsWritten int
}

var _ table.TableWriteCloser = (*RowWriter)(nil)
var _ table.TableAborter = (*RowWriter)(nil)

// OpenJSONWriter creates a writer for a JSON file at path. Nothing is visible at path until the writer is closed.
func OpenJSONWriter(fs filesys.WritableFS, path string, indent string) (*RowWriter, error) {
	wr, err := filesys.OpenAtomic(fs, path, os.ModePerm)
	if err != nil {
		return nil, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	return NewJSONWriter(wr, indent), nil
}

// NewJSONWriter returns a writer encoding entries to wr, indenting each level with indent.
func NewJSONWriter(wr io.WriteCloser, indent string) *RowWriter {
	return &RowWriter{
		closer: wr,
		bWr:    bufio.NewWriterSize(wr, WriteBufSize),
		indent: indent,
	}
}

// WriteRow writes the entry for one station.
func (j *RowWriter) WriteRow(ctx context.Context, r *cavefile.Record) error {
	if j.closer == nil {
		return errors.New("already closed")
	}

	entry, err := NewEntry(r)
	if err != nil {
		return pkgerrors.Wrapf(err, "station %d", r.ID)
	}

	data, err := json.MarshalIndent(entry, j.indent, j.indent)
	if err != nil {
		return pkgerrors.Wrapf(err, "error marshalling station %d to json", r.ID)
	}

	sep := jsonHeader
	if j.rowsWritten != 0 {
		sep = ","
	}

	if err := iohelp.WriteAll(j.bWr, []byte(sep+"\n"+j.indent)); err != nil {
		return cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	if err := iohelp.WriteAll(j.bWr, data); err != nil {
		return cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	j.rowsWritten++
	return nil
}

// Close should flush all writes, release resources being held
func (j *RowWriter) Close(ctx context.Context) error {
	if j.closer == nil {
		return errors.New("already closed")
	}

	footer := jsonFooter
	if j.rowsWritten == 0 {
		footer = jsonEmpty
	}

	err := iohelp.WriteAll(j.bWr, []byte(footer))
	if err == nil {
		err = j.bWr.Flush()
	}

	errCl := j.closer.Close()
	j.closer = nil

	if err != nil {
		return cavefile.ErrIOFailure.Wrap(err, err.Error())
	} else if errCl != nil {
		return cavefile.ErrIOFailure.Wrap(errCl, errCl.Error())
	}

	logrus.Debugf("wrote %d json entries", j.rowsWritten)
	return nil
}

// Abort discards the destination if it supports it.
func (j *RowWriter) Abort(ctx context.Context) error {
	if j.closer == nil {
		return nil
	}

	closer := j.closer
	j.closer = nil

	if ab, ok := closer.(interface{ Abort() error }); ok {
		return ab.Abort()
	}

	return closer.Close()
}
