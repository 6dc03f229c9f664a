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

package table

import (
	"context"
	"io"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
)

// InMemTable holds a document's header and records in memory. Decoded cave files are read through it.
type InMemTable struct {
	hdr  cavefile.Header
	rows []cavefile.Record
}

// NewInMemTable creates an empty table with the given header
func NewInMemTable(hdr cavefile.Header) *InMemTable {
	return &InMemTable{hdr: hdr}
}

// NewInMemTableFromCaveFile creates a table holding the records of cf. The records are not copied.
func NewInMemTableFromCaveFile(cf *cavefile.CaveFile) *InMemTable {
	return &InMemTable{hdr: cf.Info, rows: cf.Data}
}

// AppendRow appends a row.
func (imt *InMemTable) AppendRow(r cavefile.Record) {
	imt.rows = append(imt.rows, r)
}

// GetRow gets a row by index
func (imt *InMemTable) GetRow(index int) *cavefile.Record {
	return &imt.rows[index]
}

// NumRows returns the number of rows in the table
func (imt *InMemTable) NumRows() int {
	return len(imt.rows)
}

// GetHeader returns the table's header
func (imt *InMemTable) GetHeader() cavefile.Header {
	return imt.hdr
}

// CaveFile returns the table's contents as a document.
func (imt *InMemTable) CaveFile() *cavefile.CaveFile {
	return &cavefile.CaveFile{Info: imt.hdr, Data: imt.rows}
}

// InMemTableReader is an implementation of a TableReader for an InMemTable
type InMemTableReader struct {
	tt      *InMemTable
	current int
}

var _ TableReadCloser = (*InMemTableReader)(nil)

// NewInMemTableReader creates an instance of a TableReader from an InMemTable
func NewInMemTableReader(imt *InMemTable) *InMemTableReader {
	return &InMemTableReader{imt, 0}
}

// GetHeader returns the header of the table being read
func (rd *InMemTableReader) GetHeader() cavefile.Header {
	return rd.tt.hdr
}

// ReadRow reads a row from a table.
func (rd *InMemTableReader) ReadRow(ctx context.Context) (*cavefile.Record, error) {
	if rd.current >= 0 && rd.current < rd.tt.NumRows() {
		r := rd.tt.rows[rd.current]
		rd.current++

		return &r, nil
	}

	return nil, io.EOF
}

// Close should release resources being held
func (rd *InMemTableReader) Close(ctx context.Context) error {
	rd.current = -1
	return nil
}

// InMemTableWriter appends rows to an InMemTable
type InMemTableWriter struct {
	tt *InMemTable
}

var _ TableWriteCloser = (*InMemTableWriter)(nil)

// NewInMemTableWriter creates a writer appending to imt
func NewInMemTableWriter(imt *InMemTable) *InMemTableWriter {
	return &InMemTableWriter{imt}
}

// WriteRow appends a copy of r
func (w *InMemTableWriter) WriteRow(ctx context.Context, r *cavefile.Record) error {
	w.tt.AppendRow(*r)
	return nil
}

// Close is a no-op
func (w *InMemTableWriter) Close(ctx context.Context) error {
	return nil
}
