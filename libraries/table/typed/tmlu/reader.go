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

package tmlu

import (
	"bufio"
	"context"
	"errors"
	"io"

	pkgerrors "github.com/pkg/errors"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

var ReadBufSize = 256 * 1024

// Reader reads the stations of a cave file. The whole document is decoded when the reader is opened.
type Reader struct {
	rd *table.InMemTableReader
	cf *cavefile.CaveFile
}

var _ table.TableReadCloser = (*Reader)(nil)

// OpenReader decodes the cave file at path.
func OpenReader(fs filesys.ReadableFS, path string) (*Reader, error) {
	r, err := fs.OpenForRead(path)
	if err != nil {
		return nil, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	rd, err := NewReader(r)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "reading '%s'", path)
	}

	return rd, nil
}

// NewReader decodes a cave file from r and closes it.
func NewReader(r io.ReadCloser) (rd *Reader, err error) {
	defer func() {
		closeErr := r.Close()
		if err == nil && closeErr != nil {
			rd, err = nil, cavefile.ErrIOFailure.Wrap(closeErr, closeErr.Error())
		}
	}()

	cf, err := cavefile.Decode(bufio.NewReaderSize(r, ReadBufSize))
	if err != nil {
		return nil, err
	}

	return &Reader{table.NewInMemTableReader(table.NewInMemTableFromCaveFile(cf)), cf}, nil
}

// CaveFile returns the decoded document.
func (tr *Reader) CaveFile() *cavefile.CaveFile {
	return tr.cf
}

// GetHeader returns the document header.
func (tr *Reader) GetHeader() cavefile.Header {
	return tr.rd.GetHeader()
}

// ReadRow returns the next station record, or io.EOF.
func (tr *Reader) ReadRow(ctx context.Context) (*cavefile.Record, error) {
	if tr.cf == nil {
		return nil, errors.New("already closed")
	}

	return tr.rd.ReadRow(ctx)
}

// Close releases the decoded document.
func (tr *Reader) Close(ctx context.Context) error {
	if tr.cf == nil {
		return errors.New("already closed")
	}

	tr.cf = nil
	return tr.rd.Close(ctx)
}
