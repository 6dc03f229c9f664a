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
	"context"
	"errors"
	"io"
	"os"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

// Writer writes station records as a cave file.
type Writer struct {
	closer io.WriteCloser
	cw     *cavefile.Writer
}

var _ table.TableWriteCloser = (*Writer)(nil)
var _ table.TableAborter = (*Writer)(nil)

// OpenWriter creates a writer for a cave file at path. Nothing is visible at path until the writer is closed.
func OpenWriter(fs filesys.WritableFS, path string, hdr cavefile.Header, opts ...cavefile.EncodeOption) (*Writer, error) {
	wr, err := filesys.OpenAtomic(fs, path, os.ModePerm)
	if err != nil {
		return nil, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	return NewWriter(wr, hdr, opts...), nil
}

// NewWriter creates a writer encoding to wr. Close closes wr.
func NewWriter(wr io.WriteCloser, hdr cavefile.Header, opts ...cavefile.EncodeOption) *Writer {
	return &Writer{wr, cavefile.NewWriter(wr, hdr, opts...)}
}

// WriteRow writes one station.
func (w *Writer) WriteRow(ctx context.Context, r *cavefile.Record) error {
	if w.closer == nil {
		return errors.New("already closed")
	}

	return w.cw.WriteRecord(r)
}

// Close finishes the document and closes the destination.
func (w *Writer) Close(ctx context.Context) error {
	if w.closer == nil {
		return errors.New("already closed")
	}

	closer := w.closer
	w.closer = nil

	if err := w.cw.Close(); err != nil {
		_ = abort(closer)
		return err
	}

	if err := closer.Close(); err != nil {
		return cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	return nil
}

// Abort discards the destination if it supports it. Otherwise the destination is closed as is.
func (w *Writer) Abort(ctx context.Context) error {
	if w.closer == nil {
		return nil
	}

	closer := w.closer
	w.closer = nil

	return abort(closer)
}

func abort(wr io.WriteCloser) error {
	if ab, ok := wr.(interface{ Abort() error }); ok {
		return ab.Abort()
	}

	return wr.Close()
}
