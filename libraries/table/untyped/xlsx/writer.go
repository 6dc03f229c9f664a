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

package xlsx

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

// XLSXWriter builds a workbook in memory and writes it when closed. The stations go to one sheet and the document
// header to a second sheet named after the first.
type XLSXWriter struct {
	closer      io.WriteCloser
	file        *xlsx.File
	sheet       *xlsx.Sheet
	rowsWritten int
}

var _ table.TableWriteCloser = (*XLSXWriter)(nil)
var _ table.TableAborter = (*XLSXWriter)(nil)

// OpenXLSXWriter creates a writer for a workbook at path. Nothing is visible at path until the writer is closed.
func OpenXLSXWriter(fs filesys.WritableFS, path string, sheetName string, hdr cavefile.Header) (*XLSXWriter, error) {
	wr, err := filesys.OpenAtomic(fs, path, os.ModePerm)
	if err != nil {
		return nil, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	xlsxw, err := NewXLSXWriter(wr, sheetName, hdr)
	if err != nil {
		_ = wr.Abort()
		return nil, err
	}

	return xlsxw, nil
}

// NewXLSXWriter creates a writer that writes the workbook to wr on Close.
func NewXLSXWriter(wr io.WriteCloser, sheetName string, hdr cavefile.Header) (*XLSXWriter, error) {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return nil, err
	}
	addStringRow(sheet, table.ColumnNames())

	infoSheet, err := f.AddSheet(table.InfoTableName(sheetName))
	if err != nil {
		return nil, err
	}
	addStringRow(infoSheet, table.HeaderColumnNames())

	vals := make([]string, len(table.HeaderColumns))
	for i, col := range table.HeaderColumns {
		vals[i] = col.String(&hdr)
	}
	addStringRow(infoSheet, vals)

	return &XLSXWriter{closer: wr, file: f, sheet: sheet}, nil
}

func addStringRow(sheet *xlsx.Sheet, vals []string) {
	row := sheet.AddRow()
	for _, val := range vals {
		row.AddCell().SetString(val)
	}
}

// WriteRow adds a row for r. Absent optional fields are left as empty cells.
func (xlsxw *XLSXWriter) WriteRow(ctx context.Context, r *cavefile.Record) error {
	if xlsxw.closer == nil {
		return errors.New("already closed")
	}

	row := xlsxw.sheet.AddRow()
	for _, col := range table.Columns {
		cell := row.AddCell()

		switch val := col.Value(r).(type) {
		case int64:
			cell.SetInt64(val)
		case string:
			cell.SetString(val)
		}
	}

	xlsxw.rowsWritten++
	return nil
}

// Close writes the workbook and closes the destination.
func (xlsxw *XLSXWriter) Close(ctx context.Context) error {
	if xlsxw.closer == nil {
		return errors.New("already closed")
	}

	closer := xlsxw.closer
	xlsxw.closer = nil

	if err := xlsxw.file.Write(closer); err != nil {
		if ab, ok := closer.(interface{ Abort() error }); ok {
			_ = ab.Abort()
		}
		return cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	if err := closer.Close(); err != nil {
		return cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	logrus.Debugf("wrote %d rows to sheet '%s'", xlsxw.rowsWritten, xlsxw.sheet.Name)
	return nil
}

// Abort discards the workbook without writing it.
func (xlsxw *XLSXWriter) Abort(ctx context.Context) error {
	if xlsxw.closer == nil {
		return nil
	}

	closer := xlsxw.closer
	xlsxw.closer = nil

	if ab, ok := closer.(interface{ Abort() error }); ok {
		return ab.Abort()
	}

	return closer.Close()
}
