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
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

// XLSXReader reads station records from one sheet of a workbook. The first row of the sheet names the columns.
// Columns are matched by name; missing columns keep their defaults and unknown columns are ignored.
type XLSXReader struct {
	hdr    cavefile.Header
	cols   []*table.Column
	rows   []*xlsx.Row
	ind    int
	closed bool
}

var _ table.TableReadCloser = (*XLSXReader)(nil)

// OpenXLSXReader reads the workbook at path.
func OpenXLSXReader(fs filesys.ReadableFS, path string, sheetName string) (*XLSXReader, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	return NewXLSXReader(data, sheetName)
}

// NewXLSXReader reads a workbook held in memory.
func NewXLSXReader(data []byte, sheetName string) (*XLSXReader, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, cavefile.ErrMalformedInput.Wrap(err, err.Error())
	}

	sheet, ok := f.Sheet[sheetName]
	if !ok {
		return nil, cavefile.ErrMalformedInput.New(fmt.Sprintf("workbook has no sheet named '%s'", sheetName))
	}

	hdr := cavefile.NewHeader()
	if infoSheet, ok := f.Sheet[table.InfoTableName(sheetName)]; ok {
		hdr = readHeader(infoSheet)
	}

	if len(sheet.Rows) == 0 {
		return &XLSXReader{hdr: hdr}, nil
	}

	colHeaders := cellStrings(sheet.Rows[0])
	cols := make([]*table.Column, len(colHeaders))
	for i, name := range colHeaders {
		for j := range table.Columns {
			if strings.EqualFold(table.Columns[j].Name, strings.TrimSpace(name)) {
				cols[i] = &table.Columns[j]
				break
			}
		}

		if cols[i] == nil && name != "" {
			logrus.Debugf("ignoring unknown column '%s' in sheet '%s'", name, sheetName)
		}
	}

	return &XLSXReader{hdr: hdr, cols: cols, rows: sheet.Rows[1:]}, nil
}

func cellStrings(row *xlsx.Row) []string {
	strs := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		strs[i] = cell.Value
	}

	return strs
}

func readHeader(sheet *xlsx.Sheet) cavefile.Header {
	hdr := cavefile.NewHeader()
	if len(sheet.Rows) < 2 {
		return hdr
	}

	names := cellStrings(sheet.Rows[0])
	vals := cellStrings(sheet.Rows[1])
	for i, name := range names {
		if i >= len(vals) {
			break
		}

		for _, col := range table.HeaderColumns {
			if col.Name == name {
				col.SetString(&hdr, vals[i])
			}
		}
	}

	return hdr
}

// GetHeader returns the header stored in the workbook's info sheet, or the default header.
func (xlsxr *XLSXReader) GetHeader() cavefile.Header {
	return xlsxr.hdr
}

// ReadRow reads the next row. A row whose integer cells do not parse is returned as a table.BadRow.
func (xlsxr *XLSXReader) ReadRow(ctx context.Context) (*cavefile.Record, error) {
	if xlsxr.closed {
		return nil, errors.New("already closed")
	}

	for xlsxr.ind < len(xlsxr.rows) {
		vals := cellStrings(xlsxr.rows[xlsxr.ind])
		xlsxr.ind++

		if isBlank(vals) {
			continue
		}

		r := cavefile.NewDefaultRecord()
		var details []string
		for i, val := range vals {
			if i >= len(xlsxr.cols) || xlsxr.cols[i] == nil {
				continue
			}

			if err := xlsxr.cols[i].SetString(&r, val); err != nil {
				details = append(details, err.Error())
			}
		}

		if len(details) > 0 {
			// row 1 holds the column names
			return nil, table.NewBadRow(&r, xlsxr.ind+1, details...)
		}

		return &r, nil
	}

	return nil, io.EOF
}

func isBlank(vals []string) bool {
	for _, val := range vals {
		if val != "" {
			return false
		}
	}

	return true
}

// Close should release resources being held
func (xlsxr *XLSXReader) Close(ctx context.Context) error {
	if xlsxr.closed {
		return errors.New("already closed")
	}

	xlsxr.closed = true
	xlsxr.rows = nil

	return nil
}
