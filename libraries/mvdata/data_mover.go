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

package mvdata

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

type DataMover struct {
	Rd        table.TableReadCloser
	Wr        table.TableWriteCloser
	ContOnErr bool
}

type DataMoverCreationErrType string

const (
	CreateReaderErr DataMoverCreationErrType = "Create reader error"
	CreateWriterErr DataMoverCreationErrType = "Create writer error"
	SameLocationErr DataMoverCreationErrType = "Location error"
)

type DataMoverCreationError struct {
	ErrType DataMoverCreationErrType
	Cause   error
}

func (dmce *DataMoverCreationError) String() string {
	return string(dmce.ErrType) + ": " + dmce.Cause.Error()
}

func (dmce *DataMoverCreationError) Error() string {
	return dmce.String()
}

func (dmce *DataMoverCreationError) Unwrap() error {
	return dmce.Cause
}

// sameLocation reports whether src and dest name the same file or database. File paths are compared after resolving
// them against fs, whatever their formats.
func sameLocation(fs filesys.ReadableFS, src, dest DataLocation) bool {
	if !src.IsFileType() || !dest.IsFileType() {
		return src == dest
	}

	srcPath, err := fs.Abs(src.Path)
	if err != nil {
		return src.Path == dest.Path
	}

	destPath, err := fs.Abs(dest.Path)
	if err != nil {
		return src.Path == dest.Path
	}

	return srcPath == destPath
}

// NewDataMover opens a reader for src and a writer for dest. The writer is given the header read from src.
func NewDataMover(ctx context.Context, fs filesys.ReadWriteFS, src, dest DataLocation, opts *MoveOptions) (*DataMover, *DataMoverCreationError) {
	opts = opts.orDefault()

	if sameLocation(fs, src, dest) {
		return nil, &DataMoverCreationError{SameLocationErr, fmt.Errorf("%s is both the source and the destination", src)}
	}

	if !src.Format.CanRead() {
		return nil, &DataMoverCreationError{CreateReaderErr, fmt.Errorf("%s: %w", src, ErrUnsupportedSource)}
	}

	if !dest.Format.CanWrite() {
		return nil, &DataMoverCreationError{CreateWriterErr, fmt.Errorf("%s: %w", dest, ErrUnsupportedDest)}
	}

	rd, err := src.NewReader(ctx, fs, opts)
	if err != nil {
		return nil, &DataMoverCreationError{CreateReaderErr, err}
	}

	wr, err := dest.NewWriter(ctx, fs, rd.GetHeader(), opts)
	if err != nil {
		rd.Close(ctx)
		return nil, &DataMoverCreationError{CreateWriterErr, err}
	}

	return &DataMover{rd, wr, opts.ContOnErr}, nil
}

// Move is the method that moves every row from the mover's reader to its writer. The writer is closed when all rows
// were moved and aborted otherwise. It returns the number of rows moved and the number of bad rows skipped.
func (imp *DataMover) Move(ctx context.Context) (goodRowCount, badRowCount int, err error) {
	defer imp.Rd.Close(ctx)

	goodRowCount, badRowCount, err = table.PipeRows(ctx, imp.Rd, imp.Wr, imp.ContOnErr)
	if err != nil {
		if abortErr := table.AbortOrClose(ctx, imp.Wr); abortErr != nil {
			logrus.Errorf("discarding partial output: %v", abortErr)
		}

		return 0, 0, err
	}

	if err = imp.Wr.Close(ctx); err != nil {
		return 0, 0, err
	}

	logrus.Debugf("moved %s rows, skipped %s", humanize.Comma(int64(goodRowCount)), humanize.Comma(int64(badRowCount)))
	return goodRowCount, badRowCount, nil
}
