package table

import (
	"context"
	"errors"
	"io"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
)

// TableReader is an interface for reading station records from a source
type TableReader interface {
	// GetHeader returns the document header of the source. Sources that do not store one return cavefile.NewHeader().
	GetHeader() cavefile.Header

	// ReadRow reads a record. It returns io.EOF after the last record. If there is a bad row the returned error will
	// be non nil, and calling IsBadRow(err) will return true. This is a potentially non-fatal error and callers can
	// decide if they want to continue on a bad row, or fail.
	ReadRow(ctx context.Context) (*cavefile.Record, error)
}

// TableWriter is an interface for writing station records to a destination
type TableWriter interface {
	// WriteRow will write a record
	WriteRow(ctx context.Context, r *cavefile.Record) error
}

// TableCloser is an interface for a table stream that can be closed to release resources
type TableCloser interface {
	// Close should release resources being held. For writers, Close completes the destination.
	Close(ctx context.Context) error
}

// TableAborter is implemented by writers that can discard everything written so far. After Abort the destination
// is left as it was before the writer was created.
type TableAborter interface {
	Abort(ctx context.Context) error
}

// TableReadCloser is an interface for reading rows from a source, that can be closed.
type TableReadCloser interface {
	TableReader
	TableCloser
}

// TableWriteCloser is an interface for writing rows to a destination, that can be closed
type TableWriteCloser interface {
	TableWriter
	TableCloser
}

// AbortOrClose aborts wr if it supports it, and closes it otherwise.
func AbortOrClose(ctx context.Context, wr TableWriteCloser) error {
	if ab, ok := wr.(TableAborter); ok {
		return ab.Abort(ctx)
	}

	return wr.Close(ctx)
}

// PipeRows will read a row from given TableReader and write it to the provided TableWriter.  It will do this
// for every row until the TableReader's ReadRow method returns io.EOF or encounters an error in either reading
// or writing.  Bad rows are skipped and counted when contOnBadRow is true.
func PipeRows(ctx context.Context, rd TableReader, wr TableWriter, contOnBadRow bool) (int, int, error) {
	var numBad, numGood int
	for {
		if err := ctx.Err(); err != nil {
			return -1, -1, err
		}

		r, err := rd.ReadRow(ctx)

		if err != nil && err != io.EOF {
			if IsBadRow(err) && contOnBadRow {
				numBad++
				continue
			}

			return -1, -1, err
		} else if err == io.EOF && r == nil {
			break
		} else if r == nil {
			return -1, -1, errors.New("reader returned nil row with err==nil")
		}

		err = wr.WriteRow(ctx, r)

		if err != nil {
			return -1, -1, err
		}

		numGood++
	}

	return numGood, numBad, nil
}

// ReadAllRows reads all rows from a TableReader and returns a slice containing those rows.
func ReadAllRows(ctx context.Context, rd TableReader, contOnBadRow bool) ([]cavefile.Record, int, error) {
	var rows []cavefile.Record
	var err error

	badRowCount := 0
	for {
		var r *cavefile.Record
		r, err = rd.ReadRow(ctx)

		if err != nil && err != io.EOF || r == nil {
			if IsBadRow(err) {
				badRowCount++

				if contOnBadRow {
					continue
				}
			}

			break
		}

		rows = append(rows, *r)
	}

	if err == nil || err == io.EOF {
		return rows, badRowCount, nil
	}

	return nil, badRowCount, err
}

// ReadCaveFile reads every row of rd into a document carrying rd's header.
func ReadCaveFile(ctx context.Context, rd TableReader) (*cavefile.CaveFile, error) {
	rows, _, err := ReadAllRows(ctx, rd, false)
	if err != nil {
		return nil, err
	}

	return &cavefile.CaveFile{Info: rd.GetHeader(), Data: rows}, nil
}
