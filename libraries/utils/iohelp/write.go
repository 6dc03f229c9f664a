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

package iohelp

import (
	"errors"
	"io"
)

// ErrShortWrite is returned when an io.Writer accepts fewer bytes than it was given without reporting an error.
var ErrShortWrite = errors.New("short write")

// WriteAll will write every byte of data to w, retrying while the writer makes progress.
func WriteAll(w io.Writer, data []byte) error {
	dataSize := len(data)
	for written := 0; written < dataSize; {
		n, err := w.Write(data[written:])

		if err != nil {
			return err
		}

		if n == 0 {
			return ErrShortWrite
		}

		written += n
	}

	return nil
}

var newLineBuf = []byte("\n")

// WriteLine will write the given string to an io.Writer followed by a newline.
func WriteLine(w io.Writer, line string) error {
	if err := WriteAll(w, []byte(line)); err != nil {
		return err
	}

	return WriteAll(w, newLineBuf)
}

type nopWrCloser struct {
	io.Writer
}

func (nopWrCloser) Close() error {
	return nil
}

// NopWrCloser returns an io.WriteCloser whose Close does nothing. Used to hand stdout to writers that close their
// destination.
func NopWrCloser(wr io.Writer) io.WriteCloser {
	return nopWrCloser{wr}
}
