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

package filesys

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var ErrAtomicWriterDone = errors.New("atomic writer already closed or aborted")

// AtomicWriter writes to a temporary sibling of its destination. Close moves the temporary file into place and
// Abort deletes it, so the destination holds either its previous contents or the complete new file.
type AtomicWriter struct {
	fs      WritableFS
	dest    string
	tmpPath string
	wr      io.WriteCloser
	done    bool
}

var _ io.WriteCloser = (*AtomicWriter)(nil)

// OpenAtomic creates an AtomicWriter for dest.
func OpenAtomic(fs WritableFS, dest string, perm os.FileMode) (*AtomicWriter, error) {
	dir, base := filepath.Split(dest)
	tmpPath := filepath.Join(dir, "."+base+"."+uuid.New().String()+".tmp")

	wr, err := fs.OpenForWrite(tmpPath, perm)
	if err != nil {
		return nil, err
	}

	return &AtomicWriter{fs: fs, dest: dest, tmpPath: tmpPath, wr: wr}, nil
}

// TempPath returns the path being written until the writer is closed.
func (aw *AtomicWriter) TempPath() string {
	return aw.tmpPath
}

func (aw *AtomicWriter) Write(p []byte) (int, error) {
	if aw.done {
		return 0, ErrAtomicWriterDone
	}

	return aw.wr.Write(p)
}

// Close commits the written data to the destination.
func (aw *AtomicWriter) Close() error {
	if aw.done {
		return ErrAtomicWriterDone
	}
	aw.done = true

	if err := aw.wr.Close(); err != nil {
		_ = aw.fs.DeleteFile(aw.tmpPath)
		return err
	}

	if err := aw.fs.MoveFile(aw.tmpPath, aw.dest); err != nil {
		_ = aw.fs.DeleteFile(aw.tmpPath)
		return err
	}

	return nil
}

// Abort discards the written data, leaving the destination untouched.
func (aw *AtomicWriter) Abort() error {
	if aw.done {
		return nil
	}
	aw.done = true

	closeErr := aw.wr.Close()
	err := aw.fs.DeleteFile(aw.tmpPath)

	if err == nil || errors.Is(err, os.ErrNotExist) {
		return closeErr
	}

	return err
}
