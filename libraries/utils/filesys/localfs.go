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
	"io"
	"os"
	"path/filepath"
)

// LocalFS reads and writes the machine's filesystem. Relative paths resolve against the process working directory.
var LocalFS = &localFS{}

type localFS struct{}

var _ ReadWriteFS = (*localFS)(nil)

func (fs *localFS) Exists(p string) (exists bool, isDir bool) {
	stat, err := os.Stat(p)
	if err != nil {
		return false, false
	}

	return true, stat.IsDir()
}

func (fs *localFS) OpenForRead(fp string) (io.ReadCloser, error) {
	if _, isDir := fs.Exists(fp); isDir {
		return nil, ErrIsDir
	}

	return os.Open(fp)
}

func (fs *localFS) ReadFile(fp string) ([]byte, error) {
	if _, isDir := fs.Exists(fp); isDir {
		return nil, ErrIsDir
	}

	return os.ReadFile(fp)
}

// OpenForWrite truncates or creates fp, creating its parent directories like InMemFS does. Unlike InMemFS, written
// data is visible before Close; use OpenAtomic when it must not be.
func (fs *localFS) OpenForWrite(fp string, perm os.FileMode) (io.WriteCloser, error) {
	if _, isDir := fs.Exists(fp); isDir {
		return nil, ErrIsDir
	}

	if err := os.MkdirAll(filepath.Dir(fp), os.ModePerm); err != nil {
		return nil, err
	}

	return os.OpenFile(fp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
}

func (fs *localFS) WriteFile(fp string, data []byte, perm os.FileMode) error {
	wr, err := fs.OpenForWrite(fp, perm)
	if err != nil {
		return err
	}

	_, err = wr.Write(data)
	if closeErr := wr.Close(); err == nil {
		err = closeErr
	}

	return err
}

func (fs *localFS) MkDirs(p string) error {
	return os.MkdirAll(p, os.ModePerm)
}

func (fs *localFS) DeleteFile(fp string) error {
	if _, isDir := fs.Exists(fp); isDir {
		return ErrIsDir
	}

	return os.Remove(fp)
}

// MoveFile renames srcPath to destPath, replacing any file already there. Both must be on the same device.
func (fs *localFS) MoveFile(srcPath, destPath string) error {
	if _, isDir := fs.Exists(destPath); isDir {
		return ErrIsDir
	}

	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return err
	}

	return os.Rename(srcPath, destPath)
}

func (fs *localFS) Abs(p string) (string, error) {
	return filepath.Abs(p)
}
