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
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/cavesurvey/tmlu/libraries/utils/iohelp"
)

const inMemRoot = "/"

// InMemFS is an in memory filesystem used by tests and by callers that convert surveys without touching disk. Paths
// are slash separated regardless of platform, and relative paths resolve against the working directory.
type InMemFS struct {
	mu    *sync.RWMutex
	cwd   string
	dirs  map[string]bool
	files map[string][]byte
}

var _ ReadWriteFS = (*InMemFS)(nil)

// EmptyInMemFS creates an InMemFS holding only the root directory.
func EmptyInMemFS(workingDir string) *InMemFS {
	return NewInMemFS(nil, nil, workingDir)
}

// NewInMemFS creates an InMemFS holding dirs and files. Parent directories are created as needed. It panics when cwd
// is relative or when a file and a directory share a path.
func NewInMemFS(dirs []string, files map[string][]byte, cwd string) *InMemFS {
	if cwd == "" {
		cwd = inMemRoot
	}

	if !path.IsAbs(cwd) {
		panic("cwd for InMemFS must be an absolute path")
	}

	fs := &InMemFS{
		mu:    &sync.RWMutex{},
		cwd:   path.Clean(cwd),
		dirs:  map[string]bool{inMemRoot: true},
		files: map[string][]byte{},
	}

	for _, dir := range dirs {
		if err := fs.mkDirs(fs.abs(dir)); err != nil {
			panic(err)
		}
	}

	for fp, data := range files {
		fp = fs.abs(fp)
		if err := fs.mkDirs(path.Dir(fp)); err != nil {
			panic(err)
		}

		fs.files[fp] = data
	}

	return fs
}

func (fs *InMemFS) abs(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}

	return path.Join(fs.cwd, p)
}

func (fs *InMemFS) mkDirs(dir string) error {
	for p := dir; !fs.dirs[p]; p = path.Dir(p) {
		if _, ok := fs.files[p]; ok {
			return fmt.Errorf("cannot create directory %s: %w", dir, ErrIsFile)
		}
	}

	for p := dir; !fs.dirs[p]; p = path.Dir(p) {
		fs.dirs[p] = true
	}

	return nil
}

// Exists will tell you if a file or directory with a given path already exists, and if it does is it a directory
func (fs *InMemFS) Exists(p string) (exists bool, isDir bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.exists(fs.abs(p))
}

func (fs *InMemFS) exists(p string) (exists bool, isDir bool) {
	if fs.dirs[p] {
		return true, true
	}

	_, ok := fs.files[p]
	return ok, false
}

// OpenForRead opens a file for reading. Later writes to the file are not seen by the reader.
func (fs *InMemFS) OpenForRead(fp string) (io.ReadCloser, error) {
	data, err := fs.ReadFile(fp)
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// ReadFile reads the entire contents of a file
func (fs *InMemFS) ReadFile(fp string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	fp = fs.abs(fp)
	if fs.dirs[fp] {
		return nil, ErrIsDir
	}

	data, ok := fs.files[fp]
	if !ok {
		return nil, os.ErrNotExist
	}

	return data, nil
}

// inMemFile buffers writes and publishes them on Close.
type inMemFile struct {
	fs   *InMemFS
	path string
	buf  bytes.Buffer
}

func (f *inMemFile) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

func (f *inMemFile) Close() error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	if err := f.fs.mkDirs(path.Dir(f.path)); err != nil {
		return err
	}

	f.fs.files[f.path] = f.buf.Bytes()
	return nil
}

// OpenForWrite opens a file for writing, replacing any file already at fp. Nothing is visible at fp until the writer
// is closed.
func (fs *InMemFS) OpenForWrite(fp string, perm os.FileMode) (io.WriteCloser, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fp = fs.abs(fp)
	if fs.dirs[fp] {
		return nil, ErrIsDir
	}

	if err := fs.mkDirs(path.Dir(fp)); err != nil {
		return nil, err
	}

	return &inMemFile{fs: fs, path: fp}, nil
}

// WriteFile writes the entire data buffer to a given file.  The file will be created if it does not exist,
// and if it does exist it will be overwritten.
func (fs *InMemFS) WriteFile(fp string, data []byte, perm os.FileMode) error {
	wr, err := fs.OpenForWrite(fp, perm)
	if err != nil {
		return err
	}

	if err := iohelp.WriteAll(wr, data); err != nil {
		return err
	}

	return wr.Close()
}

// MkDirs creates a folder and all the parent folders that are necessary to create it.
func (fs *InMemFS) MkDirs(p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.mkDirs(fs.abs(p))
}

// DeleteFile will delete a file at the given path
func (fs *InMemFS) DeleteFile(fp string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fp = fs.abs(fp)
	if fs.dirs[fp] {
		return ErrIsDir
	}

	if _, ok := fs.files[fp]; !ok {
		return os.ErrNotExist
	}

	delete(fs.files, fp)
	return nil
}

// MoveFile moves the file at srcPath to destPath, replacing any file already there.
func (fs *InMemFS) MoveFile(srcPath, destPath string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	srcPath, destPath = fs.abs(srcPath), fs.abs(destPath)
	if fs.dirs[srcPath] || fs.dirs[destPath] {
		return ErrIsDir
	}

	data, ok := fs.files[srcPath]
	if !ok {
		return os.ErrNotExist
	}

	if err := fs.mkDirs(path.Dir(destPath)); err != nil {
		return err
	}

	delete(fs.files, srcPath)
	fs.files[destPath] = data

	return nil
}

// Abs resolves path against the working directory. Absolute paths are only cleaned.
func (fs *InMemFS) Abs(p string) (string, error) {
	return fs.abs(p), nil
}

// Paths returns the paths of every file, sorted.
func (fs *InMemFS) Paths() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	paths := make([]string, 0, len(fs.files))
	for p := range fs.files {
		paths = append(paths, p)
	}

	sort.Strings(paths)
	return paths
}

