package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const (
	// DefaultMaxFileSize guards against a broken pak pointing the loader
	// at something huge. Illustrations stay well under this.
	DefaultMaxFileSize = 64 * 1024 * 1024 // 64MByte
)

// OSFileSystem is an adaptation of os.Open/os.Create with the Loader
// interface, rooted at BaseDir. Empty BaseDir means the process working
// directory.
type OSFileSystem struct {
	BaseDir     string
	MaxFileSize int64 // in bytes. 0 means unlimited.
}

func (osfs *OSFileSystem) ResolvePath(fpath string) (string, error) {
	if osfs.BaseDir == "" {
		return filepath.Clean(fpath), nil
	}
	return filepath.Join(osfs.BaseDir, fpath), nil
}

func (osfs *OSFileSystem) Load(fpath string) (io.ReadCloser, error) {
	p, err := osfs.ResolvePath(fpath)
	if err != nil {
		return nil, err
	}
	finfo, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("can not fetch file info: %w", err)
	}
	if maxSize := osfs.MaxFileSize; maxSize > 0 && finfo.Size() > maxSize {
		return nil, fmt.Errorf("file(%s) is too large size(>%v) to load", fpath, maxSize)
	}
	return os.Open(p)
}

func (osfs *OSFileSystem) Exist(fpath string) bool {
	p, err := osfs.ResolvePath(fpath)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

func (osfs *OSFileSystem) Store(fpath string) (io.WriteCloser, error) {
	p, err := osfs.ResolvePath(fpath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return nil, fmt.Errorf("can not create store directory: %w", err)
	}
	fp, err := os.Create(p)
	if err != nil {
		return nil, fmt.Errorf("can not create store file: %w", err)
	}
	return fp, nil
}

// Remove deletes the file. Missing file is no-op.
func (osfs *OSFileSystem) Remove(fpath string) error {
	p, err := osfs.ResolvePath(fpath)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("can not remove file: %w", err)
	}
	return nil
}

// MemFileSystem keeps stored entries on memory. For tests.
type MemFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{files: map[string][]byte{}}
}

func (m *MemFileSystem) Put(fpath string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.ToSlash(fpath)] = content
}

func (m *MemFileSystem) Load(fpath string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[filepath.ToSlash(fpath)]
	if !ok {
		return nil, fmt.Errorf("mem filesystem: %s: %w", fpath, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (m *MemFileSystem) Exist(fpath string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[filepath.ToSlash(fpath)]
	return ok
}

func (m *MemFileSystem) Store(fpath string) (io.WriteCloser, error) {
	return &memWriter{fs: m, path: filepath.ToSlash(fpath)}, nil
}

// List returns stored paths in sorted order.
func (m *MemFileSystem) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Remove deletes a stored entry. Missing entry is no-op.
func (m *MemFileSystem) Remove(fpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, filepath.ToSlash(fpath))
	return nil
}

type memWriter struct {
	fs   *MemFileSystem
	path string
	buf  bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *memWriter) Close() error {
	w.fs.Put(w.path, w.buf.Bytes())
	return nil
}
