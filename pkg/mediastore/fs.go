// Package mediastore keeps uploaded media on the local filesystem under random
// names and serves them at stable public URLs.
package mediastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ChunkSize is the copy buffer used when streaming uploads to disk.
const ChunkSize = 8 << 20

var ErrInvalidName = errors.New("invalid media name")

type Config struct {
	BaseDir   string
	URLPrefix string // e.g. http://localhost:8001/uploads
}

type FS struct {
	baseDir   string
	urlPrefix string
}

func NewFS(cfg Config) (*FS, error) {
	if cfg.BaseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &FS{
		baseDir:   cfg.BaseDir,
		urlPrefix: strings.TrimRight(cfg.URLPrefix, "/"),
	}, nil
}

func (s *FS) BaseDir() string {
	return s.baseDir
}

// Save streams r into a new file named <uuid><ext>. The bytes land in a temp
// file first and are renamed into place only after a successful fsync, so the
// public name never refers to a partial upload.
func (s *FS) Save(ctx context.Context, r io.Reader, ext string) (string, int64, error) {
	name := uuid.New().String() + strings.ToLower(ext)
	if !validName(name) {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidName, ext)
	}

	tmp, err := os.CreateTemp(s.baseDir, ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Chmod(0o644)

	// The wrappers hide ReaderFrom/WriterTo so the fixed chunk size is used.
	written, err := io.CopyBuffer(struct{ io.Writer }{tmp}, contextReader{ctx: ctx, r: r}, make([]byte, ChunkSize))
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpPath, s.Path(name))
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", 0, fmt.Errorf("failed to store upload: %w", err)
	}

	return name, written, nil
}

// Replace atomically swaps the content of an existing file. write receives a
// temp file in the same directory; the original is only replaced when write
// and the fsync both succeed.
func (s *FS) Replace(target string, write func(w *os.File) error) error {
	return ReplaceFile(target, write)
}

// ReplaceFile is the atomic write-then-rename primitive behind Replace.
func ReplaceFile(target string, write func(w *os.File) error) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".replace-*"+filepath.Ext(target))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if info, statErr := os.Stat(target); statErr == nil {
		_ = tmp.Chmod(info.Mode().Perm())
	}

	err = write(tmp)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpPath, target)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func (s *FS) Path(name string) string {
	return filepath.Join(s.baseDir, name)
}

func (s *FS) URL(name string) string {
	return s.urlPrefix + "/" + name
}

// NameFromURL returns the stored name for a URL produced by URL, or false
// when the URL does not point into this store.
func (s *FS) NameFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return "", false
	}
	name := strings.TrimPrefix(url, s.urlPrefix+"/")
	if !validName(name) {
		return "", false
	}
	return name, true
}

func (s *FS) Open(name string) (*os.File, error) {
	if !validName(name) {
		return nil, ErrInvalidName
	}
	return os.Open(s.Path(name))
}

func (s *FS) Delete(name string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return path.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
