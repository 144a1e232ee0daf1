package mediastore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	store, err := NewFS(Config{BaseDir: t.TempDir(), URLPrefix: "http://localhost:8001/uploads/"})
	require.NoError(t, err)
	return store
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestFS_SaveStreamsToRandomName(t *testing.T) {
	store := newTestFS(t)
	content := bytes.Repeat([]byte("a"), ChunkSize+123)

	name, size, err := store.Save(context.Background(), bytes.NewReader(content), ".JPG")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.Equal(t, int64(len(content)), size)
	data, err := os.ReadFile(store.Path(name))
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, []string{name}, listDir(t, store.BaseDir()))
	assert.Equal(t, "http://localhost:8001/uploads/"+name, store.URL(name))
}

func TestFS_SaveNamesAreUnique(t *testing.T) {
	store := newTestFS(t)

	a, _, err := store.Save(context.Background(), strings.NewReader("x"), ".png")
	require.NoError(t, err)
	b, _, err := store.Save(context.Background(), strings.NewReader("x"), ".png")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

type failingReader struct{ after int }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("client disconnected")
	}
	n := len(p)
	if n > f.after {
		n = f.after
	}
	f.after -= n
	return n, nil
}

func TestFS_SaveDiscardsPartialFile(t *testing.T) {
	store := newTestFS(t)

	_, _, err := store.Save(context.Background(), &failingReader{after: 1024}, ".mp4")
	require.Error(t, err)

	assert.Empty(t, listDir(t, store.BaseDir()))
}

func TestFS_SaveHonoursCancelledContext(t *testing.T) {
	store := newTestFS(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.Save(ctx, strings.NewReader("data"), ".png")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, listDir(t, store.BaseDir()))
}

func TestFS_ReplaceIsAtomic(t *testing.T) {
	store := newTestFS(t)
	name, _, err := store.Save(context.Background(), strings.NewReader("original"), ".png")
	require.NoError(t, err)
	target := store.Path(name)

	err = store.Replace(target, func(w *os.File) error {
		_, err := io.WriteString(w, "half")
		if err != nil {
			return err
		}
		return errors.New("encoder failed")
	})
	require.Error(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	assert.Equal(t, []string{name}, listDir(t, store.BaseDir()))

	err = store.Replace(target, func(w *os.File) error {
		_, err := io.WriteString(w, "watermarked")
		return err
	})
	require.NoError(t, err)

	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "watermarked", string(data))
	assert.Equal(t, []string{name}, listDir(t, store.BaseDir()))
}

func TestFS_NameFromURL(t *testing.T) {
	store := newTestFS(t)

	name, ok := store.NameFromURL("http://localhost:8001/uploads/abc.png")
	assert.True(t, ok)
	assert.Equal(t, "abc.png", name)

	_, ok = store.NameFromURL("http://elsewhere.test/uploads/abc.png")
	assert.False(t, ok)

	_, ok = store.NameFromURL("http://localhost:8001/uploads/../secret")
	assert.False(t, ok)
}

func TestFS_DeleteRejectsTraversal(t *testing.T) {
	store := newTestFS(t)
	outside := filepath.Join(filepath.Dir(store.BaseDir()), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	assert.ErrorIs(t, store.Delete("../keep.txt"), ErrInvalidName)
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
