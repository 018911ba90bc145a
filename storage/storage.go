package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrAssetNotFound is returned when no stored file exists for an id.
var ErrAssetNotFound = errors.New("asset not found")

// Kind selects the asset namespace. Its value is the directory (or object
// prefix) the assets live under.
type Kind string

const (
	KindAudio Kind = "songs"
	KindCover Kind = "covers"
)

// DefaultExt is used when the uploaded filename carries no extension.
func (k Kind) DefaultExt() string {
	if k == KindCover {
		return ".jpg"
	}
	return ".mp3"
}

// Asset is an opened stored file.
type Asset struct {
	io.ReadSeekCloser
	Name    string
	Size    int64
	ModTime time.Time
}

// AssetInfo describes a stored file without opening it.
type AssetInfo struct {
	Kind    Kind
	ID      int64
	Name    string
	Size    int64
	ModTime time.Time
}

// AssetStore persists audio and cover files keyed by record id.
type AssetStore interface {
	// Put stores data as {id}{ext} and removes any other file stored for the
	// same id. It returns the stored name.
	Put(ctx context.Context, kind Kind, id int64, filename string, data []byte) (string, error)
	// Open returns the stored file for id, or ErrAssetNotFound.
	Open(ctx context.Context, kind Kind, id int64) (*Asset, error)
	// Delete removes every file stored for id. Absence is not an error.
	Delete(ctx context.Context, kind Kind, id int64) error
	List(ctx context.Context, kind Kind) ([]AssetInfo, error)
}

// Ext returns the lower-cased extension of filename, or the kind default.
func Ext(kind Kind, filename string) string {
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "." || ext == "" || ext == strings.ToLower(base) {
		return kind.DefaultExt()
	}
	return ext
}

// parseName splits a stored name "{id}{ext}". ok is false for names that do
// not belong to the store (staging files, stray uploads).
func parseName(name string) (id int64, ext string, ok bool) {
	ext = filepath.Ext(name)
	if ext == "" {
		return 0, "", false
	}
	id, err := strconv.ParseInt(strings.TrimSuffix(name, ext), 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	return id, ext, true
}

// ResolveRoot picks the local asset root: the override when set, then
// "media" under the working directory, then backend_media in the system
// temp dir. The first directory that can be created wins.
func ResolveRoot(override string) (string, error) {
	candidates := []string{}
	if override != "" {
		candidates = append(candidates, override)
	}
	candidates = append(candidates, "media", filepath.Join(os.TempDir(), "backend_media"))

	var lastErr error
	for _, dir := range candidates {
		if err := ensureLayout(dir); err != nil {
			lastErr = err
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return dir, nil
		}
		return abs, nil
	}
	return "", lastErr
}

func ensureLayout(root string) error {
	for _, kind := range []Kind{KindAudio, KindCover} {
		if err := os.MkdirAll(filepath.Join(root, string(kind)), 0755); err != nil {
			return err
		}
	}
	return nil
}
