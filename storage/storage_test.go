package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestExt(t *testing.T) {
	tests := []struct {
		kind     Kind
		filename string
		want     string
	}{
		{KindAudio, "song.MP3", ".mp3"},
		{KindAudio, "song.flac", ".flac"},
		{KindAudio, "song", ".mp3"},
		{KindAudio, "", ".mp3"},
		{KindAudio, ".mp3", ".mp3"},
		{KindAudio, "archive.tar.OGG", ".ogg"},
		{KindCover, "cover.PNG", ".png"},
		{KindCover, "cover", ".jpg"},
		{KindCover, "dir.d/cover", ".jpg"},
	}

	for _, tt := range tests {
		if got := Ext(tt.kind, tt.filename); got != tt.want {
			t.Errorf("Ext(%s, %q): expected %q, got %q", tt.kind, tt.filename, tt.want, got)
		}
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name   string
		wantID int64
		wantOK bool
	}{
		{"12.mp3", 12, true},
		{"7.jpg", 7, true},
		{".upload-abc", 0, false},
		{"abc.mp3", 0, false},
		{"12", 0, false},
		{"0.mp3", 0, false},
	}

	for _, tt := range tests {
		id, _, ok := parseName(tt.name)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("parseName(%q): expected (%d, %v), got (%d, %v)", tt.name, tt.wantID, tt.wantOK, id, ok)
		}
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("3.mp3"); got != "audio/mpeg" {
		t.Errorf("expected audio/mpeg, got %q", got)
	}
	if got := ContentType("3.jpg"); got != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", got)
	}
	if got := ContentType("3.unknownext"); got != "application/octet-stream" {
		t.Errorf("expected octet-stream fallback, got %q", got)
	}
}

func TestResolveRoot(t *testing.T) {
	override := filepath.Join(t.TempDir(), "media")

	root, err := ResolveRoot(override)
	if err != nil {
		t.Fatalf("ResolveRoot: %v", err)
	}
	if root != override {
		t.Errorf("expected override %s, got %s", override, root)
	}
	for _, kind := range []Kind{KindAudio, KindCover} {
		if fi, err := os.Stat(filepath.Join(root, string(kind))); err != nil || !fi.IsDir() {
			t.Errorf("expected %s directory to exist", kind)
		}
	}
}

func readAll(t *testing.T, a *Asset) string {
	t.Helper()
	defer a.Close()
	b, err := io.ReadAll(a)
	if err != nil {
		t.Fatalf("read asset: %v", err)
	}
	return string(b)
}

func TestLocalStorePutOpen(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	name, err := s.Put(ctx, KindAudio, 1, "track.MP3", []byte("first"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if name != "1.mp3" {
		t.Errorf("expected stored name 1.mp3, got %s", name)
	}

	a, err := s.Open(ctx, KindAudio, 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.Name != "1.mp3" || a.Size != 5 {
		t.Errorf("unexpected asset: name=%s size=%d", a.Name, a.Size)
	}
	if got := readAll(t, a); got != "first" {
		t.Errorf("expected content %q, got %q", "first", got)
	}

	// Same id, other kind, is independent.
	if _, err := s.Open(ctx, KindCover, 1); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound for cover, got %v", err)
	}
	// Id 11 must not match a glob for id 1.
	if _, err := s.Put(ctx, KindAudio, 11, "x.ogg", []byte("eleven")); err != nil {
		t.Fatal(err)
	}
	a, _ = s.Open(ctx, KindAudio, 1)
	if got := readAll(t, a); got != "first" {
		t.Errorf("id 1 resolved to the wrong file: %q", got)
	}
}

func TestLocalStoreLatestUploadWins(t *testing.T) {
	ctx := context.Background()
	s, _ := NewLocalStore(t.TempDir())

	_, _ = s.Put(ctx, KindAudio, 3, "a.wav", []byte("old"))
	_, _ = s.Put(ctx, KindAudio, 3, "a.flac", []byte("new"))

	a, err := s.Open(ctx, KindAudio, 3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.Name != "3.flac" {
		t.Errorf("expected 3.flac, got %s", a.Name)
	}
	if got := readAll(t, a); got != "new" {
		t.Errorf("expected latest content, got %q", got)
	}

	assets, _ := s.List(ctx, KindAudio)
	if len(assets) != 1 {
		t.Errorf("expected a single stored file for id 3, got %+v", assets)
	}
}

func TestLocalStoreOpenTieBreak(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, _ := NewLocalStore(root)

	// Files dropped in by hand bypass Put's sibling cleanup.
	dir := filepath.Join(root, string(KindAudio))
	_ = os.WriteFile(filepath.Join(dir, "5.wav"), []byte("wav"), 0644)
	_ = os.WriteFile(filepath.Join(dir, "5.flac"), []byte("flac"), 0644)

	a, err := s.Open(ctx, KindAudio, 5)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.Name != "5.flac" {
		t.Errorf("expected lexicographically smallest name 5.flac, got %s", a.Name)
	}
	a.Close()
}

func TestLocalStoreDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, _ := NewLocalStore(root)

	_, _ = s.Put(ctx, KindCover, 9, "c.png", []byte("png"))
	_ = os.WriteFile(filepath.Join(root, string(KindCover), "9.jpg"), []byte("jpg"), 0644)

	if err := s.Delete(ctx, KindCover, 9); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Open(ctx, KindCover, 9); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, KindCover, 9); err != nil {
		t.Errorf("deleting nothing must succeed, got %v", err)
	}
}

func TestLocalStoreList(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, _ := NewLocalStore(root)

	_, _ = s.Put(ctx, KindAudio, 10, "a.mp3", []byte("x"))
	_, _ = s.Put(ctx, KindAudio, 2, "b.ogg", []byte("yy"))
	_ = os.WriteFile(filepath.Join(root, string(KindAudio), "notes.txt"), []byte("z"), 0644)

	assets, err := s.List(ctx, KindAudio)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %+v", assets)
	}
	if assets[0].ID != 2 || assets[0].Name != "2.ogg" || assets[0].Size != 2 {
		t.Errorf("unexpected first asset: %+v", assets[0])
	}
	if assets[1].ID != 10 || assets[1].Kind != KindAudio {
		t.Errorf("unexpected second asset: %+v", assets[1])
	}
}
