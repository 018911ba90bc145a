package catalog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"StreamingMusical/model"
	"StreamingMusical/repository"
	"StreamingMusical/storage"
)

type fixture struct {
	svc    *Service
	store  *repository.MemoryStore
	assets *storage.LocalStore
	root   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	assets, err := storage.NewLocalStore(root)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	store := repository.NewMemoryStore()
	return &fixture{
		svc:    NewService(store, assets),
		store:  store,
		assets: assets,
		root:   root,
	}
}

func mp3(data string) Upload {
	return Upload{Filename: "song.mp3", ContentType: "audio/mpeg", Data: []byte(data)}
}

func (f *fixture) album(t *testing.T) int64 {
	t.Helper()
	id, err := f.store.CreateAlbum(context.Background(), &model.Album{Title: "A", Year: 2024, UserID: 1})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestCreateTrackRejectsNonAudio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTrack(ctx, NewTrack{Name: "x", AlbumID: 1, UserID: 1},
		Upload{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hi")})
	if !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("expected ErrInvalidUpload, got %v", err)
	}
	if all, _ := f.store.ListTracks(ctx, repository.TrackFilter{}); len(all) != 0 {
		t.Errorf("no record must be created, got %d", len(all))
	}
}

func TestCreateTrackStoresAudio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	track, err := f.svc.CreateTrack(ctx, NewTrack{Name: "Song", Genre: "rock", Duration: 200, AlbumID: 1, UserID: 1}, mp3("bytes"))
	if err != nil {
		t.Fatalf("CreateTrack: %v", err)
	}

	a, err := f.svc.OpenTrackAudio(ctx, track.ID)
	if err != nil {
		t.Fatalf("OpenTrackAudio: %v", err)
	}
	defer a.Close()
	b, _ := io.ReadAll(a)
	if string(b) != "bytes" {
		t.Errorf("unexpected audio content %q", b)
	}
}

func TestCreateTrackNameFallback(t *testing.T) {
	f := newFixture(t)

	track, err := f.svc.CreateTrack(context.Background(), NewTrack{AlbumID: 1, UserID: 1},
		Upload{Filename: "Aguas de Marco.ogg", ContentType: "audio/ogg", Data: []byte("untagged")})
	if err != nil {
		t.Fatalf("CreateTrack: %v", err)
	}
	if track.Name != "Aguas de Marco" {
		t.Errorf("expected name from filename, got %q", track.Name)
	}
}

func TestCreateTrackWithPlaylist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pl, _ := f.store.CreatePlaylist(ctx, &model.Playlist{Name: "Mix", OwnerID: 1})
	track, err := f.svc.CreateTrack(ctx, NewTrack{Name: "Song", AlbumID: 1, UserID: 1, PlaylistID: &pl}, mp3("x"))
	if err != nil {
		t.Fatalf("CreateTrack: %v", err)
	}
	tracks, _ := f.store.ListPlaylistTracks(ctx, pl)
	if len(tracks) != 1 || tracks[0].ID != track.ID {
		t.Errorf("expected track to be linked, got %+v", tracks)
	}

	missing := int64(999)
	_, err = f.svc.CreateTrack(ctx, NewTrack{Name: "Other", AlbumID: 1, UserID: 1, PlaylistID: &missing}, mp3("y"))
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown playlist, got %v", err)
	}
	if all, _ := f.store.ListTracks(ctx, repository.TrackFilter{}); len(all) != 1 {
		t.Errorf("a rejected playlist must not leave a record, got %d tracks", len(all))
	}
	if _, err := f.store.GetPlaylistByID(ctx, missing); !errors.Is(err, repository.ErrNotFound) {
		t.Error("playlist must not be created implicitly")
	}
}

func TestCreateTrackKeepsRecordWhenWriteFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A directory where the songs directory should be makes the write fail.
	songs := filepath.Join(f.root, string(storage.KindAudio))
	if err := os.RemoveAll(songs); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(songs, []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}

	track, err := f.svc.CreateTrack(ctx, NewTrack{Name: "Song", AlbumID: 1, UserID: 1}, mp3("x"))
	if err == nil {
		t.Fatal("expected the asset write to fail")
	}
	if !errors.Is(err, ErrIncompleteTrack) {
		t.Errorf("expected ErrIncompleteTrack, got %v", err)
	}
	if track == nil {
		t.Fatal("expected the created record to be returned")
	}
	if _, err := f.store.GetTrackByID(ctx, track.ID); err != nil {
		t.Errorf("record should remain after a failed write: %v", err)
	}
}

// vanishingPlaylistStore deletes the playlist right before a track is linked
// to it, as a concurrent DELETE /playlists/{id} would.
type vanishingPlaylistStore struct {
	repository.Store
}

func (s vanishingPlaylistStore) AddTrackToPlaylist(ctx context.Context, playlistID, trackID int64) error {
	if err := s.Store.DeletePlaylist(ctx, playlistID); err != nil {
		return err
	}
	return s.Store.AddTrackToPlaylist(ctx, playlistID, trackID)
}

func TestCreateTrackPlaylistDeletedAfterCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewService(vanishingPlaylistStore{f.store}, f.assets)

	pl, _ := f.store.CreatePlaylist(ctx, &model.Playlist{Name: "Mix", OwnerID: 1})
	track, err := svc.CreateTrack(ctx, NewTrack{Name: "Song", AlbumID: 1, UserID: 1, PlaylistID: &pl}, mp3("x"))
	if !errors.Is(err, ErrIncompleteTrack) {
		t.Fatalf("expected ErrIncompleteTrack, got %v", err)
	}
	if errors.Is(err, repository.ErrNotFound) {
		t.Error("a committed record must not be reported as not found")
	}
	if track == nil {
		t.Fatal("expected the created record to be returned")
	}
	if _, err := f.store.GetTrackByID(ctx, track.ID); err != nil {
		t.Errorf("record should remain: %v", err)
	}
}

func TestDeleteTrack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	track, _ := f.svc.CreateTrack(ctx, NewTrack{Name: "Song", AlbumID: 1, UserID: 1}, mp3("x"))
	if err := f.svc.DeleteTrack(ctx, track.ID); err != nil {
		t.Fatalf("DeleteTrack: %v", err)
	}
	if _, err := f.svc.OpenTrackAudio(ctx, track.ID); !errors.Is(err, storage.ErrAssetNotFound) {
		t.Errorf("expected audio to be removed, got %v", err)
	}
	if err := f.svc.DeleteTrack(ctx, track.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAlbumCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	albumID := f.album(t)

	t1, _ := f.svc.CreateTrack(ctx, NewTrack{Name: "One", AlbumID: albumID, UserID: 1}, mp3("1"))
	t2, _ := f.svc.CreateTrack(ctx, NewTrack{Name: "Two", AlbumID: albumID, UserID: 1}, mp3("2"))
	other, _ := f.svc.CreateTrack(ctx, NewTrack{Name: "Other", AlbumID: albumID + 100, UserID: 1}, mp3("3"))
	if err := f.svc.UploadCover(ctx, albumID, Upload{Filename: "c.png", ContentType: "image/png", Data: []byte("png")}); err != nil {
		t.Fatalf("UploadCover: %v", err)
	}

	removed, err := f.svc.DeleteAlbum(ctx, albumID)
	if err != nil {
		t.Fatalf("DeleteAlbum: %v", err)
	}
	if len(removed) != 2 || removed[0] != t1.ID || removed[1] != t2.ID {
		t.Errorf("unexpected removed ids %v", removed)
	}

	aid := albumID
	if left, _ := f.store.ListTracks(ctx, repository.TrackFilter{AlbumID: &aid}); len(left) != 0 {
		t.Errorf("expected album listing to be empty, got %d", len(left))
	}
	for _, id := range removed {
		if _, err := f.svc.OpenTrackAudio(ctx, id); !errors.Is(err, storage.ErrAssetNotFound) {
			t.Errorf("track %d: expected audio removed, got %v", id, err)
		}
	}
	if _, err := f.svc.OpenCover(ctx, albumID); !errors.Is(err, storage.ErrAssetNotFound) {
		t.Errorf("expected cover removed, got %v", err)
	}
	if a, err := f.svc.OpenTrackAudio(ctx, other.ID); err != nil {
		t.Errorf("unrelated track audio should survive: %v", err)
	} else {
		a.Close()
	}

	if _, err := f.svc.DeleteAlbum(ctx, albumID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadCover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	albumID := f.album(t)

	tests := []struct {
		name    string
		albumID int64
		upload  Upload
		wantErr error
	}{
		{"not an image", albumID, Upload{Filename: "a.mp3", ContentType: "audio/mpeg", Data: []byte("x")}, ErrInvalidUpload},
		{"missing album", 999, Upload{Filename: "c.jpg", ContentType: "image/jpeg", Data: []byte("x")}, repository.ErrNotFound},
		{"ok", albumID, Upload{Filename: "c.jpg", ContentType: "image/jpeg", Data: []byte("jpg")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.UploadCover(ctx, tt.albumID, tt.upload)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	a, err := f.svc.OpenCover(ctx, albumID)
	if err != nil {
		t.Fatalf("OpenCover: %v", err)
	}
	defer a.Close()
	if a.Name != "1.jpg" {
		t.Errorf("expected 1.jpg, got %s", a.Name)
	}
}

func TestOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kept, _ := f.svc.CreateTrack(ctx, NewTrack{Name: "Kept", AlbumID: 1, UserID: 1}, mp3("k"))
	// Stray files with no record behind them.
	_, _ = f.assets.Put(ctx, storage.KindAudio, 500, "x.mp3", []byte("orphan"))
	_, _ = f.assets.Put(ctx, storage.KindCover, 77, "x.jpg", []byte("orphan"))

	orphans, err := f.svc.Orphans(ctx, false)
	if err != nil {
		t.Fatalf("Orphans: %v", err)
	}
	if len(orphans) != 2 {
		t.Fatalf("expected 2 orphans, got %+v", orphans)
	}

	if _, err := f.svc.Orphans(ctx, true); err != nil {
		t.Fatalf("Orphans(remove): %v", err)
	}
	if left, _ := f.svc.Orphans(ctx, false); len(left) != 0 {
		t.Errorf("expected no orphans after prune, got %+v", left)
	}
	if a, err := f.svc.OpenTrackAudio(ctx, kept.ID); err != nil {
		t.Errorf("prune removed a referenced file: %v", err)
	} else {
		a.Close()
	}
}
