package repository

import (
	"context"
	"errors"
	"fmt"

	"StreamingMusical/model"
)

// ErrNotFound is returned (wrapped) when an entity id or association pair
// has no record.
var ErrNotFound = errors.New("not found")

// NotFoundError names the missing record. It matches ErrNotFound with
// errors.Is.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Kind, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Kinds reported by NotFoundError.
const (
	KindUser          = "user"
	KindAlbum         = "album"
	KindTrack         = "track"
	KindPlaylist      = "playlist"
	KindPlaylistTrack = "playlist track"
)

func notFound(kind string, id int64) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// TrackFilter narrows ListTracks. Zero values mean "no filter"; set fields
// combine with AND.
type TrackFilter struct {
	Name    string // case-insensitive substring of the track name
	AlbumID *int64 // exact album id
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	// GetUserByEmail returns the lowest-id user with that email.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AlbumRepository defines album operations.
type AlbumRepository interface {
	CreateAlbum(ctx context.Context, album *model.Album) (int64, error)
	GetAlbumByID(ctx context.Context, id int64) (*model.Album, error)
	RenameAlbum(ctx context.Context, id int64, title string) error
	// DeleteAlbum removes the album and every track referencing it, including
	// their playlist memberships. It returns the removed track ids so the
	// caller can purge their assets.
	DeleteAlbum(ctx context.Context, id int64) ([]int64, error)
}

// TrackRepository defines track operations.
type TrackRepository interface {
	CreateTrack(ctx context.Context, track *model.Track) (int64, error)
	GetTrackByID(ctx context.Context, id int64) (*model.Track, error)
	ListTracks(ctx context.Context, filter TrackFilter) ([]*model.Track, error)
	ListTracksByGenre(ctx context.Context, genre string) ([]*model.Track, error)
	ListTracksByUser(ctx context.Context, userID int64) ([]*model.Track, error)
	UpdateTrack(ctx context.Context, id int64, name, genre string, duration int) error
	UpdateTrackMetadata(ctx context.Context, id int64, name, genre string) error
	// DeleteTrack removes the track and its playlist memberships.
	DeleteTrack(ctx context.Context, id int64) error
}

// PlaylistRepository defines playlist and membership operations.
type PlaylistRepository interface {
	CreatePlaylist(ctx context.Context, playlist *model.Playlist) (int64, error)
	GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error)
	ListPlaylistsByOwner(ctx context.Context, ownerID int64) ([]*model.Playlist, error)
	RenamePlaylist(ctx context.Context, id int64, name string) error
	DeletePlaylist(ctx context.Context, id int64) error
	// AddTrackToPlaylist is idempotent. Both ids must exist.
	AddTrackToPlaylist(ctx context.Context, playlistID, trackID int64) error
	RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID int64) error
	ListPlaylistTracks(ctx context.Context, playlistID int64) ([]*model.Track, error)
}

// Store is the persistence facade every component is built on. All listing
// methods return records ordered by id.
type Store interface {
	UserRepository
	AlbumRepository
	TrackRepository
	PlaylistRepository
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*GormStore)(nil)
)
