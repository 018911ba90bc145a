package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"StreamingMusical/model"
)

// MemoryStore keeps the whole catalog in maps. A single RWMutex makes every
// operation atomic with respect to concurrent requests. Records are stored
// and returned by value so callers never alias internal state.
type MemoryStore struct {
	mu             sync.RWMutex
	users          map[int64]model.User
	albums         map[int64]model.Album
	tracks         map[int64]model.Track
	playlists      map[int64]model.Playlist
	playlistTracks map[model.PlaylistTrack]struct{}

	userSeq     int64
	albumSeq    int64
	trackSeq    int64
	playlistSeq int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.Reset()
	return s
}

// Reset drops every record and restarts the id sequences. Test setup only.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int64]model.User)
	s.albums = make(map[int64]model.Album)
	s.tracks = make(map[int64]model.Track)
	s.playlists = make(map[int64]model.Playlist)
	s.playlistTracks = make(map[model.PlaylistTrack]struct{})
	s.userSeq, s.albumSeq, s.trackSeq, s.playlistSeq = 0, 0, 0, 0
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// ========== users ==========

func (s *MemoryStore) CreateUser(_ context.Context, user *model.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userSeq++
	user.ID = s.userSeq
	s.users[user.ID] = *user
	return user.ID, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, notFound(KindUser, id)
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *model.User
	for _, user := range s.users {
		if user.Email != email {
			continue
		}
		if found == nil || user.ID < found.ID {
			u := user
			found = &u
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// ========== albums ==========

func (s *MemoryStore) CreateAlbum(_ context.Context, album *model.Album) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.albumSeq++
	album.ID = s.albumSeq
	s.albums[album.ID] = *album
	return album.ID, nil
}

func (s *MemoryStore) GetAlbumByID(_ context.Context, id int64) (*model.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	album, ok := s.albums[id]
	if !ok {
		return nil, notFound(KindAlbum, id)
	}
	return &album, nil
}

func (s *MemoryStore) RenameAlbum(_ context.Context, id int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	album, ok := s.albums[id]
	if !ok {
		return notFound(KindAlbum, id)
	}
	album.Title = title
	s.albums[id] = album
	return nil
}

func (s *MemoryStore) DeleteAlbum(_ context.Context, id int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.albums[id]; !ok {
		return nil, notFound(KindAlbum, id)
	}

	trackIDs := make([]int64, 0)
	for trackID, track := range s.tracks {
		if track.AlbumID == id {
			trackIDs = append(trackIDs, trackID)
		}
	}
	sort.Slice(trackIDs, func(i, j int) bool { return trackIDs[i] < trackIDs[j] })

	for _, trackID := range trackIDs {
		s.deleteTrackLocked(trackID)
	}
	delete(s.albums, id)
	return trackIDs, nil
}

// ========== tracks ==========

func (s *MemoryStore) CreateTrack(_ context.Context, track *model.Track) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trackSeq++
	track.ID = s.trackSeq
	s.tracks[track.ID] = *track
	return track.ID, nil
}

func (s *MemoryStore) GetTrackByID(_ context.Context, id int64) (*model.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	track, ok := s.tracks[id]
	if !ok {
		return nil, notFound(KindTrack, id)
	}
	return &track, nil
}

func (s *MemoryStore) ListTracks(_ context.Context, filter TrackFilter) ([]*model.Track, error) {
	name := strings.ToLower(filter.Name)
	return s.selectTracks(func(t model.Track) bool {
		if name != "" && !strings.Contains(strings.ToLower(t.Name), name) {
			return false
		}
		if filter.AlbumID != nil && t.AlbumID != *filter.AlbumID {
			return false
		}
		return true
	}), nil
}

func (s *MemoryStore) ListTracksByGenre(_ context.Context, genre string) ([]*model.Track, error) {
	return s.selectTracks(func(t model.Track) bool { return t.Genre == genre }), nil
}

func (s *MemoryStore) ListTracksByUser(_ context.Context, userID int64) ([]*model.Track, error) {
	return s.selectTracks(func(t model.Track) bool { return t.UserID == userID }), nil
}

func (s *MemoryStore) selectTracks(keep func(model.Track) bool) []*model.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tracks := make([]*model.Track, 0)
	for _, track := range s.tracks {
		if keep(track) {
			t := track
			tracks = append(tracks, &t)
		}
	}
	sortTracks(tracks)
	return tracks
}

func (s *MemoryStore) UpdateTrack(_ context.Context, id int64, name, genre string, duration int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	track, ok := s.tracks[id]
	if !ok {
		return notFound(KindTrack, id)
	}
	track.Name, track.Genre, track.Duration = name, genre, duration
	s.tracks[id] = track
	return nil
}

func (s *MemoryStore) UpdateTrackMetadata(_ context.Context, id int64, name, genre string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	track, ok := s.tracks[id]
	if !ok {
		return notFound(KindTrack, id)
	}
	track.Name, track.Genre = name, genre
	s.tracks[id] = track
	return nil
}

func (s *MemoryStore) DeleteTrack(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.deleteTrackLocked(id) {
		return notFound(KindTrack, id)
	}
	return nil
}

// deleteTrackLocked removes a track and its memberships. s.mu must be held.
func (s *MemoryStore) deleteTrackLocked(id int64) bool {
	if _, ok := s.tracks[id]; !ok {
		return false
	}
	delete(s.tracks, id)
	for pair := range s.playlistTracks {
		if pair.TrackID == id {
			delete(s.playlistTracks, pair)
		}
	}
	return true
}

// ========== playlists ==========

func (s *MemoryStore) CreatePlaylist(_ context.Context, playlist *model.Playlist) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playlistSeq++
	playlist.ID = s.playlistSeq
	s.playlists[playlist.ID] = *playlist
	return playlist.ID, nil
}

func (s *MemoryStore) GetPlaylistByID(_ context.Context, id int64) (*model.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playlist, ok := s.playlists[id]
	if !ok {
		return nil, notFound(KindPlaylist, id)
	}
	return &playlist, nil
}

func (s *MemoryStore) ListPlaylistsByOwner(_ context.Context, ownerID int64) ([]*model.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playlists := make([]*model.Playlist, 0)
	for _, playlist := range s.playlists {
		if playlist.OwnerID == ownerID {
			p := playlist
			playlists = append(playlists, &p)
		}
	}
	sort.Slice(playlists, func(i, j int) bool { return playlists[i].ID < playlists[j].ID })
	return playlists, nil
}

func (s *MemoryStore) RenamePlaylist(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[id]
	if !ok {
		return notFound(KindPlaylist, id)
	}
	playlist.Name = name
	s.playlists[id] = playlist
	return nil
}

func (s *MemoryStore) DeletePlaylist(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[id]; !ok {
		return notFound(KindPlaylist, id)
	}
	for pair := range s.playlistTracks {
		if pair.PlaylistID == id {
			delete(s.playlistTracks, pair)
		}
	}
	delete(s.playlists, id)
	return nil
}

func (s *MemoryStore) AddTrackToPlaylist(_ context.Context, playlistID, trackID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[playlistID]; !ok {
		return notFound(KindPlaylist, playlistID)
	}
	if _, ok := s.tracks[trackID]; !ok {
		return notFound(KindTrack, trackID)
	}
	s.playlistTracks[model.PlaylistTrack{PlaylistID: playlistID, TrackID: trackID}] = struct{}{}
	return nil
}

func (s *MemoryStore) RemoveTrackFromPlaylist(_ context.Context, playlistID, trackID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := model.PlaylistTrack{PlaylistID: playlistID, TrackID: trackID}
	if _, ok := s.playlistTracks[pair]; !ok {
		return notFound(KindPlaylistTrack, trackID)
	}
	delete(s.playlistTracks, pair)
	return nil
}

func (s *MemoryStore) ListPlaylistTracks(_ context.Context, playlistID int64) ([]*model.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.playlists[playlistID]; !ok {
		return nil, notFound(KindPlaylist, playlistID)
	}

	tracks := make([]*model.Track, 0)
	for pair := range s.playlistTracks {
		if pair.PlaylistID != playlistID {
			continue
		}
		if track, ok := s.tracks[pair.TrackID]; ok {
			t := track
			tracks = append(tracks, &t)
		}
	}
	sortTracks(tracks)
	return tracks, nil
}

func sortTracks(tracks []*model.Track) {
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].ID < tracks[j].ID })
}
