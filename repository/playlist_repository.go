package repository

import (
	"context"
	"fmt"

	"StreamingMusical/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreatePlaylist creates an empty playlist.
func (s *GormStore) CreatePlaylist(ctx context.Context, playlist *model.Playlist) (int64, error) {
	if err := s.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return 0, fmt.Errorf("failed to create playlist: %w", err)
	}
	return playlist.ID, nil
}

// GetPlaylistByID retrieves a playlist by its ID.
func (s *GormStore) GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := s.db.WithContext(ctx).Where("id_playlist = ?", id).First(&playlist).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound(KindPlaylist, id)
		}
		return nil, fmt.Errorf("failed to get playlist %d: %w", id, err)
	}
	return &playlist, nil
}

// ListPlaylistsByOwner returns the playlists of ownerID.
func (s *GormStore) ListPlaylistsByOwner(ctx context.Context, ownerID int64) ([]*model.Playlist, error) {
	playlists := make([]*model.Playlist, 0)
	err := s.db.WithContext(ctx).
		Where("id_dono = ?", ownerID).
		Order("id_playlist").
		Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists of user %d: %w", ownerID, err)
	}
	return playlists, nil
}

// RenamePlaylist updates the playlist name.
func (s *GormStore) RenamePlaylist(ctx context.Context, id int64, name string) error {
	res := s.db.WithContext(ctx).Model(&model.Playlist{}).
		Where("id_playlist = ?", id).
		Update("nome", name)
	if res.Error != nil {
		return fmt.Errorf("failed to rename playlist %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(KindPlaylist, id)
	}
	return nil
}

// DeletePlaylist deletes the playlist and all of its memberships.
func (s *GormStore) DeletePlaylist(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_playlist = ?", id).Delete(&model.PlaylistTrack{}).Error; err != nil {
			return err
		}
		res := tx.Where("id_playlist = ?", id).Delete(&model.Playlist{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(KindPlaylist, id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete playlist %d: %w", id, err)
	}
	return nil
}

// AddTrackToPlaylist links a track to a playlist; linking twice is a no-op.
func (s *GormStore) AddTrackToPlaylist(ctx context.Context, playlistID, trackID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &model.Playlist{}, "id_playlist", playlistID, KindPlaylist); err != nil {
			return err
		}
		if err := requireRow(tx, &model.Track{}, "id_musica", trackID, KindTrack); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.PlaylistTrack{PlaylistID: playlistID, TrackID: trackID}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to add track %d to playlist %d: %w", trackID, playlistID, err)
	}
	return nil
}

// RemoveTrackFromPlaylist unlinks a pair; a missing pair is ErrNotFound.
func (s *GormStore) RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID int64) error {
	res := s.db.WithContext(ctx).
		Where("id_playlist = ? AND id_musica = ?", playlistID, trackID).
		Delete(&model.PlaylistTrack{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove track %d from playlist %d: %w", trackID, playlistID, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(KindPlaylistTrack, trackID)
	}
	return nil
}

// ListPlaylistTracks returns the tracks linked to playlistID.
func (s *GormStore) ListPlaylistTracks(ctx context.Context, playlistID int64) ([]*model.Track, error) {
	if err := requireRow(s.db.WithContext(ctx), &model.Playlist{}, "id_playlist", playlistID, KindPlaylist); err != nil {
		return nil, err
	}

	return findTracksOrdered(s.db.WithContext(ctx).Model(&model.Track{}).
		Select("musicas.*").
		Joins("JOIN musica_playlist ON musica_playlist.id_musica = musicas.id_musica").
		Where("musica_playlist.id_playlist = ?", playlistID), "musicas.id_musica")
}

func findTracksOrdered(q *gorm.DB, order string) ([]*model.Track, error) {
	tracks := make([]*model.Track, 0)
	if err := q.Order(order).Find(&tracks).Error; err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	return tracks, nil
}

// requireRow returns ErrNotFound unless a row with column = id exists.
func requireRow(tx *gorm.DB, m interface{}, column string, id int64, kind string) error {
	var count int64
	if err := tx.Model(m).Where(column+" = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound(kind, id)
	}
	return nil
}
