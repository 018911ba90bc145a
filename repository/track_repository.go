package repository

import (
	"context"
	"fmt"

	"StreamingMusical/model"

	"gorm.io/gorm"
)

// CreateTrack adds a new track to the database.
func (s *GormStore) CreateTrack(ctx context.Context, track *model.Track) (int64, error) {
	if err := s.db.WithContext(ctx).Create(track).Error; err != nil {
		return 0, fmt.Errorf("failed to create track: %w", err)
	}
	return track.ID, nil
}

// GetTrackByID retrieves a track by its ID.
func (s *GormStore) GetTrackByID(ctx context.Context, id int64) (*model.Track, error) {
	var track model.Track
	err := s.db.WithContext(ctx).Where("id_musica = ?", id).First(&track).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound(KindTrack, id)
		}
		return nil, fmt.Errorf("failed to get track %d: %w", id, err)
	}
	return &track, nil
}

// ListTracks returns tracks matching every set field of filter.
func (s *GormStore) ListTracks(ctx context.Context, filter TrackFilter) ([]*model.Track, error) {
	q := s.db.WithContext(ctx).Model(&model.Track{})
	if filter.Name != "" {
		q = q.Where("LOWER(nome) LIKE ? ESCAPE '!'", containsPattern(filter.Name))
	}
	if filter.AlbumID != nil {
		q = q.Where("id_album = ?", *filter.AlbumID)
	}
	return findTracks(q)
}

// ListTracksByGenre returns tracks whose genre equals genre exactly.
func (s *GormStore) ListTracksByGenre(ctx context.Context, genre string) ([]*model.Track, error) {
	return findTracks(s.db.WithContext(ctx).Model(&model.Track{}).Where("genero = ?", genre))
}

// ListTracksByUser returns tracks owned by userID.
func (s *GormStore) ListTracksByUser(ctx context.Context, userID int64) ([]*model.Track, error) {
	return findTracks(s.db.WithContext(ctx).Model(&model.Track{}).Where("id_usuario = ?", userID))
}

func findTracks(q *gorm.DB) ([]*model.Track, error) {
	return findTracksOrdered(q, "id_musica")
}

// UpdateTrack replaces name, genre and duration.
func (s *GormStore) UpdateTrack(ctx context.Context, id int64, name, genre string, duration int) error {
	return s.updateTrack(ctx, id, map[string]interface{}{
		"nome":        name,
		"genero":      genre,
		"duracao_seg": duration,
	})
}

// UpdateTrackMetadata replaces name and genre only.
func (s *GormStore) UpdateTrackMetadata(ctx context.Context, id int64, name, genre string) error {
	return s.updateTrack(ctx, id, map[string]interface{}{
		"nome":   name,
		"genero": genre,
	})
}

func (s *GormStore) updateTrack(ctx context.Context, id int64, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&model.Track{}).Where("id_musica = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update track %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(KindTrack, id)
	}
	return nil
}

// DeleteTrack deletes the track and its playlist memberships.
func (s *GormStore) DeleteTrack(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_musica = ?", id).Delete(&model.PlaylistTrack{}).Error; err != nil {
			return err
		}
		res := tx.Where("id_musica = ?", id).Delete(&model.Track{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(KindTrack, id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete track %d: %w", id, err)
	}
	return nil
}
