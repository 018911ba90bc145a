package repository

import (
	"context"
	"fmt"

	"StreamingMusical/model"

	"gorm.io/gorm"
)

// CreateAlbum inserts an album and sets its id.
func (s *GormStore) CreateAlbum(ctx context.Context, album *model.Album) (int64, error) {
	if err := s.db.WithContext(ctx).Create(album).Error; err != nil {
		return 0, fmt.Errorf("failed to create album: %w", err)
	}
	return album.ID, nil
}

// GetAlbumByID fetches an album by id.
func (s *GormStore) GetAlbumByID(ctx context.Context, id int64) (*model.Album, error) {
	var album model.Album
	err := s.db.WithContext(ctx).Where("id_album = ?", id).First(&album).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound(KindAlbum, id)
		}
		return nil, fmt.Errorf("failed to get album %d: %w", id, err)
	}
	return &album, nil
}

// RenameAlbum updates the album title.
func (s *GormStore) RenameAlbum(ctx context.Context, id int64, title string) error {
	res := s.db.WithContext(ctx).Model(&model.Album{}).
		Where("id_album = ?", id).
		Update("titulo", title)
	if res.Error != nil {
		return fmt.Errorf("failed to rename album %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(KindAlbum, id)
	}
	return nil
}

// DeleteAlbum deletes the album, its tracks and their playlist memberships
// in one transaction.
func (s *GormStore) DeleteAlbum(ctx context.Context, id int64) ([]int64, error) {
	trackIDs := make([]int64, 0)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Album{}).Where("id_album = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound(KindAlbum, id)
		}

		if err := tx.Model(&model.Track{}).
			Where("id_album = ?", id).
			Order("id_musica").
			Pluck("id_musica", &trackIDs).Error; err != nil {
			return err
		}

		if len(trackIDs) > 0 {
			if err := tx.Where("id_musica IN ?", trackIDs).Delete(&model.PlaylistTrack{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id_musica IN ?", trackIDs).Delete(&model.Track{}).Error; err != nil {
				return err
			}
		}

		return tx.Where("id_album = ?", id).Delete(&model.Album{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete album %d: %w", id, err)
	}
	return trackIDs, nil
}
