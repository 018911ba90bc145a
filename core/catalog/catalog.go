package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"StreamingMusical/core/audio"
	"StreamingMusical/logger"
	"StreamingMusical/model"
	"StreamingMusical/repository"
	"StreamingMusical/storage"
)

// ErrInvalidUpload is returned when an uploaded file has the wrong media type.
var ErrInvalidUpload = errors.New("invalid upload")

// ErrIncompleteTrack is returned when the track record was committed but a
// later step (playlist link or audio write) failed. The record is kept.
var ErrIncompleteTrack = errors.New("track stored incompletely")

// Upload is a file received from a client, read whole into memory.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewTrack carries the fields of a track being created. Empty Name or Genre
// are filled from the file's embedded tags when possible.
type NewTrack struct {
	Name       string
	Genre      string
	Duration   int
	AlbumID    int64
	UserID     int64
	PlaylistID *int64
}

// Service keeps catalog records and their stored files in step.
type Service struct {
	store  repository.Store
	assets storage.AssetStore
}

// NewService creates a catalog Service.
func NewService(store repository.Store, assets storage.AssetStore) *Service {
	return &Service{store: store, assets: assets}
}

// CreateTrack stores the track record, links it to the playlist when one is
// given, then writes the audio file. The record is committed before the file
// write; if the write fails the record stays and the error is returned.
func (s *Service) CreateTrack(ctx context.Context, in NewTrack, file Upload) (*model.Track, error) {
	if !strings.HasPrefix(file.ContentType, "audio/") {
		return nil, fmt.Errorf("content type %q is not audio: %w", file.ContentType, ErrInvalidUpload)
	}

	if in.Name == "" || in.Genre == "" {
		if tags, ok := audio.ReadTags(file.Data); ok {
			if in.Name == "" {
				in.Name = tags.Title
			}
			if in.Genre == "" {
				in.Genre = tags.Genre
			}
		}
	}
	if in.Name == "" {
		in.Name = strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename))
	}

	if in.PlaylistID != nil {
		if _, err := s.store.GetPlaylistByID(ctx, *in.PlaylistID); err != nil {
			return nil, err
		}
	}

	track := &model.Track{
		Name:     in.Name,
		Genre:    in.Genre,
		Duration: in.Duration,
		AlbumID:  in.AlbumID,
		UserID:   in.UserID,
	}
	if _, err := s.store.CreateTrack(ctx, track); err != nil {
		return nil, err
	}

	if in.PlaylistID != nil {
		if err := s.store.AddTrackToPlaylist(ctx, *in.PlaylistID, track.ID); err != nil {
			logger.Error("[Catalog] Track created but not linked",
				logger.Int64("trackId", track.ID),
				logger.Int64("playlistId", *in.PlaylistID),
				logger.ErrorField(err))
			// Not wrapped: a vanished playlist must not read as "nothing created".
			return track, fmt.Errorf("%w: link track %d to playlist %d: %v", ErrIncompleteTrack, track.ID, *in.PlaylistID, err)
		}
	}

	name, err := s.assets.Put(ctx, storage.KindAudio, track.ID, file.Filename, file.Data)
	if err != nil {
		return track, fmt.Errorf("%w: store audio for track %d: %v", ErrIncompleteTrack, track.ID, err)
	}

	logger.Info("[Catalog] Track created",
		logger.Int64("trackId", track.ID),
		logger.String("file", name),
		logger.Int("bytes", len(file.Data)))
	return track, nil
}

// DeleteTrack removes the track record, its playlist links and its audio.
func (s *Service) DeleteTrack(ctx context.Context, id int64) error {
	if err := s.store.DeleteTrack(ctx, id); err != nil {
		return err
	}
	s.removeAsset(ctx, storage.KindAudio, id)
	return nil
}

// DeleteAlbum removes the album, every track in it, their audio files and
// the album cover. It returns the ids of the removed tracks.
func (s *Service) DeleteAlbum(ctx context.Context, id int64) ([]int64, error) {
	trackIDs, err := s.store.DeleteAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, trackID := range trackIDs {
		s.removeAsset(ctx, storage.KindAudio, trackID)
	}
	s.removeAsset(ctx, storage.KindCover, id)

	logger.Info("[Catalog] Album deleted",
		logger.Int64("albumId", id),
		logger.Int("tracks", len(trackIDs)))
	return trackIDs, nil
}

// removeAsset deletes stored files after their record is gone. Failures
// leave an orphan that `assets --prune` can clean up.
func (s *Service) removeAsset(ctx context.Context, kind storage.Kind, id int64) {
	if err := s.assets.Delete(ctx, kind, id); err != nil {
		logger.Warn("[Catalog] Failed to delete asset",
			logger.String("kind", string(kind)),
			logger.Int64("id", id),
			logger.ErrorField(err))
	}
}

// UploadCover stores the cover image of an existing album.
func (s *Service) UploadCover(ctx context.Context, albumID int64, file Upload) error {
	if !strings.HasPrefix(file.ContentType, "image/") {
		return fmt.Errorf("content type %q is not an image: %w", file.ContentType, ErrInvalidUpload)
	}
	if _, err := s.store.GetAlbumByID(ctx, albumID); err != nil {
		return err
	}
	if _, err := s.assets.Put(ctx, storage.KindCover, albumID, file.Filename, file.Data); err != nil {
		return fmt.Errorf("failed to store cover for album %d: %w", albumID, err)
	}
	return nil
}

// OpenTrackAudio opens the stored audio of a track.
func (s *Service) OpenTrackAudio(ctx context.Context, id int64) (*storage.Asset, error) {
	return s.assets.Open(ctx, storage.KindAudio, id)
}

// OpenCover opens the stored cover of an album.
func (s *Service) OpenCover(ctx context.Context, albumID int64) (*storage.Asset, error) {
	return s.assets.Open(ctx, storage.KindCover, albumID)
}

// Orphans lists stored files whose track or album record no longer exists.
// With remove set they are deleted as well.
func (s *Service) Orphans(ctx context.Context, remove bool) ([]storage.AssetInfo, error) {
	orphans := make([]storage.AssetInfo, 0)

	for _, kind := range []storage.Kind{storage.KindAudio, storage.KindCover} {
		assets, err := s.assets.List(ctx, kind)
		if err != nil {
			return nil, err
		}

		seen := make(map[int64]bool)
		for _, a := range assets {
			var lookupErr error
			if kind == storage.KindAudio {
				_, lookupErr = s.store.GetTrackByID(ctx, a.ID)
			} else {
				_, lookupErr = s.store.GetAlbumByID(ctx, a.ID)
			}
			if lookupErr == nil {
				continue
			}
			if !errors.Is(lookupErr, repository.ErrNotFound) {
				return nil, lookupErr
			}

			orphans = append(orphans, a)
			if remove && !seen[a.ID] {
				seen[a.ID] = true
				if err := s.assets.Delete(ctx, kind, a.ID); err != nil {
					return orphans, err
				}
			}
		}
	}
	return orphans, nil
}
