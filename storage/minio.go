package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"sort"
	"strconv"
	"time"

	"StreamingMusical/config"
	"StreamingMusical/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps assets as objects named {kind}/{id}{ext} in one bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to MinIO and creates the bucket when missing.
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	logger.Info("[Storage] Connecting to MinIO",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket),
		logger.Bool("ssl", cfg.MinioUseSSL))

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("[Storage] Created bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &MinioStore{client: client, bucket: cfg.MinioBucket}, nil
}

func idPrefix(kind Kind, id int64) string {
	return string(kind) + "/" + strconv.FormatInt(id, 10) + "."
}

// keys lists the object keys stored for id, sorted.
func (s *MinioStore) keys(ctx context.Context, kind Kind, id int64) ([]string, error) {
	var keys []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    idPrefix(kind, id),
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		keys = append(keys, object.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Put uploads data and removes objects with other extensions for id.
func (s *MinioStore) Put(ctx context.Context, kind Kind, id int64, filename string, data []byte) (string, error) {
	ext := Ext(kind, filename)
	name := strconv.FormatInt(id, 10) + ext
	key := string(kind) + "/" + name

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentTypeFor(ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	keys, err := s.keys(ctx, kind, id)
	if err != nil {
		return name, nil
	}
	for _, k := range keys {
		if k == key {
			continue
		}
		if err := s.client.RemoveObject(ctx, s.bucket, k, minio.RemoveObjectOptions{}); err != nil {
			logger.Warn("[Storage] Failed to remove replaced object",
				logger.String("key", k), logger.ErrorField(err))
		}
	}
	logger.Debug("[Storage] Object written",
		logger.String("key", key), logger.Int("bytes", len(data)))
	return name, nil
}

// Open returns the lexicographically smallest object for id.
func (s *MinioStore) Open(ctx context.Context, kind Kind, id int64) (*Asset, error) {
	keys, err := s.keys(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%s %d: %w", kind, id, ErrAssetNotFound)
	}

	object, err := s.client.GetObject(ctx, s.bucket, keys[0], minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", keys[0], err)
	}
	info, err := object.Stat()
	if err != nil {
		object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s %d: %w", kind, id, ErrAssetNotFound)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", keys[0], err)
	}

	return &Asset{
		ReadSeekCloser: object,
		Name:           path.Base(keys[0]),
		Size:           info.Size,
		ModTime:        info.LastModified,
	}, nil
}

// Delete removes every object stored for id.
func (s *MinioStore) Delete(ctx context.Context, kind Kind, id int64) error {
	keys, err := s.keys(ctx, kind, id)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.client.RemoveObject(ctx, s.bucket, k, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove %s: %w", k, err)
		}
	}
	return nil
}

// List returns every object under the kind prefix ordered by id, then name.
func (s *MinioStore) List(ctx context.Context, kind Kind) ([]AssetInfo, error) {
	assets := make([]AssetInfo, 0)
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    string(kind) + "/",
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		name := path.Base(object.Key)
		id, _, ok := parseName(name)
		if !ok {
			continue
		}
		assets = append(assets, AssetInfo{
			Kind:    kind,
			ID:      id,
			Name:    name,
			Size:    object.Size,
			ModTime: object.LastModified,
		})
	}
	sortAssets(assets)
	return assets, nil
}

// contentTypeFor infers the MIME type from a stored extension.
func contentTypeFor(ext string) string {
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".m4a":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ContentType returns the MIME type to serve a stored asset name with.
func ContentType(name string) string {
	return contentTypeFor(path.Ext(name))
}
