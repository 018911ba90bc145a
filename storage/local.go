package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"StreamingMusical/logger"

	"github.com/google/uuid"
)

// LocalStore keeps assets on the local filesystem under root/{kind}/.
type LocalStore struct {
	root string
	mu   sync.Mutex
}

// NewLocalStore creates the kind directories under root.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := ensureLayout(root); err != nil {
		return nil, fmt.Errorf("failed to create asset directories under %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// Root returns the asset root directory.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) dir(kind Kind) string {
	return filepath.Join(s.root, string(kind))
}

// matches returns the stored names for id, sorted.
func (s *LocalStore) matches(kind Kind, id int64) ([]string, error) {
	pattern := filepath.Join(s.dir(kind), strconv.FormatInt(id, 10)+".*")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Put writes data to a staging file and renames it into place, so a reader
// never opens a partially written asset.
func (s *LocalStore) Put(_ context.Context, kind Kind, id int64, filename string, data []byte) (string, error) {
	name := strconv.FormatInt(id, 10) + Ext(kind, filename)
	target := filepath.Join(s.dir(kind), name)
	staging := filepath.Join(s.dir(kind), ".upload-"+uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(staging, data, 0644); err != nil {
		os.Remove(staging)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(staging, target); err != nil {
		os.Remove(staging)
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}

	paths, err := s.matches(kind, id)
	if err != nil {
		return name, nil
	}
	for _, p := range paths {
		if p == target {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warn("[Storage] Failed to remove replaced asset",
				logger.String("path", p), logger.ErrorField(err))
		}
	}
	logger.Debug("[Storage] Asset written",
		logger.String("path", target), logger.Int("bytes", len(data)))
	return name, nil
}

// Open returns the lexicographically smallest match for id.
func (s *LocalStore) Open(_ context.Context, kind Kind, id int64) (*Asset, error) {
	paths, err := s.matches(kind, id)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s %d: %w", kind, id, ErrAssetNotFound)
	}

	f, err := os.Open(paths[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s %d: %w", kind, id, ErrAssetNotFound)
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Asset{
		ReadSeekCloser: f,
		Name:           filepath.Base(paths[0]),
		Size:           info.Size(),
		ModTime:        info.ModTime(),
	}, nil
}

// Delete removes every file stored for id.
func (s *LocalStore) Delete(_ context.Context, kind Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths, err := s.matches(kind, id)
	if err != nil {
		return err
	}
	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// List returns every stored asset of kind ordered by id, then name.
func (s *LocalStore) List(_ context.Context, kind Kind) ([]AssetInfo, error) {
	entries, err := os.ReadDir(s.dir(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.dir(kind), err)
	}

	assets := make([]AssetInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, _, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		assets = append(assets, AssetInfo{
			Kind:    kind,
			ID:      id,
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sortAssets(assets)
	return assets, nil
}

func sortAssets(assets []AssetInfo) {
	sort.Slice(assets, func(i, j int) bool {
		if assets[i].ID != assets[j].ID {
			return assets[i].ID < assets[j].ID
		}
		return assets[i].Name < assets[j].Name
	})
}
