package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// GormStore implements Store on a relational database through GORM. The
// dialect (MySQL, PostgreSQL, SQLite) is chosen by whoever opened the
// *gorm.DB; queries here stay portable across all three.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened and migrated connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Close closes the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// likeEscaper escapes LIKE wildcards with '!' (paired with ESCAPE '!'),
// which every supported dialect accepts without string-literal quirks.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
