package db

import (
	"path/filepath"
	"strings"
	"testing"

	"StreamingMusical/config"
)

func TestMySQLDSN(t *testing.T) {
	cfg := &config.Config{
		DBUser:     "leo",
		DBPassword: "secret",
		DBHost:     "db.local",
		DBPort:     "3307",
		DBName:     "streaming",
	}

	dsn := MySQLDSN(cfg)

	for _, want := range []string{"leo:secret@tcp(db.local:3307)/streaming", "parseTime=true", "clientFoundRows=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("expected DSN %q to contain %q", dsn, want)
		}
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := &config.Config{
		DBUser:     "leo",
		DBPassword: "p@ss word",
		DBHost:     "localhost",
		DBPort:     "5432",
		DBName:     "streaming",
	}

	dsn := PostgresDSN(cfg)

	if !strings.HasPrefix(dsn, "postgres://leo:") {
		t.Errorf("unexpected DSN prefix: %s", dsn)
	}
	if !strings.Contains(dsn, "@localhost:5432/streaming?sslmode=disable") {
		t.Errorf("unexpected DSN: %s", dsn)
	}
	if strings.Contains(dsn, "p@ss word") {
		t.Errorf("password should be escaped in %s", dsn)
	}
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := Dialector(&config.Config{DBDriver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if _, err := Dialector(&config.Config{DBDriver: config.DriverSQLite}); err == nil {
		t.Fatal("expected error for sqlite without a path")
	}
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		DBPath:     filepath.Join(t.TempDir(), "catalog.db"),
		DBLogLevel: "silent",
	}

	gdb, err := Open(cfg)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer Close(gdb)

	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	for _, table := range []string{"usuarios", "albuns", "musicas", "playlists", "musica_playlist"} {
		if !gdb.Migrator().HasTable(table) {
			t.Errorf("expected table %s to exist", table)
		}
	}

	// Running twice must be harmless.
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}
