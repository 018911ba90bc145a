package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"StreamingMusical/config"
	"StreamingMusical/storage"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 << 20, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.in); got != tt.want {
			t.Errorf("formatSize(%d): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestPrintAssets(t *testing.T) {
	var buf bytes.Buffer
	printAssets(&buf, []storage.AssetInfo{
		{Kind: storage.KindAudio, ID: 3, Name: "3.mp3", Size: 2048, ModTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
	})

	out := buf.String()
	for _, want := range []string{"KIND", "songs", "3.mp3", "2.0 KB", "2024-01-02 03:04:05"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"server", "migrate", "assets"} {
		if c, _, err := rootCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("expected %s command to be registered", name)
		}
	}
}

func TestAssetsRefusesOrphanScanOnMemoryStore(t *testing.T) {
	prevCfg, prevOrphans, prevPrune := cfg, assetsOrphans, assetsPrune
	defer func() { cfg, assetsOrphans, assetsPrune = prevCfg, prevOrphans, prevPrune }()

	media := t.TempDir()
	local, err := storage.NewLocalStore(media)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()
	if _, err := local.Put(ctx, storage.KindAudio, 1, "a.mp3", []byte("audio")); err != nil {
		t.Fatalf("failed to put audio: %v", err)
	}
	if _, err := local.Put(ctx, storage.KindCover, 1, "c.jpg", []byte("cover")); err != nil {
		t.Fatalf("failed to put cover: %v", err)
	}

	tests := []struct {
		name    string
		orphans bool
		prune   bool
	}{
		{"orphans", true, false},
		{"prune", false, true},
		{"both", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg = &config.Config{UseMemoryDB: true, MediaDir: media}
			assetsOrphans, assetsPrune = tt.orphans, tt.prune

			err := assetsCmd.RunE(assetsCmd, nil)
			if !errors.Is(err, errMemoryOrphanScan) {
				t.Fatalf("expected errMemoryOrphanScan, got %v", err)
			}
			for _, kind := range []storage.Kind{storage.KindAudio, storage.KindCover} {
				list, err := local.List(ctx, kind)
				if err != nil || len(list) != 1 {
					t.Errorf("expected %s file to survive, got %v (%v)", kind, list, err)
				}
			}
		})
	}
}
