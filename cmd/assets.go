package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"StreamingMusical/core/catalog"
	"StreamingMusical/server"
	"StreamingMusical/storage"

	"github.com/spf13/cobra"
)

var (
	assetsPrune   bool
	assetsOrphans bool
)

// errMemoryOrphanScan is returned for --orphans/--prune with USE_MEMORY_DB.
// A fresh in-process store holds no records, so every file would look
// orphaned.
var errMemoryOrphanScan = errors.New("--orphans and --prune need the relational store; the in-memory store is private to the server process")

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List stored audio and cover files",
	Long: `List stored audio and cover files. --orphans shows only files whose
track or album no longer exists; --prune deletes them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (assetsPrune || assetsOrphans) && cfg.UseMemoryDB {
			return errMemoryOrphanScan
		}
		ctx := cmd.Context()

		assets, err := server.OpenAssets(ctx, cfg)
		if err != nil {
			return err
		}

		if !assetsPrune && !assetsOrphans {
			var all []storage.AssetInfo
			for _, kind := range []storage.Kind{storage.KindAudio, storage.KindCover} {
				list, err := assets.List(ctx, kind)
				if err != nil {
					return err
				}
				all = append(all, list...)
			}
			printAssets(cmd.OutOrStdout(), all)
			return nil
		}

		store, err := server.OpenStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		orphans, err := catalog.NewService(store, assets).Orphans(ctx, assetsPrune)
		if err != nil {
			return err
		}
		printAssets(cmd.OutOrStdout(), orphans)
		if assetsPrune {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d orphaned files\n", len(orphans))
		}
		return nil
	},
}

func printAssets(out io.Writer, assets []storage.AssetInfo) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tID\tNAME\tSIZE\tMODIFIED")
	for _, a := range assets {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", a.Kind, a.ID, a.Name, formatSize(a.Size), a.ModTime.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
}

// formatSize renders a byte count with a binary unit.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func init() {
	assetsCmd.Flags().BoolVar(&assetsOrphans, "orphans", false, "only list files without a record")
	assetsCmd.Flags().BoolVar(&assetsPrune, "prune", false, "delete files without a record")
	rootCmd.AddCommand(assetsCmd)
}
