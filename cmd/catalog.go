package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/outlines/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the CCN standards catalog",
}

var catalogSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download the latest standards catalog release",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		path := cfg.CatalogPath
		if path == "" {
			path, err = defaultCatalogPath()
			if err != nil {
				return err
			}
		}

		current := ""
		if cat, err := catalog.Load(path); err == nil {
			current = cat.Version()
		}
		target, _ := cmd.Flags().GetString("version")

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		syncer := catalog.NewSyncer(cfg.CatalogURL, nil)
		_, err = syncer.Sync(ctx, catalog.SyncInput{
			CurrentVersion: current,
			TargetVersion:  target,
		}, path, func(p catalog.SyncProgress) {
			fmt.Println(p.Message)
		})

		if err == nil {
			if cfg.CatalogPath == "" {
				fmt.Printf("Set OUTLINES_CATALOG=%s to use it.\n", path)
			}
			return nil
		}
		if errors.Is(err, catalog.ErrAlreadyLatest) {
			fmt.Printf("Catalog %s is already the latest.\n", current)
			return nil
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nPoint OUTLINES_CATALOG at a writable path", err)
		}
		return err
	},
}

var catalogVerifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Validate a catalog file against the catalog schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			cat *catalog.Catalog
			err error
		)
		if len(args) == 1 {
			cat, err = catalog.Load(args[0])
		} else {
			cat, err = openCatalog(cmd)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Catalog %s: %d standards OK\n", cat.Version(), cat.Len())
		return nil
	},
}

func init() {
	catalogSyncCmd.Flags().String("version", "", "Sync this release instead of the latest (e.g. v1.2.0)")

	catalogCmd.AddCommand(catalogSyncCmd)
	catalogCmd.AddCommand(catalogVerifyCmd)
}

// defaultCatalogPath is where `catalog sync` writes when OUTLINES_CATALOG is
// unset: next to the default database.
func defaultCatalogPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	p := filepath.Join(dataHome, "outlines", catalog.AssetName)
	return p, os.MkdirAll(filepath.Dir(p), 0o755)
}
