// Package cli implements the atlas maintenance commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wayfare/atlas/internal/adapter"
	"github.com/wayfare/atlas/internal/service"
	"github.com/wayfare/atlas/internal/store"
)

var cacheDir string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Inspect and maintain the geography-scoped content cache",
	Long: "Maintenance tooling for the atlas cache: list stored entities and contexts,\n" +
		"search display names, sweep expired content, or wipe the cache entirely.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cacheDir, "cache-dir", "c", "", "Cache directory (default: platform data dir)")
}

// stores bundles everything a command may need. Close releases the db.
type stores struct {
	base     *store.Store
	entities *store.EntityStore
	contexts *store.ContextStore
	coord    *service.Coordinator
}

func (s *stores) Close() { s.base.Close() }

func openStores() (*stores, error) {
	dir := cacheDir
	if dir == "" {
		cfg, err := adapter.LoadConfig()
		if err != nil {
			return nil, err
		}
		dir = cfg.Cache.Dir
	}

	base, err := store.Open(dir)
	if err != nil {
		return nil, err
	}

	logger := adapter.NullLogger()
	entities := store.NewEntityStore(base, logger)
	contexts := store.NewContextStore(base, logger)
	return &stores{
		base:     base,
		entities: entities,
		contexts: contexts,
		coord:    service.NewCoordinator(entities, contexts, store.NewSettings(base), logger),
	}, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
