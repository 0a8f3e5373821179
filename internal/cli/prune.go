package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pruneContexts bool

func init() {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete expired entities (and optionally stale contexts)",
		Run:   runPrune,
	}
	cmd.Flags().BoolVar(&pruneContexts, "contexts", false, "Also delete contexts with no remaining valid entities")
	RootCmd.AddCommand(cmd)
}

func runPrune(cmd *cobra.Command, args []string) {
	s, err := openStores()
	if err != nil {
		exitErr("open cache", err)
	}
	defer s.Close()

	removed, err := s.coord.PruneExpired()
	if err != nil {
		exitErr("prune entities", err)
	}
	fmt.Printf("removed %d expired entities\n", removed)

	if pruneContexts {
		removed, err := s.coord.PruneContexts()
		if err != nil {
			exitErr("prune contexts", err)
		}
		fmt.Printf("removed %d stale contexts\n", removed)
	}
}
