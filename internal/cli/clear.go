package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearForce bool

func init() {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Wipe every entity, context and setting from the cache",
		Run:   runClear,
	}
	cmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Skip confirmation")
	RootCmd.AddCommand(cmd)
}

func runClear(cmd *cobra.Command, args []string) {
	if !clearForce {
		fmt.Print("wipe the entire cache? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("aborted")
			return
		}
	}

	s, err := openStores()
	if err != nil {
		exitErr("open cache", err)
	}
	defer s.Close()

	if err := s.base.ClearAll(); err != nil {
		exitErr("clear cache", err)
	}
	fmt.Println("cache cleared")
}
