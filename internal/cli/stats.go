package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Run:   runStats,
	}
	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStores()
	if err != nil {
		exitErr("open cache", err)
	}
	defer s.Close()

	stats, err := s.base.Stats()
	if err != nil {
		exitErr("stats", err)
	}

	fmt.Println(headerStyle.Render("Entities"))
	if len(stats.Sections) == 0 {
		fmt.Println(dimStyle.Render("  (none)"))
	}
	for _, ss := range stats.Sections {
		line := fmt.Sprintf("  %-20s %5d", ss.Section, ss.Entities)
		if ss.Expired > 0 {
			line += expiredStyle.Render(fmt.Sprintf("  (%d expired)", ss.Expired))
		}
		fmt.Println(line)
	}
	fmt.Printf("  %s\n", dimStyle.Render(fmt.Sprintf("total %d, expired %d", stats.TotalEntities, stats.TotalExpired)))

	fmt.Println(headerStyle.Render("Contexts"))
	if len(stats.Levels) == 0 {
		fmt.Println(dimStyle.Render("  (none)"))
	}
	for _, ls := range stats.Levels {
		fmt.Printf("  %-20s %5d\n", ls.Level.String(), ls.Contexts)
	}
	fmt.Printf("  %s\n", dimStyle.Render(fmt.Sprintf("total %d", stats.TotalContexts)))
}
