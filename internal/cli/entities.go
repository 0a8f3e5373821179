package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "entities <section>",
		Short: "List stored entities for a section",
		Args:  cobra.ExactArgs(1),
		Run:   runEntities,
	}
	RootCmd.AddCommand(cmd)
}

func runEntities(cmd *cobra.Command, args []string) {
	s, err := openStores()
	if err != nil {
		exitErr("open cache", err)
	}
	defer s.Close()

	section := args[0]
	ids, err := s.entities.ListEntities(section)
	if err != nil {
		exitErr("list entities", err)
	}
	if len(ids) == 0 {
		fmt.Println(dimStyle.Render("no entities for section " + section))
		return
	}

	width := termWidth()
	for _, id := range ids {
		ent, ok := s.entities.Get(id)
		if !ok {
			fmt.Printf("%s %s\n", truncate(id, width-12), expiredStyle.Render("[corrupt]"))
			continue
		}
		line := fmt.Sprintf("%-40s %s", truncate(id, 40), truncate(ent.DisplayName, width-60))
		if ent.IsExpired() {
			line += " " + expiredStyle.Render("[expired]")
		} else {
			line += " " + dimStyle.Render("expires "+ent.ExpiresAt.Format(time.RFC3339))
		}
		fmt.Println(line)
	}
}
