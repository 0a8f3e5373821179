package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wayfare/atlas/internal/domain"
)

func init() {
	cmd := &cobra.Command{
		Use:   "contexts [level]",
		Short: "List stored contexts, optionally for one division level",
		Args:  cobra.MaximumNArgs(1),
		Run:   runContexts,
	}
	RootCmd.AddCommand(cmd)
}

func runContexts(cmd *cobra.Command, args []string) {
	s, err := openStores()
	if err != nil {
		exitErr("open cache", err)
	}
	defer s.Close()

	levels := domain.Levels
	if len(args) == 1 {
		level, ok := domain.ParseLevel(args[0])
		if !ok {
			exitErr("parse level", fmt.Errorf("unknown level %q", args[0]))
		}
		levels = []domain.DivisionLevel{level}
	}

	found := false
	for _, level := range levels {
		keys, err := s.contexts.ListContexts(level)
		if err != nil {
			exitErr("list contexts", err)
		}
		if len(keys) == 0 {
			continue
		}
		found = true
		fmt.Println(headerStyle.Render(level.String()))
		for _, key := range keys {
			line := "  " + key
			if ctx, ok := s.contexts.Load(key, level); ok {
				line += " " + dimStyle.Render(fmt.Sprintf("(%s)", strings.Join(ctx.SectionOrder, ", ")))
			}
			fmt.Println(line)
		}
	}
	if !found {
		fmt.Println(dimStyle.Render("no contexts stored"))
	}
}
