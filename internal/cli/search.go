package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/wayfare/atlas/internal/domain"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search stored entities by display name",
		Args:  cobra.ExactArgs(1),
		Run:   runSearch,
	}
	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	s, err := openStores()
	if err != nil {
		exitErr("open cache", err)
	}
	defer s.Close()

	sections, err := s.entities.Sections()
	if err != nil {
		exitErr("list sections", err)
	}

	var names []string
	byName := map[string]*domain.StoredEntity{}
	for _, section := range sections {
		ids, err := s.entities.ListEntities(section)
		if err != nil {
			exitErr("list entities", err)
		}
		for _, id := range ids {
			if ent, ok := s.entities.Get(id); ok {
				key := strings.ToLower(ent.DisplayName)
				names = append(names, key)
				byName[key] = ent
			}
		}
	}

	query := strings.ToLower(args[0])
	ranks := fuzzy.RankFindFold(query, names)
	sort.Slice(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})

	if len(ranks) == 0 {
		fmt.Println(dimStyle.Render("no matches"))
		return
	}

	for _, rank := range ranks {
		ent, ok := byName[rank.Target]
		if !ok {
			continue
		}
		line := highlightMatch(ent.DisplayName, query)
		line += " " + dimStyle.Render(fmt.Sprintf("(%s, scope %s)", ent.EntityID, ent.Scope))
		if ent.IsExpired() {
			line += " " + expiredStyle.Render("[expired]")
		}
		fmt.Println(line)
	}
}

// highlightMatch bolds the characters the query matched, using
// sahilm/fuzzy for per-rune match positions.
func highlightMatch(name, query string) string {
	matches := sahilm.Find(query, []string{strings.ToLower(name)})
	if len(matches) == 0 {
		return name
	}

	matched := map[int]bool{}
	for _, i := range matches[0].MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder
	for i, r := range name {
		if matched[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
