package store

import (
	"encoding/json"
	"time"

	"github.com/wayfare/atlas/internal/domain"
)

// SectionStats summarizes one entity section partition.
type SectionStats struct {
	Section  string
	Entities int
	Expired  int
}

// LevelStats summarizes one context level partition.
type LevelStats struct {
	Level    domain.DivisionLevel
	Contexts int
}

// Stats is a point-in-time summary of the whole cache, used by the
// maintenance CLI.
type Stats struct {
	Sections      []SectionStats
	Levels        []LevelStats
	TotalEntities int
	TotalExpired  int
	TotalContexts int
}

// Stats scans both top buckets and tallies record counts. Undecodable
// entities count toward totals but not toward expiry.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	now := time.Now()

	bySection := map[string]*SectionStats{}
	var sectionOrder []string
	err := s.forEachRecord(bucketEntities, func(partition, key string, data []byte) error {
		ss, ok := bySection[partition]
		if !ok {
			ss = &SectionStats{Section: partition}
			bySection[partition] = ss
			sectionOrder = append(sectionOrder, partition)
		}
		ss.Entities++
		stats.TotalEntities++

		var ent domain.StoredEntity
		if json.Unmarshal(data, &ent) == nil && now.After(ent.ExpiresAt) {
			ss.Expired++
			stats.TotalExpired++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, name := range sectionOrder {
		stats.Sections = append(stats.Sections, *bySection[name])
	}

	for _, level := range domain.Levels {
		keys, err := s.listKeys(bucketContexts, level.String())
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			continue
		}
		stats.Levels = append(stats.Levels, LevelStats{Level: level, Contexts: len(keys)})
		stats.TotalContexts += len(keys)
	}

	return stats, nil
}
