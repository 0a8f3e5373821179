package store

import (
	"testing"

	bolt "go.etcd.io/bbolt"

	"github.com/wayfare/atlas/internal/adapter"
	"github.com/wayfare/atlas/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestEntityStore(t *testing.T) *EntityStore {
	t.Helper()
	return NewEntityStore(newTestStore(t), adapter.NullLogger())
}

func f64(v float64) *float64 { return &v }

func shanghaiAddr() domain.AddressParts {
	return domain.AddressParts{
		CountryCode: "CN",
		AdminArea:   "Shanghai",
		Locality:    "Shanghai",
	}
}

func TestWriteAndGet(t *testing.T) {
	s := newTestEntityStore(t)

	written, err := s.Write(domain.WriteParams{
		EntityID:       "cuisine:chinese_cuisine",
		DisplayName:    "Chinese Cuisine",
		Section:        "cuisine",
		Scope:          domain.ScopeCountry,
		Content:        map[string]any{"name": "Chinese Cuisine", "rating": 4.5},
		SourceLocation: shanghaiAddr(),
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if written.IsExpired() {
		t.Error("freshly written entity must not be expired")
	}

	got, ok := s.Get("cuisine:chinese_cuisine")
	if !ok {
		t.Fatal("expected entity after write")
	}
	if got.EntityID != "cuisine:chinese_cuisine" || got.Section != "cuisine" || got.Scope != domain.ScopeCountry {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.Content["name"] != "Chinese Cuisine" || got.Content["rating"] != 4.5 {
		t.Errorf("content mismatch: %+v", got.Content)
	}
	if got.SourceLocation.CountryCode != "CN" {
		t.Errorf("source location mismatch: %+v", got.SourceLocation)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestEntityStore(t)
	if _, ok := s.Get("cuisine:nope"); ok {
		t.Error("expected miss for never-written entity")
	}
	if s.Exists("cuisine:nope") {
		t.Error("expected Exists false")
	}
}

func TestWriteAlwaysOverwrites(t *testing.T) {
	s := newTestEntityStore(t)

	p := domain.WriteParams{
		EntityID:       "cuisine:sichuan",
		DisplayName:    "Sichuan",
		Section:        "cuisine",
		Scope:          domain.ScopeCountry,
		Content:        map[string]any{"v": "one"},
		SourceLocation: shanghaiAddr(),
	}
	first, err := s.Write(p)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	p.Content = map[string]any{"v": "two"}
	p.TTLHours = f64(1)
	second, err := s.Write(p)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	if !second.CreatedAt.After(first.CreatedAt) && !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("rewrite must stamp a fresh CreatedAt")
	}
	if !second.ExpiresAt.Before(first.ExpiresAt) {
		t.Error("shorter TTL must move ExpiresAt earlier")
	}

	got, _ := s.Get("cuisine:sichuan")
	if got.Content["v"] != "two" {
		t.Errorf("last write must win, got %v", got.Content["v"])
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	s := newTestEntityStore(t)
	if err := s.Delete("cuisine:ghost"); err != nil {
		t.Errorf("delete of absent entity must not error: %v", err)
	}
}

func TestExpiryAndPrune(t *testing.T) {
	s := newTestEntityStore(t)

	expired, err := s.Write(domain.WriteParams{
		EntityID:       "cuisine:stale",
		Section:        "cuisine",
		Scope:          domain.ScopeGlobal,
		Content:        map[string]any{},
		SourceLocation: shanghaiAddr(),
		TTLHours:       f64(-1),
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !expired.IsExpired() {
		t.Fatal("negative TTL must expire immediately")
	}

	if _, err := s.Write(domain.WriteParams{
		EntityID:       "poi:fresh",
		Section:        "poi",
		Scope:          domain.ScopeGlobal,
		Content:        map[string]any{},
		SourceLocation: shanghaiAddr(),
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	removed, err := s.PruneExpired()
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 pruned, got %d", removed)
	}
	if s.Exists("cuisine:stale") {
		t.Error("expired entity must be gone after prune")
	}
	if !s.Exists("poi:fresh") {
		t.Error("fresh entity must survive prune")
	}
}

func TestCanReuseExisting(t *testing.T) {
	shanghai := domain.Location{CountryCode: "CN", AdminArea: "Shanghai", Locality: "Shanghai"}
	guangzhou := domain.Location{CountryCode: "CN", AdminArea: "Guangdong", Locality: "Guangzhou"}
	lisbon := domain.Location{CountryCode: "PT", AdminArea: "Lisboa", Locality: "Lisbon"}

	tests := []struct {
		name    string
		scope   string
		current domain.Location
		want    bool
	}{
		{"country scope, same country different city", domain.ScopeCountry, guangzhou, true},
		{"country scope, different country", domain.ScopeCountry, lisbon, false},
		{"global scope, anywhere", domain.ScopeGlobal, lisbon, true},
		{"unrecognized scope treated as global", "planetary", lisbon, true},
		{"adminArea scope, different admin area", domain.ScopeAdminArea, guangzhou, false},
		{"adminArea scope, same admin area", domain.ScopeAdminArea, shanghai, true},
		{"locality scope, same locality", domain.ScopeLocality, shanghai, true},
		{"locality scope, different locality", domain.ScopeLocality, guangzhou, false},
		{"coordinate scope never reused", domain.ScopeCoordinate, shanghai, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestEntityStore(t)
			if _, err := s.Write(domain.WriteParams{
				EntityID:       "cuisine:test",
				Section:        "cuisine",
				Scope:          tt.scope,
				Content:        map[string]any{},
				SourceLocation: shanghai.Address(),
			}); err != nil {
				t.Fatalf("write: %v", err)
			}
			if got := s.CanReuseExisting("cuisine:test", tt.scope, tt.current); got != tt.want {
				t.Errorf("CanReuseExisting = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanReuseExistingMissingOrExpired(t *testing.T) {
	s := newTestEntityStore(t)

	if s.CanReuseExisting("cuisine:never", domain.ScopeGlobal, domain.Location{}) {
		t.Error("never-written entity must not be reusable")
	}

	if _, err := s.Write(domain.WriteParams{
		EntityID:       "cuisine:gone",
		Section:        "cuisine",
		Scope:          domain.ScopeGlobal,
		Content:        map[string]any{},
		SourceLocation: shanghaiAddr(),
		TTLHours:       f64(-1),
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if s.CanReuseExisting("cuisine:gone", domain.ScopeGlobal, domain.Location{}) {
		t.Error("expired entity must not be reusable, even with global scope")
	}
}

func TestListEntitiesAndSections(t *testing.T) {
	s := newTestEntityStore(t)

	for _, id := range []string{"cuisine:a", "cuisine:b", "poi:c"} {
		if _, err := s.Write(domain.WriteParams{
			EntityID:       id,
			Section:        domain.SectionOf(id),
			Scope:          domain.ScopeGlobal,
			Content:        map[string]any{},
			SourceLocation: shanghaiAddr(),
		}); err != nil {
			t.Fatalf("write %s: %v", id, err)
		}
	}

	ids, err := s.ListEntities("cuisine")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 cuisine entities, got %v", ids)
	}

	sections, err := s.Sections()
	if err != nil {
		t.Fatalf("sections: %v", err)
	}
	if len(sections) != 2 {
		t.Errorf("expected 2 sections, got %v", sections)
	}
}

func TestCorruptRecordIsAMiss(t *testing.T) {
	base := newTestStore(t)
	s := NewEntityStore(base, adapter.NullLogger())

	// Plant garbage directly, bypassing the JSON marshal path.
	err := base.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(bucketEntities).CreateBucketIfNotExists([]byte("cuisine"))
		if err != nil {
			return err
		}
		return b.Put([]byte("cuisine:bad"), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("plant corrupt record: %v", err)
	}

	if _, ok := s.Get("cuisine:bad"); ok {
		t.Error("corrupt record must read as a miss")
	}
	if s.CanReuseExisting("cuisine:bad", domain.ScopeGlobal, domain.Location{}) {
		t.Error("corrupt record must not be reusable")
	}
	// Prune must not fail on it either.
	if _, err := s.PruneExpired(); err != nil {
		t.Errorf("prune with corrupt record: %v", err)
	}
}
