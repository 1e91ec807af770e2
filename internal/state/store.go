package state

import (
	"log"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// AuditEntry records one write to the store.
type AuditEntry struct {
	Action      string `json:"action"`
	Key         string `json:"key"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
}

// Summary is the point-in-time view returned by Summary().
type Summary struct {
	TotalWrites int          `json:"total_writes"`
	CurrentKeys []string     `json:"current_keys"`
	LastEntries []AuditEntry `json:"last_entries"`
}

// AuditTail is how many trailing audit entries a Summary carries.
const AuditTail = 5

// Store is the shared key/value store for one collection run: generic
// data keys with a full audit log of writes, plus the processed-title
// membership set. Methods never return errors; absent keys yield the
// caller's default.
//
// Mutex is required because a status snapshot may be read from a
// goroutine other than the one driving the run (same reasoning as the
// job cache map in the scraper this is derived from).
type Store struct {
	mu        sync.Mutex
	data      map[string]any
	processed mapset.Set[string]
	audit     []AuditEntry
}

func NewStore() *Store {
	return &Store{
		data:      make(map[string]any),
		processed: mapset.NewThreadUnsafeSet[string](),
	}
}

// Set overwrites key and appends an audit entry.
func (s *Store) Set(key string, value any, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.audit = append(s.audit, AuditEntry{
		Action:      "set",
		Key:         key,
		Description: description,
		Timestamp:   time.Now().UnixMilli(),
	})
}

// Get returns the stored value, or def when the key is absent.
func (s *Store) Get(key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.data[key]; ok {
		return v
	}
	return def
}

func (s *Store) MarkProcessed(title string, done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if done {
		s.processed.Add(title)
	} else {
		s.processed.Remove(title)
	}
}

func (s *Store) IsProcessed(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed.Contains(title)
}

func (s *Store) ProcessedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed.Cardinality()
}

// Clear removes one key, or with an empty key resets the whole store
// (data, processed set and audit log). The full reset runs exactly once,
// at run start: a fresh run must never observe a prior run's residue.
func (s *Store) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key != "" {
		delete(s.data, key)
		return
	}
	s.data = make(map[string]any)
	s.processed = mapset.NewThreadUnsafeSet[string]()
	s.audit = nil
	log.Println("🗑️ State store reset")
}

func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tail := s.audit
	if len(tail) > AuditTail {
		tail = tail[len(tail)-AuditTail:]
	}
	last := make([]AuditEntry, len(tail))
	copy(last, tail)

	return Summary{
		TotalWrites: len(s.audit),
		CurrentKeys: keys,
		LastEntries: last,
	}
}
