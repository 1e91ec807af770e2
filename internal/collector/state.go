package collector

import (
	"fmt"
	"sync"

	"go-xhs-note-automation/internal/state"
)

// Status is a point-in-time progress snapshot. It stays queryable
// after the run terminates, which is how a supervisor recovers partial
// results when the run itself died.
type Status struct {
	CollectedCount int                `json:"collected_count"`
	ProcessedCount int                `json:"processed_count"`
	CurrentPage    int                `json:"current_page"`
	RelevantCount  int                `json:"relevant_count"`
	TotalWrites    int                `json:"total_writes"`
	LastAudit      []state.AuditEntry `json:"last_audit"`
}

// RunState is the mutable state of one collection run. It is created at
// Init and passed by reference through the pipeline; sub-components may
// append to collected/processed and read the scalar fields, but never
// replace the structure.
type RunState struct {
	mu            sync.Mutex
	store         *state.Store
	target        string
	maxPages      int
	currentPage   int
	relevantCount int
	collected     []NoteRecord
}

// NewRunState resets the backing store and seeds a fresh run. The
// reset is what keeps a reused process-level store from leaking a
// prior run's collected/processed data into this one.
func NewRunState(store *state.Store, target string, maxPages int) *RunState {
	if maxPages < 1 {
		maxPages = 1
	}
	store.Clear("")
	store.Set("promotion_target", target, "run start")
	store.Set("max_pages", maxPages, "run start")
	store.Set("current_page", 1, "run start")
	return &RunState{
		store:       store,
		target:      target,
		maxPages:    maxPages,
		currentPage: 1,
	}
}

func (rs *RunState) Store() *state.Store { return rs.store }

func (rs *RunState) Target() string { return rs.target }

func (rs *RunState) MaxPages() int { return rs.maxPages }

func (rs *RunState) CurrentPage() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.currentPage
}

func (rs *RunState) SetCurrentPage(n int) {
	rs.mu.Lock()
	rs.currentPage = n
	rs.mu.Unlock()
	rs.store.Set("current_page", n, fmt.Sprintf("advanced to page %d", n))
}

// SetRelevant records the current page's relevant subset for the
// extractor and the status snapshot.
func (rs *RunState) SetRelevant(titles []string) {
	rs.mu.Lock()
	rs.relevantCount = len(titles)
	rs.mu.Unlock()
	rs.store.Set("related_titles", titles, fmt.Sprintf("%d relevant titles on current page", len(titles)))
	rs.store.Set("related_count", len(titles), "relevant title count")
}

func (rs *RunState) RelevantCount() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.relevantCount
}

func (rs *RunState) AppendCollected(rec NoteRecord) {
	rs.mu.Lock()
	rs.collected = append(rs.collected, rec)
	n := len(rs.collected)
	rs.mu.Unlock()
	rs.store.Set("collected_notes_count", n, fmt.Sprintf("collected %q", rec.Title))
}

// Collected returns a copy; callers must not be able to mutate the
// run's record list.
func (rs *RunState) Collected() []NoteRecord {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]NoteRecord, len(rs.collected))
	copy(out, rs.collected)
	return out
}

func (rs *RunState) CollectedCount() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.collected)
}

func (rs *RunState) MarkProcessed(title string) {
	rs.store.MarkProcessed(title, true)
}

func (rs *RunState) IsProcessed(title string) bool {
	return rs.store.IsProcessed(title)
}

func (rs *RunState) Snapshot() Status {
	sum := rs.store.Summary()
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return Status{
		CollectedCount: len(rs.collected),
		ProcessedCount: rs.store.ProcessedCount(),
		CurrentPage:    rs.currentPage,
		RelevantCount:  rs.relevantCount,
		TotalWrites:    sum.TotalWrites,
		LastAudit:      sum.LastEntries,
	}
}
