package collector

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-xhs-note-automation/internal/driver"
	"go-xhs-note-automation/internal/oracle"
	"go-xhs-note-automation/internal/state"
)

// maxConsecutiveFailures is the circuit breaker threshold: this many
// extraction failures in a row end the run with whatever was already
// collected.
const maxConsecutiveFailures = 3

// RunResult is what the run trigger gets back. Success means at least
// one usable record, even when the run ended early; false is reserved
// for zero records.
type RunResult struct {
	Success bool         `json:"success"`
	Records []NoteRecord `json:"records"`
	Message string       `json:"message"`
}

// Orchestrator composes pagination, relevance filtering and detail
// extraction into one sequential run over a single browser session.
// Strictly one page, one oracle call and one note at a time: the UI
// session is a single mutable resource, so there is no parallel
// fan-out anywhere.
type Orchestrator struct {
	driver    driver.PageDriver
	filter    *RelevanceFilter
	paginator *Paginator
	extractor *Extractor
	state     *RunState

	// consecutive extraction failures, carried across page boundaries
	consecutive int
}

func NewOrchestrator(d driver.PageDriver, oc oracle.Client, store *state.Store, target string, maxPages int) *Orchestrator {
	return &Orchestrator{
		driver:    d,
		filter:    NewRelevanceFilter(oc),
		paginator: NewPaginator(d),
		extractor: NewExtractor(d),
		state:     NewRunState(store, target, maxPages),
	}
}

// Snapshot reports current progress. Callable at any time, including
// after termination; it never blocks on in-flight driver work.
func (o *Orchestrator) Snapshot() Status {
	return o.state.Snapshot()
}

// Run executes the collection loop until the page bound, a pagination
// failure, the circuit breaker, or cancellation ends it. Every exit
// path returns the records collected so far.
func (o *Orchestrator) Run(ctx context.Context) RunResult {
	log.Printf("🚀 Starting collection run: target=%q, max_pages=%d", o.state.Target(), o.state.MaxPages())

	if err := o.driver.GotoListPage(ctx, 1); err != nil {
		log.Printf("❌ Could not open note list: %v", err)
		return o.finish(fmt.Sprintf("driver unavailable: %v", err))
	}

	for {
		if err := ctx.Err(); err != nil {
			return o.finish(fmt.Sprintf("run cancelled: %v", err))
		}

		page := o.state.CurrentPage()
		titles, err := o.driver.ListCandidateTitles(ctx)
		if err != nil {
			log.Printf("❌ Failed to list titles on page %d: %v", page, err)
			return o.finish(fmt.Sprintf("page discovery failed on page %d: %v", page, err))
		}
		log.Printf("📋 Page %d: %d candidate titles", page, len(titles))

		relevant, err := o.filter.Filter(ctx, o.state, titles)
		if err != nil {
			// page-scoped failure: degrade to zero relevant items
			var oe *OracleError
			if errors.As(err, &oe) && oe.Raw != "" {
				log.Printf("⚠️ Raw oracle response: %s", oe.Raw)
			}
			log.Printf("⚠️ Relevance filter failed on page %d, treating as no relevant titles: %v", page, err)
			relevant = nil
			o.state.SetRelevant(nil)
		}

		if tripped := o.extractBatch(ctx, relevant); tripped {
			return o.finish(fmt.Sprintf("circuit breaker tripped after %d consecutive extraction failures", maxConsecutiveFailures))
		}
		if err := ctx.Err(); err != nil {
			return o.finish(fmt.Sprintf("run cancelled: %v", err))
		}

		if err := o.paginator.Advance(ctx, o.state); err != nil {
			if errors.Is(err, ErrLimitReached) {
				log.Printf("🏁 Page bound reached at page %d", o.state.CurrentPage())
				return o.finish("page limit reached")
			}
			// pagination failure is run completion with partial
			// results, not a crash
			log.Printf("⚠️ Pagination failed, finishing with partial results: %v", err)
			return o.finish(fmt.Sprintf("pagination failed: %v", err))
		}
	}
}

// extractBatch processes the page's relevant titles in display order.
// The consecutive-failure counter spans page boundaries; skips neither
// count toward nor reset it, only a successful extraction resets it.
func (o *Orchestrator) extractBatch(ctx context.Context, titles []string) (tripped bool) {
	for i, title := range titles {
		if ctx.Err() != nil {
			return false
		}

		_, err := o.extractor.Process(ctx, o.state, title)
		switch {
		case err == nil:
			o.consecutive = 0
		case errors.Is(err, ErrAlreadyProcessed):
			//skipped, not a strike
		default:
			o.consecutive++
			log.Printf("❌ Extraction failed (%d/%d consecutive): %v", o.consecutive, maxConsecutiveFailures, err)
			if o.consecutive >= maxConsecutiveFailures {
				log.Printf("🛑 Circuit breaker tripped, abandoning %d remaining titles", len(titles)-i-1)
				return true
			}
		}
	}
	return false
}

func (o *Orchestrator) finish(msg string) RunResult {
	records := o.state.Collected()
	status := o.Snapshot()
	log.Printf("📊 Run finished: %d collected, %d processed, page %d (%s)",
		status.CollectedCount, status.ProcessedCount, status.CurrentPage, msg)
	return RunResult{
		Success: len(records) > 0,
		Records: records,
		Message: msg,
	}
}
