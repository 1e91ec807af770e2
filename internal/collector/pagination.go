package collector

import (
	"context"

	"go-xhs-note-automation/internal/driver"
)

// Paginator advances the list UI up to the run's page bound. It holds
// no retry policy of its own; the orchestrator decides what a failure
// means.
type Paginator struct {
	driver driver.PageDriver
}

func NewPaginator(d driver.PageDriver) *Paginator {
	return &Paginator{driver: d}
}

// Advance moves the list to the next page and bumps current_page.
// The bound check comes before any driver call: navigation is expensive
// and must not be issued once the bound is met. On a driver failure
// current_page is left untouched.
func (p *Paginator) Advance(ctx context.Context, st *RunState) error {
	if st.CurrentPage() >= st.MaxPages() {
		return ErrLimitReached
	}

	if err := p.driver.NextPage(ctx); err != nil {
		return &DriverFailure{Op: "next page", Err: err}
	}

	st.SetCurrentPage(st.CurrentPage() + 1)
	return nil
}
