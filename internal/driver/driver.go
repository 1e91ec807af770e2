// Define an interface for the dashboard page driver
// The collection core only talks to this contract; the playwright
// implementation lives in driver/xhs

package driver

import "context"

// MetricRow is one label/value pair from a note detail modal,
// e.g. {"总曝光量", "36.3万"}.
type MetricRow struct {
	Label    string
	RawValue string
}

// PageDriver is the single browser session the pipeline drives. All
// calls are potentially long-latency and must not be overlapped: one
// modal, one page, one instruction at a time.
type PageDriver interface {
	// GotoListPage navigates to the note list at the given page index
	// (1-based).
	GotoListPage(ctx context.Context, page int) error

	// ListCandidateTitles returns the note titles on the current page,
	// in display order.
	ListCandidateTitles(ctx context.Context) ([]string, error)

	// NextPage advances the list by one page.
	NextPage(ctx context.Context) error

	// OpenDetail opens the detail modal for the note with this title.
	OpenDetail(ctx context.Context, title string) error

	// DetailTitle reads the title displayed by the open modal.
	DetailTitle(ctx context.Context) (string, error)

	// ReadMetricRows reads every metric row the open modal exposes.
	ReadMetricRows(ctx context.Context) ([]MetricRow, error)

	// CopyCanonicalURL retrieves the note's canonical URL via the
	// modal's copy-link control.
	CopyCanonicalURL(ctx context.Context) (string, error)

	// CloseDetail closes the open modal. Callers must attempt this even
	// after a failed extraction: an unclosed modal blocks everything
	// that follows on the page.
	CloseDetail(ctx context.Context) error
}
