package collector

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go-xhs-note-automation/internal/driver"
	"go-xhs-note-automation/internal/normalize"
)

// URLUnknown is recorded when the copy-link control yields nothing; a
// missing URL does not fail an otherwise good extraction.
const URLUnknown = "unknown"

// Extractor drives open -> extract -> close for one note's detail
// modal and appends the result to the run state.
type Extractor struct {
	driver driver.PageDriver
}

func NewExtractor(d driver.PageDriver) *Extractor {
	return &Extractor{driver: d}
}

// Process extracts one note. Already-processed titles short-circuit
// with ErrAlreadyProcessed: re-entering a title after a partial page
// re-scan is a no-op, never a duplicate record. The modal close is
// attempted even when extraction fails, because an unclosed modal
// blocks every later action on the page.
func (e *Extractor) Process(ctx context.Context, st *RunState, title string) (NoteRecord, error) {
	if st.IsProcessed(title) {
		log.Printf("⏭️ Skipping already processed note: %s", title)
		return NoteRecord{}, ErrAlreadyProcessed
	}

	if err := e.driver.OpenDetail(ctx, title); err != nil {
		return NoteRecord{}, &ExtractionError{Title: title, Err: fmt.Errorf("open detail: %w", err)}
	}
	// close must run even when ctx was cancelled mid-extraction,
	// otherwise the session is unusable for the next run
	defer func() {
		if err := e.driver.CloseDetail(context.WithoutCancel(ctx)); err != nil {
			log.Printf("⚠️ Failed to close detail modal for %q: %v", title, err)
		}
	}()

	shown, err := e.driver.DetailTitle(ctx)
	if err != nil {
		return NoteRecord{}, &ExtractionError{Title: title, Err: fmt.Errorf("read modal title: %w", err)}
	}
	if strings.TrimSpace(shown) != title {
		// the dashboard shows stale titles during modal transitions;
		// warn and keep extracting
		log.Printf("⚠️ Modal title mismatch: want %q, got %q", title, shown)
	}

	url, err := e.driver.CopyCanonicalURL(ctx)
	if err != nil || strings.TrimSpace(url) == "" {
		log.Printf("⚠️ Could not copy note link for %q: %v", title, err)
		url = URLUnknown
	}

	rows, err := e.driver.ReadMetricRows(ctx)
	if err != nil {
		return NoteRecord{}, &ExtractionError{Title: title, Err: fmt.Errorf("read metric rows: %w", err)}
	}

	rec := NoteRecord{Title: title, URL: url}
	for _, row := range rows {
		value := normalize.Value(row.RawValue)
		switch strings.TrimSpace(row.Label) {
		case "总曝光量":
			rec.Impression = value
		case "总阅读量":
			rec.Click = value
		case "总点赞量":
			rec.Like = value
		case "总收藏量":
			rec.Collect = value
		case "总评论量":
			rec.Comment = value
		case "总互动量":
			rec.Engage = value
		default:
			// unrecognized metric label, ignore
		}
	}

	st.AppendCollected(rec)
	st.MarkProcessed(title)
	log.Printf("✅ Collected %q (impression=%d, engage=%d)", title, rec.Impression, rec.Engage)
	return rec, nil
}
