package collector

import (
	"context"

	"go-xhs-note-automation/internal/driver"
)

// fakeDriver is a scripted PageDriver: pages of titles, per-title
// metric rows, and injectable failures, with call counters for
// asserting what the pipeline actually issued.
type fakeDriver struct {
	pages   [][]string
	pageIdx int

	metrics    map[string][]driver.MetricRow
	urls       map[string]string
	titleShown map[string]string
	openErr    map[string]error
	rowsErr    map[string]error

	gotoErr     error
	listErr     error
	nextPageErr error
	closeErr    error

	current string

	gotoCalls  int
	listCalls  int
	nextCalls  int
	openCalls  []string
	closeCalls int
}

func newFakeDriver(pages ...[]string) *fakeDriver {
	return &fakeDriver{
		pages:      pages,
		metrics:    make(map[string][]driver.MetricRow),
		urls:       make(map[string]string),
		titleShown: make(map[string]string),
		openErr:    make(map[string]error),
		rowsErr:    make(map[string]error),
	}
}

func (f *fakeDriver) GotoListPage(ctx context.Context, page int) error {
	f.gotoCalls++
	return f.gotoErr
}

func (f *fakeDriver) ListCandidateTitles(ctx context.Context) ([]string, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.pageIdx < len(f.pages) {
		return f.pages[f.pageIdx], nil
	}
	return nil, nil
}

func (f *fakeDriver) NextPage(ctx context.Context) error {
	f.nextCalls++
	if f.nextPageErr != nil {
		return f.nextPageErr
	}
	f.pageIdx++
	return nil
}

func (f *fakeDriver) OpenDetail(ctx context.Context, title string) error {
	f.openCalls = append(f.openCalls, title)
	if err := f.openErr[title]; err != nil {
		return err
	}
	f.current = title
	return nil
}

func (f *fakeDriver) DetailTitle(ctx context.Context) (string, error) {
	if shown, ok := f.titleShown[f.current]; ok {
		return shown, nil
	}
	return f.current, nil
}

func (f *fakeDriver) ReadMetricRows(ctx context.Context) ([]driver.MetricRow, error) {
	if err := f.rowsErr[f.current]; err != nil {
		return nil, err
	}
	return f.metrics[f.current], nil
}

func (f *fakeDriver) CopyCanonicalURL(ctx context.Context) (string, error) {
	if url, ok := f.urls[f.current]; ok {
		return url, nil
	}
	return "https://www.xiaohongshu.com/note/" + f.current, nil
}

func (f *fakeDriver) CloseDetail(ctx context.Context) error {
	f.closeCalls++
	f.current = ""
	return f.closeErr
}

// fakeOracle returns a canned raw response (or error) and records what
// it was asked.
type fakeOracle struct {
	response string
	err      error

	calls          int
	lastCandidates []string
	lastTarget     string
}

func (f *fakeOracle) Classify(ctx context.Context, candidates []string, target string) (string, error) {
	f.calls++
	f.lastCandidates = candidates
	f.lastTarget = target
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
