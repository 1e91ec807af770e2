package collector

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-xhs-note-automation/internal/driver"
	"go-xhs-note-automation/internal/state"
)

// seqOracle returns a different canned response (or error) per call.
type seqOracle struct {
	responses []string
	errs      []error
	calls     int
}

func (o *seqOracle) Classify(ctx context.Context, candidates []string, target string) (string, error) {
	i := o.calls
	o.calls++
	if i < len(o.errs) && o.errs[i] != nil {
		return "", o.errs[i]
	}
	if i < len(o.responses) {
		return o.responses[i], nil
	}
	return "[]", nil
}

func impressionRow(raw string) []driver.MetricRow {
	return []driver.MetricRow{{Label: "总曝光量", RawValue: raw}}
}

func TestOrchestratorEndToEnd(t *testing.T) {
	d := newFakeDriver([]string{"国企求职攻略", "美食推荐", "考公上岸经验"})
	d.metrics["国企求职攻略"] = impressionRow("5万")
	d.metrics["考公上岸经验"] = impressionRow("8000")
	oc := &fakeOracle{response: `["国企求职攻略", "考公上岸经验"]`}

	orch := NewOrchestrator(d, oc, state.NewStore(), "国企央企求职辅导", 1)
	result := orch.Run(context.Background())

	require.True(t, result.Success)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 50000, result.Records[0].Impression)
	assert.Equal(t, 8000, result.Records[1].Impression)

	status := orch.Snapshot()
	assert.Equal(t, 2, status.CollectedCount)
	assert.Equal(t, 2, status.ProcessedCount)
	assert.Equal(t, 2, status.RelevantCount)
	assert.Equal(t, 1, status.CurrentPage)

	//the irrelevant title was never opened or marked processed
	assert.NotContains(t, d.openCalls, "美食推荐")
	//max_pages = 1: no navigation may ever be issued
	assert.Equal(t, 0, d.nextCalls)
	assert.Equal(t, "page limit reached", result.Message)
}

func TestOrchestratorCircuitBreaker(t *testing.T) {
	d := newFakeDriver([]string{"t1", "t2", "t3", "t4", "t5"})
	d.metrics["t1"] = impressionRow("100")
	d.openErr["t2"] = fmt.Errorf("modal stuck")
	d.openErr["t3"] = fmt.Errorf("modal stuck")
	d.openErr["t4"] = fmt.Errorf("modal stuck")
	oc := &fakeOracle{response: `["t1", "t2", "t3", "t4", "t5"]`}

	orch := NewOrchestrator(d, oc, state.NewStore(), "target", 5)
	result := orch.Run(context.Background())

	//third consecutive failure trips the breaker; t5 is never attempted
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, d.openCalls)
	assert.Equal(t, 0, d.nextCalls)
	assert.Contains(t, result.Message, "circuit breaker")

	//partial success is success: t1 survived the abort
	assert.True(t, result.Success)
	assert.Equal(t, 1, orch.Snapshot().CollectedCount)
}

func TestOrchestratorSuccessResetsBreaker(t *testing.T) {
	d := newFakeDriver([]string{"t1", "t2", "t3", "t4", "t5"})
	d.openErr["t1"] = fmt.Errorf("boom")
	d.openErr["t2"] = fmt.Errorf("boom")
	d.metrics["t3"] = impressionRow("1")
	d.openErr["t4"] = fmt.Errorf("boom")
	d.metrics["t5"] = impressionRow("2")
	oc := &fakeOracle{response: `["t1", "t2", "t3", "t4", "t5"]`}

	orch := NewOrchestrator(d, oc, state.NewStore(), "target", 1)
	result := orch.Run(context.Background())

	//failures never reach 3 in a row, so the whole batch is attempted
	assert.Len(t, d.openCalls, 5)
	assert.Equal(t, 2, orch.Snapshot().CollectedCount)
	assert.Equal(t, "page limit reached", result.Message)
}

func TestOrchestratorResetInvariant(t *testing.T) {
	store := state.NewStore()
	//residue from a previous run on the same process-level store
	store.Set("collected_notes_count", 7, "stale")
	store.MarkProcessed("stale title", true)

	d := newFakeDriver([]string{})
	oc := &fakeOracle{response: `[]`}
	orch := NewOrchestrator(d, oc, store, "target", 1)

	status := orch.Snapshot()
	assert.Equal(t, 0, status.CollectedCount)
	assert.Equal(t, 0, status.ProcessedCount)
	assert.Equal(t, 1, status.CurrentPage)
}

func TestOrchestratorOracleErrorDegradesToEmptyPage(t *testing.T) {
	d := newFakeDriver([]string{"a"}, []string{"b"})
	d.metrics["b"] = impressionRow("10")
	oc := &seqOracle{
		errs:      []error{fmt.Errorf("oracle down"), nil},
		responses: []string{"", `["b"]`},
	}

	orch := NewOrchestrator(d, oc, state.NewStore(), "target", 2)
	result := orch.Run(context.Background())

	//page 1 degraded to zero relevant items, page 2 still ran
	assert.NotContains(t, d.openCalls, "a")
	assert.Contains(t, d.openCalls, "b")
	assert.True(t, result.Success)
	assert.Equal(t, 2, orch.Snapshot().CurrentPage)
}

func TestOrchestratorPaginationFailureKeepsPartialResults(t *testing.T) {
	d := newFakeDriver([]string{"a"})
	d.metrics["a"] = impressionRow("100")
	d.nextPageErr = fmt.Errorf("pager gone")
	oc := &fakeOracle{response: `["a"]`}

	orch := NewOrchestrator(d, oc, state.NewStore(), "target", 3)
	result := orch.Run(context.Background())

	assert.True(t, result.Success)
	require.Len(t, result.Records, 1)
	assert.Contains(t, result.Message, "pagination failed")
}

func TestOrchestratorDriverUnavailable(t *testing.T) {
	d := newFakeDriver([]string{"a"})
	d.gotoErr = fmt.Errorf("browser gone")
	oc := &fakeOracle{response: `["a"]`}

	orch := NewOrchestrator(d, oc, state.NewStore(), "target", 1)
	result := orch.Run(context.Background())

	assert.False(t, result.Success)
	assert.Empty(t, result.Records)
	assert.Contains(t, result.Message, "driver unavailable")
}

func TestOrchestratorCancellation(t *testing.T) {
	d := newFakeDriver([]string{"a"}, []string{"b"})
	d.metrics["a"] = impressionRow("1")
	oc := &fakeOracle{response: `["a"]`}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := NewOrchestrator(d, oc, state.NewStore(), "target", 2)
	result := orch.Run(ctx)

	assert.Contains(t, result.Message, "cancelled")
	//snapshot stays queryable after termination
	assert.Equal(t, 0, orch.Snapshot().CollectedCount)
}
