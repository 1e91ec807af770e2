package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-xhs-note-automation/internal/driver"
	"go-xhs-note-automation/internal/state"
)

func TestExtractorCollectsRecord(t *testing.T) {
	d := newFakeDriver([]string{"国企求职攻略"})
	d.metrics["国企求职攻略"] = []driver.MetricRow{
		{Label: "总曝光量", RawValue: "5万"},
		{Label: "总阅读量", RawValue: "1.2万"},
		{Label: "总点赞量", RawValue: "3千"},
		{Label: "总收藏量", RawValue: "800"},
		{Label: "总评论量", RawValue: "156"},
		{Label: "总互动量", RawValue: "4,100"},
	}
	st := NewRunState(state.NewStore(), "target", 1)
	e := NewExtractor(d)

	rec, err := e.Process(context.Background(), st, "国企求职攻略")
	require.NoError(t, err)
	assert.Equal(t, NoteRecord{
		Title:      "国企求职攻略",
		URL:        "https://www.xiaohongshu.com/note/国企求职攻略",
		Impression: 50000,
		Click:      12000,
		Like:       3000,
		Collect:    800,
		Comment:    156,
		Engage:     4100,
	}, rec)
	assert.Equal(t, 1, st.CollectedCount())
	assert.True(t, st.IsProcessed("国企求职攻略"))
	assert.Equal(t, 1, d.closeCalls)
}

func TestExtractorIdempotent(t *testing.T) {
	d := newFakeDriver([]string{"a"})
	st := NewRunState(state.NewStore(), "target", 1)
	e := NewExtractor(d)

	_, err := e.Process(context.Background(), st, "a")
	require.NoError(t, err)

	//second pass over the same title is a no-op, not a duplicate
	_, err = e.Process(context.Background(), st, "a")
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, 1, st.CollectedCount())
	assert.Len(t, d.openCalls, 1)
}

func TestExtractorClosesModalOnFailure(t *testing.T) {
	d := newFakeDriver([]string{"a"})
	d.rowsErr["a"] = fmt.Errorf("metric panel missing")
	st := NewRunState(state.NewStore(), "target", 1)
	e := NewExtractor(d)

	_, err := e.Process(context.Background(), st, "a")
	var xe *ExtractionError
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, "a", xe.Title)

	//close is attempted even when extraction failed mid-modal
	assert.Equal(t, 1, d.closeCalls)
	//a failed title stays unprocessed so a later re-scan can retry it
	assert.False(t, st.IsProcessed("a"))
	assert.Equal(t, 0, st.CollectedCount())
}

func TestExtractorOpenFailureSkipsClose(t *testing.T) {
	d := newFakeDriver([]string{"a"})
	d.openErr["a"] = fmt.Errorf("title not clickable")
	st := NewRunState(state.NewStore(), "target", 1)
	e := NewExtractor(d)

	_, err := e.Process(context.Background(), st, "a")
	var xe *ExtractionError
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, 0, d.closeCalls)
}

func TestExtractorTitleMismatchIsNotFatal(t *testing.T) {
	d := newFakeDriver([]string{"a"})
	d.titleShown["a"] = "stale title from previous modal"
	st := NewRunState(state.NewStore(), "target", 1)
	e := NewExtractor(d)

	rec, err := e.Process(context.Background(), st, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.Title)
}

func TestExtractorUnknownLabelsIgnoredAndDefaultsZero(t *testing.T) {
	d := newFakeDriver([]string{"a"})
	d.metrics["a"] = []driver.MetricRow{
		{Label: "总曝光量", RawValue: "100"},
		{Label: "总分享量", RawValue: "999"}, //not a canonical metric
	}
	st := NewRunState(state.NewStore(), "target", 1)
	e := NewExtractor(d)

	rec, err := e.Process(context.Background(), st, "a")
	require.NoError(t, err)
	assert.Equal(t, 100, rec.Impression)
	assert.Equal(t, 0, rec.Click)
	assert.Equal(t, 0, rec.Engage)
}

func TestExtractorURLFallback(t *testing.T) {
	d := newFakeDriver([]string{"a"})
	d.urls["a"] = ""
	st := NewRunState(state.NewStore(), "target", 1)
	e := NewExtractor(d)

	rec, err := e.Process(context.Background(), st, "a")
	require.NoError(t, err)
	//a missing URL degrades to the placeholder, it does not fail the item
	assert.Equal(t, URLUnknown, rec.URL)
}
