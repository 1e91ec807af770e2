package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-xhs-note-automation/internal/state"
)

func TestPaginatorAdvance(t *testing.T) {
	d := newFakeDriver([]string{"a"}, []string{"b"})
	st := NewRunState(state.NewStore(), "target", 3)
	p := NewPaginator(d)

	err := p.Advance(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, 2, st.CurrentPage())
	assert.Equal(t, 1, d.nextCalls)
}

func TestPaginatorBoundPrecedesNavigation(t *testing.T) {
	d := newFakeDriver([]string{"a"})
	st := NewRunState(state.NewStore(), "target", 2)
	st.SetCurrentPage(2)
	p := NewPaginator(d)

	err := p.Advance(context.Background(), st)
	assert.ErrorIs(t, err, ErrLimitReached)
	//the bound check must fire before any driver call
	assert.Equal(t, 0, d.nextCalls)
	assert.Equal(t, 2, st.CurrentPage())
}

func TestPaginatorDriverFailure(t *testing.T) {
	d := newFakeDriver([]string{"a"})
	d.nextPageErr = fmt.Errorf("pager button missing")
	st := NewRunState(state.NewStore(), "target", 5)
	p := NewPaginator(d)

	err := p.Advance(context.Background(), st)
	var df *DriverFailure
	require.True(t, errors.As(err, &df))
	//current_page must not move on a failed navigation
	assert.Equal(t, 1, st.CurrentPage())
}
