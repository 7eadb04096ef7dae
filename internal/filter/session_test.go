package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
)

func TestSessionsReturnSameInstancePerID(t *testing.T) {
	sessions := NewSessions(time.Minute, nil)

	a := sessions.Get("client-1")
	b := sessions.Get("client-1")
	other := sessions.Get("client-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
}

func TestSessionApplyResetsPagination(t *testing.T) {
	sessions := NewSessions(time.Minute, nil)
	sess := sessions.Get("client-1")

	sess.SetPage(7)
	sess.Draft.Update(model.FilterPatch{SearchQuery: strPtr("transport")})
	sess.Apply()

	assert.Equal(t, 1, sess.Page())
	assert.Equal(t, "transport", sess.Store.Values().SearchQuery)
}

func TestSessionClearResetsPaginationAndFilters(t *testing.T) {
	sessions := NewSessions(time.Minute, nil)
	sess := sessions.Get("client-1")

	sess.SetPage(4)
	sess.Draft.Update(model.FilterPatch{SearchQuery: strPtr("unapplied")})
	sess.Clear()

	assert.Equal(t, 1, sess.Page())
	assert.Equal(t, model.DefaultFilterValues(), sess.Store.Values())
	assert.Equal(t, model.DefaultFilterValues(), sess.Draft.Values())
}

func TestSessionSetPageFloorsAtOne(t *testing.T) {
	sessions := NewSessions(time.Minute, nil)
	sess := sessions.Get("client-1")

	sess.SetPage(0)
	assert.Equal(t, 1, sess.Page())
	sess.SetPage(-3)
	assert.Equal(t, 1, sess.Page())
}
