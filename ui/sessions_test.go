package ui

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/hannaerdza/titanic-visualization/internal"
	"github.com/hannaerdza/titanic-visualization/internal/dashboard"
	"github.com/hannaerdza/titanic-visualization/internal/metrics"
)

func TestSessionRegistry_GetAndSweep(t *testing.T) {
	m := metrics.New()
	now := time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)
	reg := NewSessionRegistry(func() *dashboard.Store {
		return dashboard.NewStore(newFakeAPI(), dashboard.WithLogger(internal.NewNopLogger()))
	}, 30*time.Minute, m)
	reg.now = func() time.Time { return now }

	id, store := reg.Get("")
	assert.NotEmpty(t, id)

	sameID, sameStore := reg.Get(id)
	assert.Equal(t, id, sameID)
	assert.Same(t, store, sameStore)

	otherID, _ := reg.Get("not-a-uuid")
	assert.NotEqual(t, id, otherID)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ActiveSessions))

	now = now.Add(20 * time.Minute)
	reg.Get(id)
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))

	_, fresh := reg.Get(otherID)
	assert.NotSame(t, store, fresh)
}
