package rotation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygrow/internal/repositories/memory"
)

func newPool(t *testing.T, capacity int, upiIDs ...string) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(store.Channels(), capacity)
	for _, id := range upiIDs {
		_, err := svc.Add(id, capacity)
		require.NoError(t, err)
	}
	return svc, store
}

func TestAddFirstChannelStartsActive(t *testing.T) {
	svc, _ := newPool(t, 10, "a@upi", "b@upi", "c@upi")

	chs, err := svc.List()
	require.NoError(t, err)
	require.Len(t, chs, 3)

	assert.True(t, chs[0].Active)
	assert.False(t, chs[1].Active)
	assert.False(t, chs[2].Active)
	assert.Equal(t, []int{1, 2, 3}, []int{chs[0].Ordinal, chs[1].Ordinal, chs[2].Ordinal})
}

func TestActiveChannelSelfHeals(t *testing.T) {
	svc, store := newPool(t, 10, "a@upi", "b@upi")

	// Knock the active flag off every row.
	chs, _ := store.Channels().List()
	for i := range chs {
		chs[i].Active = false
		require.NoError(t, store.Channels().Save(&chs[i]))
	}

	ch, err := svc.ActiveChannel()
	require.NoError(t, err)
	assert.Equal(t, 1, ch.Ordinal)
	assert.True(t, ch.Active)
}

func TestActiveChannelEmptyPool(t *testing.T) {
	svc, _ := newPool(t, 10)

	_, err := svc.ActiveChannel()
	assert.ErrorIs(t, err, ErrNoChannelsAvailable)
}

func TestRecordSuccessRotatesAtCapacity(t *testing.T) {
	svc, _ := newPool(t, 3, "a@upi", "b@upi")

	for i := 0; i < 2; i++ {
		ch, err := svc.RecordSuccess()
		require.NoError(t, err)
		assert.Equal(t, "a@upi", ch.UPIID)
	}

	// Third success fills a@upi and hands the flag to b@upi.
	ch, err := svc.RecordSuccess()
	require.NoError(t, err)
	assert.Equal(t, "a@upi", ch.UPIID)
	assert.Equal(t, 3, ch.SuccessCount)

	chs, _ := svc.List()
	assert.False(t, chs[0].Active)
	assert.Equal(t, 0, chs[0].SuccessCount, "outgoing channel restarts its cycle at zero")
	assert.True(t, chs[1].Active)
}

func TestRecordSuccessWrapsAround(t *testing.T) {
	svc, _ := newPool(t, 2, "a@upi", "b@upi", "c@upi")

	// Fill every channel once; the flag should come back to the start.
	for i := 0; i < 6; i++ {
		_, err := svc.RecordSuccess()
		require.NoError(t, err, fmt.Sprintf("success %d", i))
	}

	active, err := svc.ActiveChannel()
	require.NoError(t, err)
	assert.Equal(t, 1, active.Ordinal)
	assert.Equal(t, 0, active.SuccessCount)
}

func TestRecordSuccessSingleChannelPool(t *testing.T) {
	svc, _ := newPool(t, 2, "only@upi")

	for i := 0; i < 5; i++ {
		_, err := svc.RecordSuccess()
		require.NoError(t, err)
	}

	active, err := svc.ActiveChannel()
	require.NoError(t, err)
	assert.Equal(t, "only@upi", active.UPIID)
	assert.Equal(t, 1, active.SuccessCount)
}

func TestRemoveActiveChannelHealsOnNextRead(t *testing.T) {
	svc, _ := newPool(t, 10, "a@upi", "b@upi")

	chs, _ := svc.List()
	require.NoError(t, svc.Remove(chs[0].ID))

	active, err := svc.ActiveChannel()
	require.NoError(t, err)
	assert.Equal(t, "b@upi", active.UPIID)
}

func TestPoolStatsCountsLifetimePayments(t *testing.T) {
	svc, _ := newPool(t, 2, "a@upi", "b@upi")

	// Four successes span a rotation; the lifetime count must not reset
	// with the per-cycle counters.
	for i := 0; i < 4; i++ {
		_, err := svc.RecordSuccess()
		require.NoError(t, err)
	}

	stats, err := svc.PoolStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalChannels)
	assert.Equal(t, int64(4), stats.TotalPayments)
	require.NotNil(t, stats.Active)
	assert.Equal(t, "a@upi", stats.Active.UPIID)
}
