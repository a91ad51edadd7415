package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savora/models"
)

type fakeLedger struct {
	paid  map[string]bool
	calls int
	err   error
}

func (f *fakeLedger) MarkPaid(_ context.Context, orderID string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	if f.paid[orderID] {
		return false, nil
	}
	f.paid[orderID] = true
	return true, nil
}

func withFakeLedger(t *testing.T, fake *fakeLedger) *[]models.OrderEvent {
	t.Helper()
	origLedger, origEmit := ledger, emitEvent
	t.Cleanup(func() {
		ledger, emitEvent = origLedger, origEmit
	})

	events := &[]models.OrderEvent{}
	ledger = fake
	emitEvent = func(_ context.Context, e models.OrderEvent) {
		*events = append(*events, e)
	}
	return events
}

func TestSettleEmitsPaidExactlyOnce(t *testing.T) {
	fake := &fakeLedger{paid: map[string]bool{}}
	events := withFakeLedger(t, fake)

	// dual delivery: redirect callback and webhook both settle
	require.NoError(t, settle(context.Background(), "o1"))
	require.NoError(t, settle(context.Background(), "o1"))

	assert.Equal(t, 2, fake.calls)
	require.Len(t, *events, 1)
	assert.Equal(t, "paid", (*events)[0].Kind)
	assert.Equal(t, "o1", (*events)[0].OrderID)
}

func TestSettleEmitsPerOrder(t *testing.T) {
	fake := &fakeLedger{paid: map[string]bool{}}
	events := withFakeLedger(t, fake)

	require.NoError(t, settle(context.Background(), "o1"))
	require.NoError(t, settle(context.Background(), "o2"))
	require.NoError(t, settle(context.Background(), "o1"))

	require.Len(t, *events, 2)
	assert.Equal(t, "o1", (*events)[0].OrderID)
	assert.Equal(t, "o2", (*events)[1].OrderID)
}

func TestSettleDoesNotEmitOnLedgerError(t *testing.T) {
	fake := &fakeLedger{err: errors.New("write failed")}
	events := withFakeLedger(t, fake)

	assert.Error(t, settle(context.Background(), "o1"))
	assert.Empty(t, *events)
}
