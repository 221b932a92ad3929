package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dues/internal/calculator"
	"github.com/mmynk/dues/internal/metrics"
	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage/memory"
	"github.com/mmynk/dues/internal/storage/storagetest"
)

func TestComputeDues_Memory(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	alice := storagetest.AddMember(t, store, "Alice")
	bob := storagetest.AddMember(t, store, "Bob")
	storagetest.AddExpense(t, store, alice, "Food", 1, map[*models.Member]string{alice: "10", bob: "10"})

	dues, err := ComputeDues(ctx, store, 2)
	require.NoError(t, err)
	require.Len(t, dues.Dues, 1)
	assert.Equal(t, "Bob", dues.Dues[0].From.Name)
	assert.Equal(t, "Alice", dues.Dues[0].To.Name)
	assert.Equal(t, "10", dues.Dues[0].Amount.String())
	require.Len(t, dues.Settlements, 1)

	require.Len(t, dues.Balances, 2)
	assert.Equal(t, "Alice", dues.Balances[0].Member.Name)
	assert.Equal(t, "10", dues.Balances[0].Net.String())
	assert.Equal(t, "-10", dues.Balances[1].Net.String())
}

func TestComputeDues_RejectsCorruptExpenses(t *testing.T) {
	store := memory.New()

	alice := storagetest.AddMember(t, store, "Alice")
	bob := storagetest.AddMember(t, store, "Bob")
	// The memory store does not validate amounts, so a negative share slips in.
	storagetest.AddExpense(t, store, alice, "Food", 1, map[*models.Member]string{bob: "-5"})

	counter := metrics.SimplifyErrors.WithLabelValues("invalid_input")
	before := testutil.ToFloat64(counter)

	_, err := ComputeDues(context.Background(), store, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	connectErr := balancesError(err)
	assert.Equal(t, "unable to compute balances", connectErr.Message())
}
