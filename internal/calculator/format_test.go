package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSettlements_SortsAndRounds(t *testing.T) {
	balances := Balances{
		"a": dec("-10.004"),
		"b": dec("-20.006"),
		"c": dec("30.01"),
	}
	in := []Settlement{
		settlement("b", "c", "20.006"),
		settlement("a", "c", "10.004"),
	}

	got, err := FormatSettlements(in, balances, 2)
	require.NoError(t, err)
	assertSettlementsEqual(t, []Settlement{
		settlement("a", "c", "10"),
		settlement("b", "c", "20.01"),
	}, got)
}

func TestFormatSettlements_Idempotent(t *testing.T) {
	balances := Balances{
		"a": dec("-12.345"),
		"b": dec("2.345"),
		"c": dec("10"),
	}
	generated, err := GenerateSettlements(balances)
	require.NoError(t, err)

	once, err := FormatSettlements(generated, balances, 2)
	require.NoError(t, err)

	twice, err := FormatSettlements(once, balances, 2)
	require.NoError(t, err)
	assertSettlementsEqual(t, once, twice)

	without, err := FormatSettlements(once, nil, 2)
	require.NoError(t, err)
	assertSettlementsEqual(t, once, without)
}

func TestFormatSettlements_DropsSubUnitTransfers(t *testing.T) {
	balances := Balances{"a": dec("-0.004"), "b": dec("0.004")}

	got, err := FormatSettlements([]Settlement{settlement("a", "b", "0.004")}, balances, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFormatSettlements_RejectsDrift(t *testing.T) {
	balances := Balances{"a": dec("-10"), "b": dec("10")}

	_, err := FormatSettlements([]Settlement{settlement("a", "b", "9.50")}, balances, 2)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestFormatSettlements_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   Settlement
	}{
		{"self settlement", settlement("a", "a", "5")},
		{"zero amount", settlement("a", "b", "0")},
		{"negative amount", settlement("a", "b", "-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatSettlements([]Settlement{tt.in}, nil, 2)
			assert.ErrorIs(t, err, ErrInvariantViolation)
		})
	}
}
