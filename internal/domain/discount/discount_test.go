package discount

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute_Percentage(t *testing.T) {
	rule := &Rule{Type: TypePercentage, Value: d("10")}

	got, err := Compute(rule, d("19.00"))
	require.NoError(t, err)
	assert.True(t, d("1.90").Equal(got), "got %s", got)
}

func TestCompute_PercentageRounds(t *testing.T) {
	rule := &Rule{Type: TypePercentage, Value: d("15")}

	got, err := Compute(rule, d("9.99"))
	require.NoError(t, err)
	assert.True(t, d("1.50").Equal(got), "got %s", got)
}

func TestCompute_Fixed(t *testing.T) {
	rule := &Rule{Type: TypeFixed, Value: d("5.00")}

	got, err := Compute(rule, d("19.00"))
	require.NoError(t, err)
	assert.True(t, d("5.00").Equal(got))
}

func TestCompute_FixedCappedAtSubtotal(t *testing.T) {
	rule := &Rule{Type: TypeFixed, Value: d("50.00")}

	got, err := Compute(rule, d("19.00"))
	require.NoError(t, err)
	assert.True(t, d("19.00").Equal(got), "got %s", got)
}

func TestCompute_UnknownType(t *testing.T) {
	rule := &Rule{Type: "BOGOF", Value: d("1")}

	_, err := Compute(rule, d("10.00"))
	require.Error(t, err)
}

func TestUsable(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	cases := []struct {
		name string
		rule Rule
		want error
	}{
		{"active without window", Rule{Active: true}, nil},
		{"inactive", Rule{Active: false}, ErrInactive},
		{"inside window", Rule{Active: true, ValidFrom: &past, ValidUntil: &future}, nil},
		{"before window", Rule{Active: true, ValidFrom: &future}, ErrOutsideWindow},
		{"after window", Rule{Active: true, ValidUntil: &past}, ErrOutsideWindow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule.Usable(now)
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}
