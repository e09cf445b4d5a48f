package order

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusServed, true}, // skipping states is allowed
		{StatusPending, StatusPaid, true},
		{StatusInProgress, StatusReady, true},
		{StatusReady, StatusServed, true},
		{StatusServed, StatusPaid, true},

		{StatusInProgress, StatusPending, false}, // no going backwards
		{StatusServed, StatusReady, false},
		{StatusReady, StatusReady, false}, // no self transitions

		{StatusPending, StatusCancelled, true},
		{StatusServed, StatusCancelled, true},

		{StatusPaid, StatusCancelled, false}, // terminal
		{StatusPaid, StatusServed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusPaid, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	_, err := ParseStatus("DELIVERED")

	var isErr *InvalidStatusError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, "DELIVERED", isErr.Value)
}

func TestParseType_DefaultsToDineIn(t *testing.T) {
	typ, err := ParseType("")
	require.NoError(t, err)
	assert.Equal(t, TypeDineIn, typ)
}

func TestParseType_Invalid(t *testing.T) {
	_, err := ParseType("DRIVE_THROUGH")
	require.Error(t, err)
}

func TestNewNumber_Format(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	n := NewNumber(now)
	require.True(t, strings.HasPrefix(n, "ORD-20260314-"), "number %q", n)
	assert.Len(t, n, len("ORD-20260314-")+6)
}

func TestNewNumber_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{})
	for range 100 {
		n := NewNumber(now)
		_, dup := seen[n]
		require.False(t, dup, "duplicate number %q", n)
		seen[n] = struct{}{}
	}
}
