package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLamportsToSOL(t *testing.T) {
	tests := []struct {
		lamports uint64
		want     string
	}{
		{0, "0.000000000"},
		{1, "0.000000001"},
		{5000, "0.000005000"},
		{24981836, "0.024981836"},
		{1_000_000_000, "1.000000000"},
		{1_234_567_890_123, "1234.567890123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LamportsToSOL(tt.lamports))
	}
}

func TestSOLToLamports(t *testing.T) {
	tests := []struct {
		sol  string
		want uint64
	}{
		{"0", 0},
		{"1", 1_000_000_000},
		{"0.000000001", 1},
		{"0.024981836", 24981836},
		{" 2.5 ", 2_500_000_000},
		{"3.1234567891", 3_123_456_789}, // extra precision truncated
	}
	for _, tt := range tests {
		got, err := SOLToLamports(tt.sol)
		require.NoError(t, err, tt.sol)
		assert.Equal(t, tt.want, got, tt.sol)
	}
}

func TestSOLToLamportsInvalid(t *testing.T) {
	for _, bad := range []string{"", "abc", "1.2.3", "-1"} {
		_, err := SOLToLamports(bad)
		assert.Error(t, err, bad)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, lamports := range []uint64{0, 1, 999, 5000, 123_456_789_012} {
		got, err := SOLToLamports(LamportsToSOL(lamports))
		require.NoError(t, err)
		assert.Equal(t, lamports, got)
	}
}
