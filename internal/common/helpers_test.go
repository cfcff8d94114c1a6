package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLamportsToSOL(t *testing.T) {
	cases := []struct {
		lamports uint64
		want     string
	}{
		{0, "0.000000000"},
		{1, "0.000000001"},
		{24981836, "0.024981836"},
		{LamportsPerSOL, "1.000000000"},
		{1_500_000_000, "1.500000000"},
		{123_456_789_012, "123.456789012"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, LamportsToSOL(tc.lamports), "lamports=%d", tc.lamports)
	}
}

func TestSOLToLamports(t *testing.T) {
	cases := []struct {
		sol  string
		want uint64
	}{
		{"0", 0},
		{"1", LamportsPerSOL},
		{"0.000000001", 1},
		{"0.024981836", 24981836},
		{"1.5", 1_500_000_000},
		{" 2.25 ", 2_250_000_000},
		{"123.456789012", 123_456_789_012},
	}

	for _, tc := range cases {
		got, err := SOLToLamports(tc.sol)
		require.NoError(t, err, "sol=%q", tc.sol)
		require.Equal(t, tc.want, got, "sol=%q", tc.sol)
	}
}

func TestSOLToLamportsInvalid(t *testing.T) {
	for _, s := range []string{"", "abc", "1.2.3", "-1", "1,5"} {
		_, err := SOLToLamports(s)
		require.Error(t, err, "sol=%q", s)
	}
}

func TestRoundTripConversion(t *testing.T) {
	for _, lamports := range []uint64{0, 1, 999_999_999, LamportsPerSOL, 987_654_321_987} {
		back, err := SOLToLamports(LamportsToSOL(lamports))
		require.NoError(t, err)
		require.Equal(t, lamports, back)
	}
}
