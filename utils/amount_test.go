package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclabs/arcflow/types"
)

var (
	sixDecimals      = types.Token{Symbol: "EURC", Decimals: 6}
	eighteenDecimals = types.Token{Symbol: "USDC", Decimals: 18}
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		value string
		token types.Token
		want  string
	}{
		{"whole six decimals", "25", sixDecimals, "25000000"},
		{"fractional six decimals", "0.5", sixDecimals, "500000"},
		{"smallest unit", "0.000001", sixDecimals, "1"},
		{"whole eighteen decimals", "1", eighteenDecimals, "1000000000000000000"},
		{"fractional eighteen decimals", "1.25", eighteenDecimals, "1250000000000000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.value, tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestParseAmountRejects(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"not a number", "abc"},
		{"zero", "0"},
		{"negative", "-5"},
		{"excess precision", "0.0000001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAmount(tc.value, sixDecimals)
			require.Error(t, err)
			assert.True(t, types.IsValidation(err))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "25", FormatAmount(big.NewInt(25_000_000), sixDecimals))
	assert.Equal(t, "0.000001", FormatAmount(big.NewInt(1), sixDecimals))
	assert.Equal(t, "0", FormatAmount(nil, sixDecimals))

	wei, ok := new(big.Int).SetString("1250000000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, "1.25", FormatAmount(wei, eighteenDecimals))
}

func TestParseFormatRoundTrip(t *testing.T) {
	atomic, err := ParseAmount("12.34", sixDecimals)
	require.NoError(t, err)
	assert.Equal(t, "12.34", FormatAmount(atomic, sixDecimals))
}

func TestParseSeconds(t *testing.T) {
	secs, err := ParseSeconds("3600")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), secs.Int64())

	for _, bad := range []string{"", "0", "-1", "1.5", "soon"} {
		_, err := ParseSeconds(bad)
		require.Error(t, err, "value %q", bad)
		assert.True(t, types.IsValidation(err))
	}
}
