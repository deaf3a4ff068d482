package discount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountOff(t *testing.T) {
	tests := []struct {
		name    string
		percent string
		gross   string
		want    string
	}{
		{"ten percent of 100", "10", "100.00", "10.00"},
		{"ten percent of 999.99", "10", "999.99", "100.00"},
		{"rounds half up", "15", "0.10", "0.02"},
		{"full discount", "100", "49.99", "49.99"},
		{"fractional percent", "2.5", "200.00", "5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Code{Percent: decimal.RequireFromString(tt.percent)}
			got := c.AmountOff(decimal.RequireFromString(tt.gross))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "SAVE10ABCD1234", Normalize("  save10abcd1234 \n"))
	assert.Equal(t, "", Normalize("   "))
}

func TestValidatePercent(t *testing.T) {
	require.NoError(t, ValidatePercent(decimal.RequireFromString("0.01")))
	require.NoError(t, ValidatePercent(decimal.NewFromInt(100)))

	assert.ErrorIs(t, ValidatePercent(decimal.Zero), ErrInvalidPercent)
	assert.ErrorIs(t, ValidatePercent(decimal.NewFromInt(-5)), ErrInvalidPercent)
	assert.ErrorIs(t, ValidatePercent(decimal.RequireFromString("100.01")), ErrInvalidPercent)
}

func TestGenerator(t *testing.T) {
	gen := Generator{Prefix: "SAVE10", Length: 8}

	code, err := gen.Generate()
	require.NoError(t, err)
	require.Len(t, code, len("SAVE10")+8)
	assert.Equal(t, "SAVE10", code[:6])

	for _, r := range code[6:] {
		assert.Contains(t, codeAlphabet, string(r))
	}

	// Generated strings are already in canonical form.
	assert.Equal(t, code, Normalize(code))
}

func TestGenerator_DefaultLength(t *testing.T) {
	code, err := Generator{Prefix: "X"}.Generate()
	require.NoError(t, err)
	assert.Len(t, code, 1+8)
}

func TestGenerator_Uniqueness(t *testing.T) {
	gen := Generator{Prefix: "SAVE10", Length: 8}

	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		code, err := gen.Generate()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %s", code)
		seen[code] = struct{}{}
	}
}
