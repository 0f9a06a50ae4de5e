package schema

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCentsDecimalConversion(t *testing.T) {
	require.True(t, Cents(4250).Decimal().Equal(decimal.RequireFromString("42.50")))
	require.True(t, Cents(1).Decimal().Equal(decimal.RequireFromString("0.01")))
	require.True(t, Cents(-99).Decimal().Equal(decimal.RequireFromString("-0.99")))
}

func TestCentsString(t *testing.T) {
	require.Equal(t, "$0.43", Cents(43).String())
	require.Equal(t, "$12.00", Cents(1200).String())
}

func TestPriceLevelRoundTrip(t *testing.T) {
	var level PriceLevel
	require.NoError(t, level.UnmarshalJSON([]byte(`[42,150]`)))
	require.Equal(t, Cents(42), level.Price)
	require.Equal(t, int64(150), level.Count)

	encoded, err := level.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `[42,150]`, string(encoded))

	require.Error(t, level.UnmarshalJSON([]byte(`[42]`)))
	require.Error(t, level.UnmarshalJSON([]byte(`{"price":42}`)))
}
