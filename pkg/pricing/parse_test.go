package pricing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want *int
	}{
		{name: "number then currency", text: "Buy for 250 Robux", want: Int(250)},
		{name: "currency then number", text: "Robux 1,500", want: Int(1500)},
		{name: "thousands separator", text: "Price: 12,345 robux today", want: Int(12345)},
		{name: "multiline body", text: "Game Pass\nOwned by someone\n40 Robux\nBuy", want: Int(40)},
		{name: "no currency word", text: "Price 250", want: nil},
		{name: "currency only", text: "Get Robux now", want: nil},
		{name: "empty", text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParsePriceText(tt.text)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseBareNumber(t *testing.T) {
	t.Parallel()

	require.NotNil(t, ParseBareNumber(" 1,250 "))
	assert.Equal(t, 1250, *ParseBareNumber(" 1,250 "))
	assert.Nil(t, ParseBareNumber("1,250 robux"))
	assert.Nil(t, ParseBareNumber("Off Sale"))
}

func TestCoercePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want *int
	}{
		{name: "float rounds down", in: 99.4, want: Int(99)},
		{name: "float rounds up", in: 99.5, want: Int(100)},
		{name: "int", in: 42, want: Int(42)},
		{name: "int64", in: int64(7), want: Int(7)},
		{name: "json number", in: json.Number("15.6"), want: Int(16)},
		{name: "numeric string", in: " 30 ", want: Int(30)},
		{name: "garbage string", in: "free", want: nil},
		{name: "nil", in: nil, want: nil},
		{name: "bool", in: true, want: nil},
		{name: "negative", in: -5.0, want: nil},
		{name: "nan", in: math.NaN(), want: nil},
		{name: "overflows int", in: 1e30, want: nil},
		{name: "overflowing json number", in: json.Number("9.3e18"), want: nil},
		{name: "overflowing string", in: "1e300", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CoercePrice(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}
