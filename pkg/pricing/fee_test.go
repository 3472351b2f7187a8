package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountAfterFee(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		price *int
		rate  float64
		want  *int
	}{
		{name: "nil price stays nil", price: nil, rate: DefaultFeeRate, want: nil},
		{name: "zero", price: Int(0), rate: DefaultFeeRate, want: Int(0)},
		{name: "one rounds fee down", price: Int(1), rate: DefaultFeeRate, want: Int(1)},
		{name: "five rounds half up", price: Int(5), rate: DefaultFeeRate, want: Int(3)},
		{name: "hundred", price: Int(100), rate: DefaultFeeRate, want: Int(70)},
		{name: "odd price", price: Int(999), rate: DefaultFeeRate, want: Int(699)},
		{name: "zero rate", price: Int(50), rate: 0, want: Int(50)},
		{name: "full rate clamps to zero", price: Int(50), rate: 1.5, want: Int(0)},
		{name: "negative price clamps to zero", price: Int(-10), rate: DefaultFeeRate, want: Int(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := AmountAfterFee(tt.price, tt.rate)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestFee_HalfUp(t *testing.T) {
	t.Parallel()

	// 0.3 × 5 = 1.5 and 0.3 × 15 = 4.5 must both round away from the even neighbour.
	assert.Equal(t, 2, Fee(5, 0.30))
	assert.Equal(t, 5, Fee(15, 0.30))
	assert.Equal(t, 30, Fee(100, 0.30))
	assert.Equal(t, 0, Fee(1, 0.30))
}

func TestAmountAfterFee_Monotonic(t *testing.T) {
	t.Parallel()

	prev := -1
	for p := range 5000 {
		got := AmountAfterFee(Int(p), DefaultFeeRate)
		require.NotNil(t, got)
		assert.GreaterOrEqual(t, *got, prev, "price %d", p)
		assert.Equal(t, p-Fee(p, DefaultFeeRate), *got)
		prev = *got
	}
}
