package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-qudt/pkg/core/domain"
)

func TestNewFraction_Reduces(t *testing.T) {
	tests := []struct {
		name    string
		num     int64
		den     int64
		wantNum int64
		wantDen int64
	}{
		{name: "already reduced", num: 1, den: 3, wantNum: 1, wantDen: 3},
		{name: "common factor", num: 6, den: 8, wantNum: 3, wantDen: 4},
		{name: "negative denominator", num: 1, den: -2, wantNum: -1, wantDen: 2},
		{name: "both negative", num: -4, den: -6, wantNum: 2, wantDen: 3},
		{name: "zero numerator", num: 0, den: 7, wantNum: 0, wantDen: 1},
		{name: "integer", num: 9, den: 3, wantNum: 3, wantDen: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := domain.NewFraction(tt.num, tt.den)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNum, f.Num())
			assert.Equal(t, tt.wantDen, f.Den())
		})
	}
}

func TestNewFraction_ZeroDenominator(t *testing.T) {
	_, err := domain.NewFraction(1, 0)
	require.ErrorIs(t, err, domain.ErrZeroDenominator)

	assert.Panics(t, func() { domain.MustFraction(1, 0) })
}

func TestFraction_ZeroValue(t *testing.T) {
	var f domain.Fraction
	assert.Equal(t, int64(0), f.Num())
	assert.Equal(t, int64(1), f.Den())
	assert.True(t, f.IsZero())
	assert.True(t, f.IsInteger())
	assert.Equal(t, domain.IntFraction(0), f)
}

func TestFraction_EqualIsExact(t *testing.T) {
	assert.True(t, domain.MustFraction(2, 4).Equal(domain.MustFraction(1, 2)))
	assert.True(t, domain.MustFraction(1, 3).Equal(domain.MustFraction(-2, -6)))
	assert.False(t, domain.MustFraction(1, 3).Equal(domain.MustFraction(333333, 1000000)))

	// reduced form is canonical, so == agrees with Equal
	assert.Equal(t, domain.MustFraction(2, 4), domain.MustFraction(1, 2))
}

func TestFraction_Arithmetic(t *testing.T) {
	half := domain.MustFraction(1, 2)
	third := domain.MustFraction(1, 3)

	assert.Equal(t, domain.MustFraction(5, 6), half.Add(third))
	assert.Equal(t, domain.MustFraction(1, 6), half.Mul(third))
	assert.Equal(t, domain.MustFraction(-1, 2), half.Neg())
	assert.Equal(t, domain.IntFraction(1), half.Add(half))
	assert.Equal(t, domain.IntFraction(1), domain.IntFraction(3).Mul(third))
	assert.InDelta(t, 0.5, half.Float64(), 0)
	assert.InDelta(t, 1.0/3.0, third.Float64(), 1e-15)
}

func TestFraction_String(t *testing.T) {
	assert.Equal(t, "1/2", domain.MustFraction(1, 2).String())
	assert.Equal(t, "-3/4", domain.MustFraction(3, -4).String())
	assert.Equal(t, "2", domain.MustFraction(4, 2).String())
	assert.Equal(t, "0", domain.Fraction{}.String())
}
