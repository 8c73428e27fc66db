package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRound(t *testing.T) {
	assert.True(t, Round(dec("10.005")).Equal(dec("10.01")))
	assert.True(t, Round(dec("-10.005")).Equal(dec("-10.01")))
	assert.True(t, RoundCost(dec("6.123456")).Equal(dec("6.1235")))
}

func TestHasAtMostPlaces(t *testing.T) {
	assert.True(t, HasAtMostPlaces(dec("10.12"), 2))
	assert.True(t, HasAtMostPlaces(dec("10"), 2))
	assert.False(t, HasAtMostPlaces(dec("10.123"), 2))
}

func TestIsNegligible(t *testing.T) {
	assert.True(t, IsNegligible(dec("0.009")))
	assert.True(t, IsNegligible(dec("-0.009")))
	assert.False(t, IsNegligible(dec("0.01")))
}

func TestEqual2(t *testing.T) {
	// 0.1 + 0.2 is exact in decimal; the float trap does not apply.
	assert.True(t, Equal2(dec("0.1").Add(dec("0.2")), dec("0.3")))
	assert.False(t, Equal2(dec("100"), dec("90")))
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(dec("25"), dec("200")).Equal(dec("12.5")))
	assert.True(t, Percent(dec("-50"), dec("200")).Equal(dec("-25")))
}

func TestParse(t *testing.T) {
	d, err := Parse("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = Parse("12.34")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("12.34")))

	_, err = Parse("abc")
	require.Error(t, err)
}

func TestSum(t *testing.T) {
	assert.True(t, Sum(dec("1.10"), dec("2.20"), dec("-0.30")).Equal(dec("3.00")))
	assert.True(t, Sum().IsZero())
}
