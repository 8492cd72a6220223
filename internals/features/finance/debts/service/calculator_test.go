package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(n int) time.Time { return time.Date(2025, time.March, n, 9, 0, 0, 0, time.UTC) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func TestBonusOnlyProjection(t *testing.T) {
	b, err := Compute(NetInput{
		Base:  d("1000"),
		Bonus: &BonusRule{Percentage: d("10")},
		Today: day(1),
	})
	require.NoError(t, err)
	assertDec(t, "100", b.Discount)
	assertDec(t, "900", b.Adjusted)
	assert.False(t, b.SurchargeApplied)
	// tendered defaults to adjusted, so a projection without one nets to 0.
	// The 900 owed is the stored-line case below (tendered=0), not this one.
	assertDec(t, "900", b.Tendered)
	assertDec(t, "0", b.Result)

	// once nothing has been paid the whole adjusted total is owed
	owed, err := ComputeNet(NetInput{
		Base:     d("1000"),
		Bonus:    &BonusRule{Percentage: d("10")},
		Tendered: decimal.NewNullDecimal(decimal.Zero),
		Today:    day(1),
	})
	require.NoError(t, err)
	assertDec(t, "900", owed)
}

func TestSurchargeDayGate(t *testing.T) {
	rule := &SurchargeRule{Fixed: d("50"), Percentage: d("5"), ApplicationDay: 10}

	on, err := Compute(NetInput{Base: d("500"), Surcharge: rule, Today: day(10)})
	require.NoError(t, err)
	assert.True(t, on.SurchargeApplied)
	assertDec(t, "75", on.Surcharge)
	assertDec(t, "575", on.Adjusted)

	off, err := Compute(NetInput{Base: d("500"), Surcharge: rule, Today: day(11)})
	require.NoError(t, err)
	assert.False(t, off.SurchargeApplied)
	assertDec(t, "0", off.Surcharge)
	assertDec(t, "500", off.Adjusted)

	for n := 1; n <= 31; n++ {
		v, applied := SurchargeValue(d("500"), rule, time.Date(2025, time.January, n, 0, 0, 0, 0, time.UTC))
		if n == 10 {
			assert.True(t, applied)
			assertDec(t, "75", v)
			continue
		}
		assert.False(t, applied, "day %d", n)
		assert.True(t, v.IsZero(), "day %d", n)
	}
}

func TestDiscountFormula(t *testing.T) {
	cases := []struct {
		base, fixed, pct, want string
	}{
		{"0", "0", "0", "0"},
		{"1000", "0", "10", "100"},
		{"1000", "25", "10", "125"},
		{"333.33", "0", "15", "49.9995"},
		{"80", "5.50", "0", "5.50"},
	}
	for _, tc := range cases {
		got := Discount(d(tc.base), &BonusRule{Fixed: d(tc.fixed), Percentage: d(tc.pct)})
		assertDec(t, tc.want, got, tc)
		again := Discount(d(tc.base), &BonusRule{Fixed: d(tc.fixed), Percentage: d(tc.pct)})
		assert.True(t, got.Equal(again))
	}
	assert.True(t, Discount(d("100"), nil).IsZero())
}

func TestComputeNetMonotonicInTendered(t *testing.T) {
	in := NetInput{
		Base:      d("480"),
		Bonus:     &BonusRule{Fixed: d("10"), Percentage: d("5")},
		Surcharge: &SurchargeRule{Fixed: d("20"), ApplicationDay: 5},
		Today:     day(5),
	}
	steps := []string{"0", "100", "250.50", "490", "600"}
	var prev decimal.Decimal
	for i, step := range steps {
		in.Tendered = decimal.NewNullDecimal(d(step))
		got, err := ComputeNet(in)
		require.NoError(t, err)
		if i > 0 {
			delta := d(step).Sub(d(steps[i-1]))
			assert.True(t, got.LessThan(prev))
			assertDec(t, prev.Sub(delta).String(), got)
		}
		prev = got
	}
}

func TestComputeNetRoundTrip(t *testing.T) {
	in := NetInput{
		Base:      d("1234.56"),
		Bonus:     &BonusRule{Percentage: d("12.5")},
		Surcharge: &SurchargeRule{Percentage: d("3"), ApplicationDay: 7},
		Today:     day(7),
	}
	b, err := Compute(in)
	require.NoError(t, err)
	in.Tendered = decimal.NewNullDecimal(b.Adjusted)
	got, err := ComputeNet(in)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.StringFixed(2))
}

func TestComputeNetRoundsHalfUp(t *testing.T) {
	got, err := ComputeNet(NetInput{
		Base:     d("10.005"),
		Tendered: decimal.NewNullDecimal(decimal.Zero),
		Today:    day(1),
	})
	require.NoError(t, err)
	assertDec(t, "10.01", got)

	credit, err := ComputeNet(NetInput{
		Base:     d("300"),
		Tendered: decimal.NewNullDecimal(d("350")),
		Today:    day(1),
	})
	require.NoError(t, err)
	assertDec(t, "-50", credit)
}

func TestComputeRejectsNegativeBase(t *testing.T) {
	_, err := Compute(NetInput{Base: d("-0.01"), Today: day(1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeDoesNotMutateRules(t *testing.T) {
	bonus := &BonusRule{Fixed: d("5"), Percentage: d("10")}
	sur := &SurchargeRule{Fixed: d("7"), Percentage: d("2"), ApplicationDay: 3}
	_, err := Compute(NetInput{Base: d("100"), Bonus: bonus, Surcharge: sur, Today: day(3)})
	require.NoError(t, err)
	assertDec(t, "5", bonus.Fixed)
	assertDec(t, "10", bonus.Percentage)
	assertDec(t, "7", sur.Fixed)
	assert.Equal(t, 3, sur.ApplicationDay)
}
