package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "cobranza_backend/internals/features/finance/debts/model"
)

func line(idx int, base, tendered string) Line {
	return Line{ID: uuid.New(), Index: idx, Base: d(base), Tendered: d(tendered), Version: 1}
}

func TestSettleOverpaidLineBecomesCredit(t *testing.T) {
	l := line(1, "300", "350")
	sum, outcomes, err := Settle([]Line{l}, []Tender{
		{Instrument: model.TenderInstrumentCash, Amount: d("350")},
	}, day(1))
	require.NoError(t, err)

	require.Len(t, outcomes, 1)
	o := outcomes[0]
	assertDec(t, "-50", o.Residual)
	assertDec(t, "0", o.Pending)
	assertDec(t, "50", o.Credit)
	assert.True(t, o.Collected)
	assert.True(t, o.NewlyCollected)

	assertDec(t, "0", sum.Pending)
	assertDec(t, "50", sum.Credit)
	assertDec(t, "350", sum.Tendered)
	assertDec(t, "350", sum.ByInstrument[model.TenderInstrumentCash])
	assert.True(t, sum.Settled)
}

func TestSettleUnpaidLineOwesAdjustedTotal(t *testing.T) {
	l := line(1, "1000", "0")
	l.Bonus = &BonusRule{Percentage: d("10")}
	sum, outcomes, err := Settle([]Line{l}, nil, day(1))
	require.NoError(t, err)
	assertDec(t, "900", outcomes[0].Pending)
	assertDec(t, "900", outcomes[0].Net)
	assert.False(t, outcomes[0].Collected)
	assertDec(t, "900", sum.Pending)
	assert.False(t, sum.Settled)
	assert.Empty(t, sum.ByInstrument)
}

func TestSettleAggregateIdentity(t *testing.T) {
	lines := []Line{
		line(1, "300", "350"),
		line(2, "120.40", "20"),
		line(3, "80", "80"),
		line(4, "45.55", "0"),
	}
	lines[1].Surcharge = &SurchargeRule{Fixed: d("10"), ApplicationDay: 15}
	lines[3].Bonus = &BonusRule{Fixed: d("5.55")}

	sum, outcomes, err := Settle(lines, nil, day(15))
	require.NoError(t, err)

	adjusted, tendered := decimal.Zero, decimal.Zero
	for i, o := range outcomes {
		adjusted = adjusted.Add(o.Net)
		tendered = tendered.Add(lines[i].Tendered)
	}
	assertDec(t, adjusted.Sub(tendered).String(), sum.Pending.Sub(sum.Credit))
	assertDec(t, "150.40", sum.Pending) // 110.40 + 40
	assertDec(t, "50", sum.Credit)

	owed := Outstanding(outcomes)
	require.Len(t, owed, 2)
	assert.Equal(t, 2, owed[0].Index)
	assert.Equal(t, 4, owed[1].Index)
}

func TestSettleKeepsCollectedLinesFrozen(t *testing.T) {
	l := line(1, "500", "500")
	l.Surcharge = &SurchargeRule{Fixed: d("50"), ApplicationDay: 10}

	_, first, err := Settle([]Line{l}, nil, day(9))
	require.NoError(t, err)
	require.True(t, first[0].Collected)
	frozen := ApplyOutcomes([]Line{l}, first)

	// surcharge day arrives after the line was collected: nothing reopens
	sum, again, err := Settle(frozen, nil, day(10))
	require.NoError(t, err)
	assert.True(t, again[0].Collected)
	assert.False(t, again[0].NewlyCollected)
	assertDec(t, "500", again[0].Net)
	assertDec(t, "0", again[0].Pending)
	assert.True(t, sum.Settled)
}

func TestSettleRejectsNegativeBase(t *testing.T) {
	_, _, err := Settle([]Line{line(1, "-1", "0")}, nil, day(1))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAllocateUntargetedFillsInOrder(t *testing.T) {
	lines := []Line{line(1, "100", "0"), line(2, "50", "0"), line(3, "30", "0")}
	out, err := Allocate(lines, []Tender{{Instrument: model.TenderInstrumentCash, Amount: d("120")}}, day(1))
	require.NoError(t, err)
	assertDec(t, "100", out[0].Tendered)
	assertDec(t, "20", out[1].Tendered)
	assertDec(t, "0", out[2].Tendered)
	// input untouched
	assertDec(t, "0", lines[0].Tendered)
}

func TestAllocateOverpaymentLandsOnLastOpenLine(t *testing.T) {
	lines := []Line{line(1, "100", "0"), line(2, "50", "0")}
	out, err := Allocate(lines, []Tender{{Instrument: model.TenderInstrumentTransfer, Amount: d("200")}}, day(1))
	require.NoError(t, err)
	assertDec(t, "100", out[0].Tendered)
	assertDec(t, "100", out[1].Tendered)

	sum, _, err := Settle(out, nil, day(1))
	require.NoError(t, err)
	assertDec(t, "50", sum.Credit)
	assert.True(t, sum.Settled)
}

func TestAllocateSkipsCollectedLines(t *testing.T) {
	done := line(1, "100", "100")
	done.Collected, done.Net = true, d("100")
	open := line(2, "40", "0")

	out, err := Allocate([]Line{done, open}, []Tender{{Instrument: model.TenderInstrumentCard, Amount: d("40")}}, day(1))
	require.NoError(t, err)
	assertDec(t, "100", out[0].Tendered)
	assertDec(t, "40", out[1].Tendered)
}

func TestAllocateTargeted(t *testing.T) {
	a, b := line(1, "100", "0"), line(2, "50", "0")
	out, err := Allocate([]Line{a, b}, []Tender{{Instrument: model.TenderInstrumentCash, Amount: d("70"), LineID: &b.ID}}, day(1))
	require.NoError(t, err)
	assertDec(t, "0", out[0].Tendered)
	assertDec(t, "70", out[1].Tendered)
}

func TestAllocateErrors(t *testing.T) {
	done := line(1, "100", "100")
	done.Collected = true
	unknown := uuid.New()

	cases := []struct {
		name   string
		lines  []Line
		tender Tender
		want   error
	}{
		{"zero amount", []Line{line(1, "10", "0")}, Tender{Instrument: model.TenderInstrumentCash, Amount: decimal.Zero}, ErrInvalidInput},
		{"negative amount", []Line{line(1, "10", "0")}, Tender{Instrument: model.TenderInstrumentCash, Amount: d("-5")}, ErrInvalidInput},
		{"no instrument", []Line{line(1, "10", "0")}, Tender{Amount: d("5")}, ErrInvalidInput},
		{"unknown line", []Line{line(1, "10", "0")}, Tender{Instrument: model.TenderInstrumentCash, Amount: d("5"), LineID: &unknown}, ErrInvalidInput},
		{"collected line", []Line{done}, Tender{Instrument: model.TenderInstrumentCash, Amount: d("5"), LineID: &done.ID}, ErrInvalidInput},
		{"nothing open", []Line{done}, Tender{Instrument: model.TenderInstrumentCash, Amount: d("5")}, ErrNothingPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Allocate(tc.lines, []Tender{tc.tender}, day(1))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
