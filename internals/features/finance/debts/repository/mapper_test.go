package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "cobranza_backend/internals/features/finance/debts/model"
	"cobranza_backend/internals/features/finance/debts/service"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineRowRoundTrip(t *testing.T) {
	paymentID, bonusID, dueID := uuid.New(), uuid.New(), uuid.New()
	pct := dec("10")

	in := service.Line{
		ID:          uuid.New(),
		Index:       2,
		Description: "MARZO CUOTA",
		Reference:   service.RestoreReference(model.DebtCategoryMonthlyDue, nil, &dueID, nil, nil, nil),
		Base:        dec("1000"),
		Bonus:       &service.BonusRule{ID: bonusID, Percentage: pct},
		Tendered:    dec("950"),
		Net:         dec("900"),
		Residual:    dec("-50"),
		Collected:   true,
		Version:     3,
	}

	row := fromLine(paymentID, in)
	assert.Equal(t, paymentID, row.DebtLinePaymentEventID)
	assert.Equal(t, int16(2), row.DebtLineIndex)
	assert.Equal(t, model.DebtCategoryMonthlyDue, row.DebtLineCategory)
	assert.Equal(t, dueID, *row.DebtLineMonthlyDueID)
	assert.Nil(t, row.DebtLineProductID)
	assert.Equal(t, bonusID, *row.DebtLineBonusID)
	assert.Nil(t, row.DebtLineSurchargeID)
	assert.True(t, row.DebtLinePendingAmount.IsZero())
	assert.True(t, dec("50").Equal(row.DebtLineCreditAmount))

	// read side: rules come back through the preloaded association
	row.Bonus = &model.BonusModel{BonusID: bonusID, BonusPercentage: &pct}
	out := toLine(&row)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Index, out.Index)
	assert.Equal(t, dueID, *out.Reference.MonthlyDueID())
	require.NotNil(t, out.Bonus)
	assert.True(t, out.Bonus.Fixed.IsZero())
	assert.True(t, pct.Equal(out.Bonus.Percentage))
	assert.Nil(t, out.Surcharge)
	assert.True(t, in.Residual.Equal(out.Residual))
	assert.True(t, out.Collected)
	assert.Equal(t, int64(3), out.Version)
}

func TestSurchargeRuleMapping(t *testing.T) {
	fixed := dec("50")
	r := toSurchargeRule(&model.SurchargeModel{SurchargeID: uuid.New(), SurchargeFixedAmount: &fixed, SurchargeApplicationDay: 10})
	assert.True(t, fixed.Equal(r.Fixed))
	assert.True(t, r.Percentage.IsZero())
	assert.Equal(t, 10, r.ApplicationDay)
	assert.Nil(t, toSurchargeRule(nil))
	assert.Nil(t, toBonusRule(nil))
}

func TestPaymentEventMapping(t *testing.T) {
	ext := "PAY-1"
	lineID := uuid.New()
	h := &model.PaymentEventModel{
		PaymentEventID:         uuid.New(),
		PaymentEventStatus:     model.PaymentEventStatusActive,
		PaymentEventKind:       model.PaymentEventKindGeneral,
		PaymentEventExternalID: &ext,
		PaymentEventMeta:       map[string]any{"k": "v"},
	}
	lines := []model.DebtLineModel{{DebtLineID: lineID, DebtLineCategory: model.DebtCategoryProduct, DebtLinePendingAmount: dec("20")}}
	tenders := []model.PaymentTenderModel{{
		PaymentTenderID:         uuid.New(),
		PaymentTenderDebtLineID: &lineID,
		PaymentTenderInstrument: model.TenderInstrumentCard,
		PaymentTenderAmount:     dec("5"),
	}}

	p := toPaymentEvent(h, lines, tenders)
	assert.Equal(t, h.PaymentEventID, p.ID)
	assert.Equal(t, "v", p.Meta["k"])
	require.Len(t, p.Lines, 1)
	assert.True(t, dec("20").Equal(p.Lines[0].Residual))
	require.Len(t, p.Tenders, 1)
	assert.Equal(t, lineID, *p.Tenders[0].LineID)

	back := fromTender(p.ID, p.Tenders[0])
	assert.Equal(t, p.ID, back.PaymentTenderPaymentEventID)
	assert.Equal(t, model.TenderInstrumentCard, back.PaymentTenderInstrument)
}
