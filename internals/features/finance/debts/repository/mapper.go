package repository

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "cobranza_backend/internals/features/finance/debts/model"
	"cobranza_backend/internals/features/finance/debts/service"
)

/* ===================== rows -> engine ===================== */

func decOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func toBonusRule(m *model.BonusModel) *service.BonusRule {
	if m == nil {
		return nil
	}
	return &service.BonusRule{
		ID:         m.BonusID,
		Fixed:      decOrZero(m.BonusFixedAmount),
		Percentage: decOrZero(m.BonusPercentage),
	}
}

func toSurchargeRule(m *model.SurchargeModel) *service.SurchargeRule {
	if m == nil {
		return nil
	}
	return &service.SurchargeRule{
		ID:             m.SurchargeID,
		Fixed:          decOrZero(m.SurchargeFixedAmount),
		Percentage:     decOrZero(m.SurchargePercentage),
		ApplicationDay: int(m.SurchargeApplicationDay),
	}
}

func toLine(m *model.DebtLineModel) service.Line {
	return service.Line{
		ID:          m.DebtLineID,
		Index:       int(m.DebtLineIndex),
		Description: m.DebtLineDescription,
		Reference: service.RestoreReference(m.DebtLineCategory,
			m.DebtLineEnrollmentFeeID, m.DebtLineMonthlyDueID, m.DebtLineProductID,
			m.DebtLineConceptID, m.DebtLineSubConceptID),
		Base:      m.DebtLineBaseAmount,
		Bonus:     toBonusRule(m.Bonus),
		Surcharge: toSurchargeRule(m.Surcharge),
		Tendered:  m.DebtLineTenderedAmount,
		Collected: m.DebtLineIsCollected,
		Net:       m.DebtLineNetAmount,
		Residual:  m.DebtLinePendingAmount.Sub(m.DebtLineCreditAmount),
		Version:   m.DebtLineVersion,
	}
}

func toTender(m *model.PaymentTenderModel) service.Tender {
	return service.Tender{
		ID:         m.PaymentTenderID,
		Instrument: m.PaymentTenderInstrument,
		Amount:     m.PaymentTenderAmount,
		LineID:     m.PaymentTenderDebtLineID,
		Reference:  m.PaymentTenderReference,
	}
}

func toPaymentEvent(h *model.PaymentEventModel, lines []model.DebtLineModel, tenders []model.PaymentTenderModel) *service.PaymentEvent {
	p := &service.PaymentEvent{
		ID:           h.PaymentEventID,
		Status:       h.PaymentEventStatus,
		Kind:         h.PaymentEventKind,
		EnrollmentID: h.PaymentEventEnrollmentID,
		ExternalID:   h.PaymentEventExternalID,
		Note:         h.PaymentEventNote,
		Meta:         map[string]any(h.PaymentEventMeta),
		VoidedAt:     h.PaymentEventVoidedAt,
		CreatedAt:    h.PaymentEventCreatedAt,
		Lines:        make([]service.Line, 0, len(lines)),
		Tenders:      make([]service.Tender, 0, len(tenders)),
	}
	for i := range lines {
		p.Lines = append(p.Lines, toLine(&lines[i]))
	}
	for i := range tenders {
		p.Tenders = append(p.Tenders, toTender(&tenders[i]))
	}
	return p
}

/* ===================== engine -> rows ===================== */

func fromLine(paymentID uuid.UUID, l service.Line) model.DebtLineModel {
	pending, credit := residualParts(l.Residual)
	ref := l.Reference
	m := model.DebtLineModel{
		DebtLineID:             l.ID,
		DebtLinePaymentEventID: paymentID,
		DebtLineIndex:          int16(l.Index),
		DebtLineDescription:    l.Description,
		DebtLineCategory:       ref.Category(),

		DebtLineEnrollmentFeeID: ref.EnrollmentFeeID(),
		DebtLineMonthlyDueID:    ref.MonthlyDueID(),
		DebtLineProductID:       ref.ProductID(),
		DebtLineConceptID:       ref.ConceptID(),
		DebtLineSubConceptID:    ref.SubConceptID(),

		DebtLineBaseAmount:     l.Base,
		DebtLineNetAmount:      l.Net,
		DebtLineTenderedAmount: l.Tendered,
		DebtLinePendingAmount:  pending,
		DebtLineCreditAmount:   credit,
		DebtLineIsCollected:    l.Collected,
		DebtLineVersion:        l.Version,
	}
	if l.Bonus != nil {
		id := l.Bonus.ID
		m.DebtLineBonusID = &id
	}
	if l.Surcharge != nil {
		id := l.Surcharge.ID
		m.DebtLineSurchargeID = &id
	}
	return m
}

func fromTender(paymentID uuid.UUID, t service.Tender) model.PaymentTenderModel {
	return model.PaymentTenderModel{
		PaymentTenderID:             t.ID,
		PaymentTenderPaymentEventID: paymentID,
		PaymentTenderDebtLineID:     t.LineID,
		PaymentTenderInstrument:     t.Instrument,
		PaymentTenderAmount:         t.Amount,
		PaymentTenderReference:      t.Reference,
	}
}

func residualParts(residual decimal.Decimal) (pending, credit decimal.Decimal) {
	if residual.IsPositive() {
		return residual, decimal.Zero
	}
	return decimal.Zero, residual.Neg()
}
