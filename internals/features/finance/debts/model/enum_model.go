package model

import "strings"

type DebtCategory string
type PaymentEventStatus string
type PaymentEventKind string
type TenderInstrument string

const (
	DebtCategoryEnrollmentFee  DebtCategory = "ENROLLMENT_FEE"
	DebtCategoryMonthlyDue     DebtCategory = "MONTHLY_DUE"
	DebtCategoryProduct        DebtCategory = "PRODUCT"
	DebtCategoryGenericConcept DebtCategory = "GENERIC_CONCEPT"
)

const (
	PaymentEventStatusActive PaymentEventStatus = "ACTIVE"
	PaymentEventStatusVoid   PaymentEventStatus = "VOID"
)

// SUBSCRIPTION = payment tied to an enrollment; everything else is GENERAL.
const (
	PaymentEventKindSubscription PaymentEventKind = "SUBSCRIPTION"
	PaymentEventKindGeneral      PaymentEventKind = "GENERAL"
)

const (
	TenderInstrumentCash     TenderInstrument = "CASH"
	TenderInstrumentTransfer TenderInstrument = "TRANSFER"
	TenderInstrumentCard     TenderInstrument = "CARD"
	TenderInstrumentGateway  TenderInstrument = "GATEWAY"
	TenderInstrumentOther    TenderInstrument = "OTHER"
)

func (c DebtCategory) Valid() bool {
	switch c {
	case DebtCategoryEnrollmentFee, DebtCategoryMonthlyDue, DebtCategoryProduct, DebtCategoryGenericConcept:
		return true
	}
	return false
}

// ParseTenderInstrument normalizes client input ("cash", " Card ") to the enum.
func ParseTenderInstrument(s string) (TenderInstrument, bool) {
	in := TenderInstrument(strings.ToUpper(strings.TrimSpace(s)))
	switch in {
	case TenderInstrumentCash, TenderInstrumentTransfer, TenderInstrumentCard,
		TenderInstrumentGateway, TenderInstrumentOther:
		return in, true
	}
	return "", false
}
