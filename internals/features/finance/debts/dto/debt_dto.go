package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "cobranza_backend/internals/features/finance/debts/model"
	"cobranza_backend/internals/features/finance/debts/service"
)

/* =========================================================
   Classify / resolve
========================================================= */

type DescriptionRequest struct {
	Description string `json:"description" validate:"required,max=255"`
}

type ClassifyResponse struct {
	Description string             `json:"description"`
	Category    model.DebtCategory `json:"category"`
	LookupKey   string             `json:"lookup_key"`
}

type ReferenceResponse struct {
	Category        model.DebtCategory `json:"category"`
	Resolved        bool               `json:"resolved"`
	EnrollmentFeeID *uuid.UUID         `json:"enrollment_fee_id,omitempty"`
	MonthlyDueID    *uuid.UUID         `json:"monthly_due_id,omitempty"`
	ProductID       *uuid.UUID         `json:"product_id,omitempty"`
	ConceptID       *uuid.UUID         `json:"concept_id,omitempty"`
	SubConceptID    *uuid.UUID         `json:"sub_concept_id,omitempty"`
}

func FromReference(r service.DebtReference) ReferenceResponse {
	return ReferenceResponse{
		Category:        r.Category(),
		Resolved:        r.Resolved(),
		EnrollmentFeeID: r.EnrollmentFeeID(),
		MonthlyDueID:    r.MonthlyDueID(),
		ProductID:       r.ProductID(),
		ConceptID:       r.ConceptID(),
		SubConceptID:    r.SubConceptID(),
	}
}

/* =========================================================
   Quote (single line projection)
========================================================= */

type QuoteRequest struct {
	Base        decimal.Decimal  `json:"base"`
	BonusID     *uuid.UUID       `json:"bonus_id,omitempty"`
	SurchargeID *uuid.UUID       `json:"surcharge_id,omitempty"`
	Tendered    *decimal.Decimal `json:"tendered,omitempty"`
	// Date (YYYY-MM-DD) overrides "today" for projections.
	Date *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ToInput resolves the reference date in loc; now is used when Date is empty.
func (r QuoteRequest) ToInput(now time.Time, loc *time.Location) (service.QuoteInput, error) {
	in := service.QuoteInput{
		Base:        r.Base,
		BonusID:     r.BonusID,
		SurchargeID: r.SurchargeID,
		Today:       now,
	}
	if r.Tendered != nil {
		in.Tendered = decimal.NewNullDecimal(*r.Tendered)
	}
	if r.Date != nil && *r.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", *r.Date, loc)
		if err != nil {
			return in, fmt.Errorf("%w: date %q", service.ErrInvalidInput, *r.Date)
		}
		in.Today = d
	}
	return in, nil
}

type QuoteResponse struct {
	Base             decimal.Decimal `json:"base"`
	Discount         decimal.Decimal `json:"discount"`
	Surcharge        decimal.Decimal `json:"surcharge"`
	SurchargeApplied bool            `json:"surcharge_applied"`
	Adjusted         decimal.Decimal `json:"adjusted"`
	Tendered         decimal.Decimal `json:"tendered"`
	Result           decimal.Decimal `json:"result"`
	Date             string          `json:"date"`
}

func FromBreakdown(base decimal.Decimal, b service.Breakdown, today time.Time) QuoteResponse {
	return QuoteResponse{
		Base:             base,
		Discount:         b.Discount,
		Surcharge:        b.Surcharge,
		SurchargeApplied: b.SurchargeApplied,
		Adjusted:         b.Adjusted,
		Tendered:         b.Tendered,
		Result:           b.Result,
		Date:             today.Format("2006-01-02"),
	}
}
