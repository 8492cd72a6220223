package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "cobranza_backend/internals/features/finance/debts/model"
	"cobranza_backend/internals/features/finance/debts/service"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

type LineRequest struct {
	Description string          `json:"description" validate:"required,max=255"`
	Base        decimal.Decimal `json:"base"`
	BonusID     *uuid.UUID      `json:"bonus_id,omitempty"`
	SurchargeID *uuid.UUID      `json:"surcharge_id,omitempty"`
}

type TenderRequest struct {
	Instrument string          `json:"instrument" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	LineID     *uuid.UUID      `json:"line_id,omitempty"`
	Reference  *string         `json:"reference,omitempty" validate:"omitempty,max=120"`
}

func (r TenderRequest) ToTender() (service.Tender, error) {
	in, ok := model.ParseTenderInstrument(r.Instrument)
	if !ok {
		return service.Tender{}, fmt.Errorf("%w: unknown instrument %q", service.ErrInvalidInput, r.Instrument)
	}
	t := service.Tender{Instrument: in, Amount: r.Amount, LineID: r.LineID}
	if r.Reference != nil {
		if ref := strings.TrimSpace(*r.Reference); ref != "" {
			t.Reference = &ref
		}
	}
	return t, nil
}

func ToTenders(in []TenderRequest) ([]service.Tender, error) {
	out := make([]service.Tender, 0, len(in))
	for i, r := range in {
		t, err := r.ToTender()
		if err != nil {
			return nil, fmt.Errorf("tender %d: %w", i+1, err)
		}
		out = append(out, t)
	}
	return out, nil
}

type CreatePaymentRequest struct {
	EnrollmentID *uuid.UUID      `json:"enrollment_id,omitempty"`
	Note         *string         `json:"note,omitempty" validate:"omitempty,max=500"`
	Lines        []LineRequest   `json:"lines" validate:"required,min=1,max=100,dive"`
	Tenders      []TenderRequest `json:"tenders,omitempty" validate:"omitempty,max=50,dive"`
}

func (r CreatePaymentRequest) ToInput(today time.Time) (service.RegisterInput, error) {
	lines := make([]service.LineInput, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, service.LineInput{
			Description: l.Description,
			Base:        l.Base,
			BonusID:     l.BonusID,
			SurchargeID: l.SurchargeID,
		})
	}
	tenders, err := ToTenders(r.Tenders)
	if err != nil {
		return service.RegisterInput{}, err
	}
	return service.RegisterInput{
		Lines:        lines,
		Tenders:      tenders,
		EnrollmentID: r.EnrollmentID,
		Note:         r.Note,
		Today:        today,
	}, nil
}

type ApplyTendersRequest struct {
	Tenders []TenderRequest `json:"tenders" validate:"required,min=1,max=50,dive"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type LineResponse struct {
	ID          uuid.UUID         `json:"id"`
	Index       int               `json:"index"`
	Description string            `json:"description"`
	Reference   ReferenceResponse `json:"reference"`
	Base        decimal.Decimal   `json:"base"`
	BonusID     *uuid.UUID        `json:"bonus_id,omitempty"`
	SurchargeID *uuid.UUID        `json:"surcharge_id,omitempty"`
	Net         decimal.Decimal   `json:"net"`
	Tendered    decimal.Decimal   `json:"tendered"`
	Pending     decimal.Decimal   `json:"pending"`
	Credit      decimal.Decimal   `json:"credit"`
	Collected   bool              `json:"collected"`
	// true only on the pass that collected the line
	NewlyCollected bool `json:"newly_collected,omitempty"`
}

type TenderResponse struct {
	ID         uuid.UUID              `json:"id"`
	Instrument model.TenderInstrument `json:"instrument"`
	Amount     decimal.Decimal        `json:"amount"`
	LineID     *uuid.UUID             `json:"line_id,omitempty"`
	Reference  *string                `json:"reference,omitempty"`
}

type SummaryResponse struct {
	ByInstrument map[model.TenderInstrument]decimal.Decimal `json:"by_instrument"`
	Tendered     decimal.Decimal                            `json:"tendered"`
	Pending      decimal.Decimal                            `json:"pending"`
	Credit       decimal.Decimal                            `json:"credit"`
	Settled      bool                                       `json:"settled"`
}

type PaymentResponse struct {
	ID           uuid.UUID                `json:"id"`
	Status       model.PaymentEventStatus `json:"status"`
	Kind         model.PaymentEventKind   `json:"kind"`
	EnrollmentID *uuid.UUID               `json:"enrollment_id,omitempty"`
	ExternalID   *string                  `json:"external_id,omitempty"`
	Note         *string                  `json:"note,omitempty"`
	VoidedAt     *time.Time               `json:"voided_at,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`

	Lines   []LineResponse   `json:"lines"`
	Tenders []TenderResponse `json:"tenders"`
	Summary *SummaryResponse `json:"summary,omitempty"`
}

func FromSummary(s service.Summary) *SummaryResponse {
	by := make(map[model.TenderInstrument]decimal.Decimal, len(s.ByInstrument))
	for k, v := range s.ByInstrument {
		by[k] = v
	}
	return &SummaryResponse{
		ByInstrument: by,
		Tendered:     s.Tendered,
		Pending:      s.Pending,
		Credit:       s.Credit,
		Settled:      s.Settled,
	}
}

// FromPayment renders stored state only; no summary.
func FromPayment(p *service.PaymentEvent) PaymentResponse {
	return fromPayment(p, nil)
}

// FromResult renders a payment together with the settlement pass that produced it.
func FromResult(r service.PaymentResult) PaymentResponse {
	byID := make(map[uuid.UUID]service.LineOutcome, len(r.Outcomes))
	for _, o := range r.Outcomes {
		byID[o.LineID] = o
	}
	resp := fromPayment(r.Payment, byID)
	resp.Summary = FromSummary(r.Summary)
	return resp
}

func fromPayment(p *service.PaymentEvent, outcomes map[uuid.UUID]service.LineOutcome) PaymentResponse {
	resp := PaymentResponse{
		ID:           p.ID,
		Status:       p.Status,
		Kind:         p.Kind,
		EnrollmentID: p.EnrollmentID,
		ExternalID:   p.ExternalID,
		Note:         p.Note,
		VoidedAt:     p.VoidedAt,
		CreatedAt:    p.CreatedAt,
		Lines:        make([]LineResponse, 0, len(p.Lines)),
		Tenders:      make([]TenderResponse, 0, len(p.Tenders)),
	}
	for _, l := range p.Lines {
		lr := LineResponse{
			ID:          l.ID,
			Index:       l.Index,
			Description: l.Description,
			Reference:   FromReference(l.Reference),
			Base:        l.Base,
			Net:         l.Net,
			Tendered:    l.Tendered,
			Collected:   l.Collected,
		}
		if l.Bonus != nil {
			id := l.Bonus.ID
			lr.BonusID = &id
		}
		if l.Surcharge != nil {
			id := l.Surcharge.ID
			lr.SurchargeID = &id
		}
		if o, ok := outcomes[l.ID]; ok {
			lr.Net, lr.Tendered, lr.Collected = o.Net, o.Tendered, o.Collected
			lr.Pending, lr.Credit = o.Pending, o.Credit
			lr.NewlyCollected = o.NewlyCollected
		} else if l.Residual.IsPositive() {
			lr.Pending = l.Residual
		} else {
			lr.Credit = l.Residual.Neg()
		}
		resp.Lines = append(resp.Lines, lr)
	}
	for _, t := range p.Tenders {
		resp.Tenders = append(resp.Tenders, TenderResponse{
			ID:         t.ID,
			Instrument: t.Instrument,
			Amount:     t.Amount,
			LineID:     t.LineID,
			Reference:  t.Reference,
		})
	}
	return resp
}

type OutstandingResponse struct {
	PaymentID   uuid.UUID          `json:"payment_id"`
	LineID      uuid.UUID          `json:"line_id"`
	Index       int                `json:"index"`
	Description string             `json:"description"`
	Category    model.DebtCategory `json:"category"`
	Net         decimal.Decimal    `json:"net"`
	Tendered    decimal.Decimal    `json:"tendered"`
	Pending     decimal.Decimal    `json:"pending"`
	CreatedAt   time.Time          `json:"created_at"`
}

func FromOutstandingRows(rows []service.OutstandingRow) []OutstandingResponse {
	out := make([]OutstandingResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, OutstandingResponse{
			PaymentID:   r.PaymentID,
			LineID:      r.LineID,
			Index:       r.Index,
			Description: r.Description,
			Category:    r.Category,
			Net:         r.Net,
			Tendered:    r.Tendered,
			Pending:     r.Pending,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out
}

// ParseCategories reads "?category=A,B". Unknown values are rejected.
func ParseCategories(raw string) ([]model.DebtCategory, error) {
	var out []model.DebtCategory
	for _, part := range strings.Split(raw, ",") {
		p := strings.ToUpper(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		c := model.DebtCategory(p)
		if !c.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", service.ErrInvalidInput, part)
		}
		out = append(out, c)
	}
	return out, nil
}
