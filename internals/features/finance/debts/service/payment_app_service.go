package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "cobranza_backend/internals/features/finance/debts/model"
)

/* =========================================================
   Payment aggregate + storage contract
========================================================= */

type PaymentEvent struct {
	ID           uuid.UUID
	Status       model.PaymentEventStatus
	Kind         model.PaymentEventKind
	EnrollmentID *uuid.UUID
	ExternalID   *string
	Note         *string
	Meta         map[string]any
	VoidedAt     *time.Time
	CreatedAt    time.Time

	Lines   []Line
	Tenders []Tender
}

func (p *PaymentEvent) IsVoid() bool { return p.Status == model.PaymentEventStatusVoid }

func (p *PaymentEvent) hasTenderReference(ref string) bool {
	for _, t := range p.Tenders {
		if t.Reference != nil && *t.Reference == ref {
			return true
		}
	}
	return false
}

// RuleLookup resolves bonus/surcharge ids into immutable rules. nil = not found.
type RuleLookup interface {
	BonusByID(ctx context.Context, id uuid.UUID) (*BonusRule, error)
	SurchargeByID(ctx context.Context, id uuid.UUID) (*SurchargeRule, error)
}

// MutateFunc receives a locked, freshly loaded payment. It edits it in place
// and returns the tenders that must be inserted.
type MutateFunc func(p *PaymentEvent) ([]Tender, error)

// PaymentStore owns exclusivity: Mutate must serialize writers of the same
// payment and report lost races as ErrConcurrentModification.
type PaymentStore interface {
	Create(ctx context.Context, p *PaymentEvent) error
	Get(ctx context.Context, id uuid.UUID) (*PaymentEvent, error)
	Mutate(ctx context.Context, id uuid.UUID, fn MutateFunc) (*PaymentEvent, error)
	FindByExternalID(ctx context.Context, externalID string) (uuid.UUID, error)
	ListOutstanding(ctx context.Context, f OutstandingFilter) ([]OutstandingRow, int64, error)
}

// OutstandingFilter pages the owed lines; empty Categories means all.
type OutstandingFilter struct {
	Categories []model.DebtCategory
	Offset     int
	Limit      int
}

// OutstandingRow is one owed line of an ACTIVE payment.
type OutstandingRow struct {
	PaymentID   uuid.UUID
	LineID      uuid.UUID
	Index       int
	Description string
	Category    model.DebtCategory
	Net         decimal.Decimal
	Tendered    decimal.Decimal
	Pending     decimal.Decimal
	CreatedAt   time.Time
}

/* =========================================================
   Application service
========================================================= */

type LineInput struct {
	Description string
	Base        decimal.Decimal
	BonusID     *uuid.UUID
	SurchargeID *uuid.UUID
}

type RegisterInput struct {
	Lines        []LineInput
	Tenders      []Tender
	EnrollmentID *uuid.UUID
	Note         *string
	Today        time.Time
}

type PaymentResult struct {
	Payment  *PaymentEvent
	Summary  Summary
	Outcomes []LineOutcome
}

type PaymentAppService struct {
	resolver *Resolver
	rules    RuleLookup
	store    PaymentStore
	products *ProductIndex
	observer Observer
}

func NewPaymentAppService(resolver *Resolver, rules RuleLookup, store PaymentStore, products *ProductIndex) *PaymentAppService {
	return &PaymentAppService{resolver: resolver, rules: rules, store: store, products: products, observer: nopObserver{}}
}

func (s *PaymentAppService) Resolver() *Resolver { return s.resolver }

// RefreshProducts reloads the product snapshot when stale. Failures keep the
// old snapshot and are only logged.
func (s *PaymentAppService) RefreshProducts(ctx context.Context, now time.Time) {
	if s.products == nil {
		return
	}
	if err := s.products.RefreshIfStale(ctx, now); err != nil {
		log.Printf("[WARN] product index refresh failed: %v", err)
	}
}

// Register resolves every line, applies the initial tenders and persists the
// payment. Unresolved references are kept as-is for manual linking.
func (s *PaymentAppService) Register(ctx context.Context, in RegisterInput) (res PaymentResult, err error) {
	defer func() {
		s.observer.RecordOperation("register", err)
		if err == nil {
			s.observer.RecordTenders(res.Payment.Tenders)
		}
	}()
	if len(in.Lines) == 0 {
		return PaymentResult{}, fmt.Errorf("%w: at least one line is required", ErrInvalidInput)
	}
	s.RefreshProducts(ctx, in.Today)

	lines := make([]Line, 0, len(in.Lines))
	for i, li := range in.Lines {
		if li.Base.IsNegative() {
			return PaymentResult{}, fmt.Errorf("%w: line %d base amount is negative", ErrInvalidInput, i+1)
		}
		ref, err := s.resolver.Resolve(ctx, li.Description)
		if err != nil {
			return PaymentResult{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		line := Line{
			ID:          uuid.New(),
			Index:       i + 1,
			Description: NormalizeDescription(li.Description),
			Reference:   ref,
			Base:        li.Base,
			Version:     1,
		}
		if line.Bonus, err = s.bonus(ctx, li.BonusID); err != nil {
			return PaymentResult{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		if line.Surcharge, err = s.surcharge(ctx, li.SurchargeID); err != nil {
			return PaymentResult{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		if !ref.Resolved() {
			log.Printf("[INFO] line %d %q unresolved (category=%s)", line.Index, line.Description, ref.Category())
			s.observer.RecordUnresolved(ref.Category())
		}
		lines = append(lines, line)
	}

	tenders := withIDs(in.Tenders)
	if len(tenders) > 0 {
		if lines, err = Allocate(lines, tenders, in.Today); err != nil {
			return PaymentResult{}, err
		}
	}
	sum, outcomes, err := Settle(lines, tenders, in.Today)
	if err != nil {
		return PaymentResult{}, err
	}

	p := &PaymentEvent{
		ID:           uuid.New(),
		Status:       model.PaymentEventStatusActive,
		Kind:         model.PaymentEventKindGeneral,
		EnrollmentID: in.EnrollmentID,
		Note:         in.Note,
		CreatedAt:    in.Today,
		Lines:        ApplyOutcomes(lines, outcomes),
		Tenders:      tenders,
	}
	if in.EnrollmentID != nil {
		p.Kind = model.PaymentEventKindSubscription
	}
	if err := s.store.Create(ctx, p); err != nil {
		return PaymentResult{}, err
	}
	return PaymentResult{Payment: p, Summary: sum, Outcomes: outcomes}, nil
}

// ApplyTenders runs a settlement pass with additional money.
func (s *PaymentAppService) ApplyTenders(ctx context.Context, paymentID uuid.UUID, tenders []Tender, today time.Time) (PaymentResult, error) {
	if len(tenders) == 0 {
		return PaymentResult{}, fmt.Errorf("%w: at least one tender is required", ErrInvalidInput)
	}
	fresh := withIDs(tenders)

	var res PaymentResult
	p, err := s.store.Mutate(ctx, paymentID, func(p *PaymentEvent) ([]Tender, error) {
		if p.IsVoid() {
			return nil, ErrPaymentVoided
		}
		var err error
		res, err = settleInto(p, fresh, today)
		if err != nil {
			return nil, err
		}
		return fresh, nil
	})
	s.observer.RecordOperation("apply_tenders", err)
	if err != nil {
		return PaymentResult{}, err
	}
	s.observer.RecordTenders(fresh)
	res.Payment = p
	return res, nil
}

// settleInto allocates tenders onto p, recomputes and stores the outcome on p.
func settleInto(p *PaymentEvent, tenders []Tender, today time.Time) (PaymentResult, error) {
	lines, err := Allocate(p.Lines, tenders, today)
	if err != nil {
		return PaymentResult{}, err
	}
	all := append(append([]Tender(nil), p.Tenders...), tenders...)
	sum, outcomes, err := Settle(lines, all, today)
	if err != nil {
		return PaymentResult{}, err
	}
	p.Lines = ApplyOutcomes(lines, outcomes)
	p.Tenders = all
	return PaymentResult{Summary: sum, Outcomes: outcomes}, nil
}

// Get is a read-only view; nothing is persisted.
func (s *PaymentAppService) Get(ctx context.Context, paymentID uuid.UUID, today time.Time) (PaymentResult, error) {
	p, err := s.store.Get(ctx, paymentID)
	if err != nil {
		return PaymentResult{}, err
	}
	sum, outcomes, err := Settle(p.Lines, p.Tenders, today)
	if err != nil {
		return PaymentResult{}, err
	}
	return PaymentResult{Payment: p, Summary: sum, Outcomes: outcomes}, nil
}

// Void marks the payment inactive. Voided payments are never reopened.
func (s *PaymentAppService) Void(ctx context.Context, paymentID uuid.UUID, at time.Time) (*PaymentEvent, error) {
	p, err := s.store.Mutate(ctx, paymentID, func(p *PaymentEvent) ([]Tender, error) {
		if p.IsVoid() {
			return nil, ErrPaymentVoided
		}
		p.Status = model.PaymentEventStatusVoid
		p.VoidedAt = &at
		return nil, nil
	})
	s.observer.RecordOperation("void", err)
	return p, err
}

// Outstanding reports owed lines of ACTIVE payments from stored state.
func (s *PaymentAppService) Outstanding(ctx context.Context, f OutstandingFilter) ([]OutstandingRow, int64, error) {
	return s.store.ListOutstanding(ctx, f)
}

type QuoteInput struct {
	Base        decimal.Decimal
	BonusID     *uuid.UUID
	SurchargeID *uuid.UUID
	Tendered    decimal.NullDecimal
	Today       time.Time
}

// Quote prices a single line without persisting anything.
func (s *PaymentAppService) Quote(ctx context.Context, in QuoteInput) (Breakdown, error) {
	bonus, err := s.bonus(ctx, in.BonusID)
	if err != nil {
		return Breakdown{}, err
	}
	surcharge, err := s.surcharge(ctx, in.SurchargeID)
	if err != nil {
		return Breakdown{}, err
	}
	return Compute(NetInput{
		Base:      in.Base,
		Bonus:     bonus,
		Surcharge: surcharge,
		Tendered:  in.Tendered,
		Today:     in.Today,
	})
}

func (s *PaymentAppService) bonus(ctx context.Context, id *uuid.UUID) (*BonusRule, error) {
	if id == nil {
		return nil, nil
	}
	b, err := s.rules.BonusByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: bonus %s not found", ErrInvalidInput, id)
	}
	return b, nil
}

func (s *PaymentAppService) surcharge(ctx context.Context, id *uuid.UUID) (*SurchargeRule, error) {
	if id == nil {
		return nil, nil
	}
	r, err := s.rules.SurchargeByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: surcharge %s not found", ErrInvalidInput, id)
	}
	return r, nil
}

func withIDs(in []Tender) []Tender {
	out := make([]Tender, len(in))
	for i, t := range in {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		out[i] = t
	}
	return out
}
