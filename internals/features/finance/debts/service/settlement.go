package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "cobranza_backend/internals/features/finance/debts/model"
)

// Line is one debt line as the engine sees it: a snapshot read from storage.
type Line struct {
	ID          uuid.UUID
	Index       int
	Description string
	Reference   DebtReference

	Base      decimal.Decimal
	Bonus     *BonusRule
	Surcharge *SurchargeRule
	Tendered  decimal.Decimal

	// Net and Residual are the values of the last settlement pass. Once a line
	// is collected they are frozen and no longer recomputed.
	Collected bool
	Net       decimal.Decimal
	Residual  decimal.Decimal

	Version int64
}

type Tender struct {
	ID         uuid.UUID
	Instrument model.TenderInstrument
	Amount     decimal.Decimal
	LineID     *uuid.UUID
	Reference  *string
}

type LineOutcome struct {
	LineID         uuid.UUID
	Index          int
	Net            decimal.Decimal
	Tendered       decimal.Decimal
	Residual       decimal.Decimal
	Pending        decimal.Decimal
	Credit         decimal.Decimal
	Collected      bool
	NewlyCollected bool
}

// Summary is the payment-level roll-up.
type Summary struct {
	ByInstrument map[model.TenderInstrument]decimal.Decimal
	Tendered     decimal.Decimal
	Pending      decimal.Decimal
	Credit       decimal.Decimal
	Settled      bool
}

func splitResidual(residual decimal.Decimal) (pending, credit decimal.Decimal) {
	if residual.IsPositive() {
		return residual, decimal.Zero
	}
	return decimal.Zero, residual.Neg()
}

func lineBreakdown(l Line, today time.Time) (Breakdown, error) {
	b, err := Compute(NetInput{
		Base:      l.Base,
		Bonus:     l.Bonus,
		Surcharge: l.Surcharge,
		Tendered:  decimal.NewNullDecimal(l.Tendered),
		Today:     today,
	})
	if err != nil {
		return b, fmt.Errorf("line %d: %w", l.Index, err)
	}
	return b, nil
}

// Settle recomputes every open line against what has been tendered so far and
// rolls the result up. Lines are not modified; see ApplyOutcomes.
func Settle(lines []Line, tenders []Tender, today time.Time) (Summary, []LineOutcome, error) {
	sum := Summary{ByInstrument: map[model.TenderInstrument]decimal.Decimal{}}
	outcomes := make([]LineOutcome, 0, len(lines))

	for _, l := range lines {
		o := LineOutcome{LineID: l.ID, Index: l.Index, Tendered: l.Tendered}
		if l.Collected {
			o.Net, o.Residual, o.Collected = l.Net, l.Residual, true
		} else {
			b, err := lineBreakdown(l, today)
			if err != nil {
				return Summary{}, nil, err
			}
			o.Net = b.Adjusted.Round(moneyPlaces)
			o.Residual = b.Result
			if !o.Residual.IsPositive() {
				o.Collected, o.NewlyCollected = true, true
			}
		}
		o.Pending, o.Credit = splitResidual(o.Residual)

		sum.Pending = sum.Pending.Add(o.Pending)
		sum.Credit = sum.Credit.Add(o.Credit)
		outcomes = append(outcomes, o)
	}

	for _, t := range tenders {
		sum.ByInstrument[t.Instrument] = sum.ByInstrument[t.Instrument].Add(t.Amount)
		sum.Tendered = sum.Tendered.Add(t.Amount)
	}
	sum.Settled = sum.Pending.IsZero()
	return sum, outcomes, nil
}

// ApplyOutcomes returns copies of lines carrying the outcome of a pass.
func ApplyOutcomes(lines []Line, outcomes []LineOutcome) []Line {
	byID := make(map[uuid.UUID]LineOutcome, len(outcomes))
	for _, o := range outcomes {
		byID[o.LineID] = o
	}
	out := make([]Line, len(lines))
	for i, l := range lines {
		if o, ok := byID[l.ID]; ok {
			l.Net, l.Residual, l.Collected = o.Net, o.Residual, o.Collected
		}
		out[i] = l
	}
	return out
}

// Outstanding keeps the lines that still owe money.
func Outstanding(outcomes []LineOutcome) []LineOutcome {
	out := make([]LineOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Pending.IsPositive() {
			out = append(out, o)
		}
	}
	return out
}

/* =========================================================
   Allocation of new tenders across lines

   - a tender with LineID goes to that line only
   - an untargeted tender fills open lines in index order up to their
     pending; whatever is left lands on the last open line as credit
   - collected lines never receive money
========================================================= */

func Allocate(lines []Line, tenders []Tender, today time.Time) ([]Line, error) {
	out := append([]Line(nil), lines...)
	pos := make(map[uuid.UUID]int, len(out))
	for i, l := range out {
		pos[l.ID] = i
	}

	for ti, t := range tenders {
		if !t.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: tender %d amount must be positive", ErrInvalidInput, ti+1)
		}
		if t.Instrument == "" {
			return nil, fmt.Errorf("%w: tender %d has no instrument", ErrInvalidInput, ti+1)
		}

		if t.LineID != nil {
			i, ok := pos[*t.LineID]
			if !ok {
				return nil, fmt.Errorf("%w: tender %d targets unknown line %s", ErrInvalidInput, ti+1, t.LineID)
			}
			if out[i].Collected {
				return nil, fmt.Errorf("%w: tender %d targets collected line %d", ErrInvalidInput, ti+1, out[i].Index)
			}
			out[i].Tendered = out[i].Tendered.Add(t.Amount)
			continue
		}

		remaining := t.Amount
		last := -1
		for i := range out {
			if out[i].Collected {
				continue
			}
			last = i
			if remaining.IsZero() {
				continue
			}
			b, err := lineBreakdown(out[i], today)
			if err != nil {
				return nil, err
			}
			if !b.Result.IsPositive() {
				continue
			}
			take := decimal.Min(b.Result, remaining)
			out[i].Tendered = out[i].Tendered.Add(take)
			remaining = remaining.Sub(take)
		}
		if last < 0 {
			return nil, ErrNothingPending
		}
		if remaining.IsPositive() {
			out[last].Tendered = out[last].Tendered.Add(remaining)
		}
	}
	return out, nil
}
