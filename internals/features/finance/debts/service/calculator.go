package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* =========================================================
   Line amount calculation

   discount  = fixed + pct/100 * base
   surcharge = fixed + pct/100 * base   (only when today.Day() == applicationDay)
   adjusted  = base - discount + surcharge
   result    = adjusted - (tendered ?? adjusted), 2 places, half-up
========================================================= */

// BonusRule (bonificacion). Both components are optional and additive.
type BonusRule struct {
	ID         uuid.UUID
	Fixed      decimal.Decimal
	Percentage decimal.Decimal
}

// SurchargeRule (recargo), gated on a single day of the month.
type SurchargeRule struct {
	ID             uuid.UUID
	Fixed          decimal.Decimal
	Percentage     decimal.Decimal
	ApplicationDay int
}

type NetInput struct {
	Base      decimal.Decimal
	Bonus     *BonusRule
	Surcharge *SurchargeRule
	// Invalid (absent) means "project only": the line is offset against itself.
	Tendered decimal.NullDecimal
	Today    time.Time
}

type Breakdown struct {
	Discount         decimal.Decimal
	Surcharge        decimal.Decimal
	SurchargeApplied bool
	Adjusted         decimal.Decimal
	Tendered         decimal.Decimal
	Result           decimal.Decimal
}

const moneyPlaces = 2

func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Shift(-2)
}

// Discount never looks at the surcharge: the percentage applies to base.
func Discount(base decimal.Decimal, bonus *BonusRule) decimal.Decimal {
	if bonus == nil {
		return decimal.Zero
	}
	return bonus.Fixed.Add(percentOf(base, bonus.Percentage))
}

// SurchargeValue is zero on every day except the rule's application day.
func SurchargeValue(base decimal.Decimal, surcharge *SurchargeRule, today time.Time) (decimal.Decimal, bool) {
	if surcharge == nil || today.Day() != surcharge.ApplicationDay {
		return decimal.Zero, false
	}
	return surcharge.Fixed.Add(percentOf(base, surcharge.Percentage)), true
}

// Compute returns every intermediate value. Inputs are never modified.
func Compute(in NetInput) (Breakdown, error) {
	if in.Base.IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: base amount %s is negative", ErrInvalidInput, in.Base.String())
	}

	var b Breakdown
	b.Discount = Discount(in.Base, in.Bonus)
	b.Surcharge, b.SurchargeApplied = SurchargeValue(in.Base, in.Surcharge, in.Today)
	b.Adjusted = in.Base.Sub(b.Discount).Add(b.Surcharge)

	b.Tendered = b.Adjusted
	if in.Tendered.Valid {
		b.Tendered = in.Tendered.Decimal
	}
	b.Result = b.Adjusted.Sub(b.Tendered).Round(moneyPlaces)
	return b, nil
}

// ComputeNet is the pending amount for one line; negative means credit.
func ComputeNet(in NetInput) (decimal.Decimal, error) {
	b, err := Compute(in)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Result, nil
}
