package service

import (
	"github.com/google/uuid"

	model "cobranza_backend/internals/features/finance/debts/model"
)

// DebtReference points at the catalog record a line settles. It is only built
// by the Resolver; the zero value means "not resolved yet".
type DebtReference struct {
	category        model.DebtCategory
	enrollmentFeeID *uuid.UUID
	monthlyDueID    *uuid.UUID
	productID       *uuid.UUID
	conceptID       *uuid.UUID
	subConceptID    *uuid.UUID
}

func (r DebtReference) Category() model.DebtCategory { return r.category }
func (r DebtReference) EnrollmentFeeID() *uuid.UUID  { return r.enrollmentFeeID }
func (r DebtReference) MonthlyDueID() *uuid.UUID     { return r.monthlyDueID }
func (r DebtReference) ProductID() *uuid.UUID        { return r.productID }
func (r DebtReference) ConceptID() *uuid.UUID        { return r.conceptID }
func (r DebtReference) SubConceptID() *uuid.UUID     { return r.subConceptID }

// Resolved reports whether the category-specific key was found. A generic
// concept counts as resolved when either the concept or the sub-concept is known.
func (r DebtReference) Resolved() bool {
	switch r.category {
	case model.DebtCategoryEnrollmentFee:
		return r.enrollmentFeeID != nil
	case model.DebtCategoryMonthlyDue:
		return r.monthlyDueID != nil
	case model.DebtCategoryProduct:
		return r.productID != nil
	case model.DebtCategoryGenericConcept:
		return r.conceptID != nil || r.subConceptID != nil
	}
	return false
}

// RestoreReference rebuilds a reference from persisted columns. Only the ids
// that belong to the category survive.
func RestoreReference(category model.DebtCategory, enrollmentFeeID, monthlyDueID, productID, conceptID, subConceptID *uuid.UUID) DebtReference {
	ref := DebtReference{category: category}
	switch category {
	case model.DebtCategoryEnrollmentFee:
		ref.enrollmentFeeID = enrollmentFeeID
	case model.DebtCategoryMonthlyDue:
		ref.monthlyDueID = monthlyDueID
	case model.DebtCategoryProduct:
		ref.productID = productID
	case model.DebtCategoryGenericConcept:
		ref.conceptID = conceptID
		ref.subConceptID = subConceptID
	}
	return ref
}
