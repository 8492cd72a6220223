package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	model "cobranza_backend/internals/features/finance/debts/model"
)

// CatalogLookup is the read side of the catalogs. Every method returns nil
// when nothing matches; picking the "first" record among several is the
// implementation's job and must be deterministic.
type CatalogLookup interface {
	EnrollmentFeeByYear(ctx context.Context, year int) (*uuid.UUID, error)
	MonthlyDueByDescription(ctx context.Context, fragment string) (*uuid.UUID, error)
	ProductByName(ctx context.Context, name string) (*uuid.UUID, error)
	ConceptByDescription(ctx context.Context, fragment string) (*uuid.UUID, error)
	SubConceptByDescription(ctx context.Context, description string) (*uuid.UUID, error)
	ConceptBySubConcept(ctx context.Context, subConceptID uuid.UUID) (*uuid.UUID, error)
}

// Resolver turns free text into a DebtReference. Missing catalog records are
// not errors: the reference simply carries nil ids. Only an empty description
// or a failing catalog backend is reported.
type Resolver struct {
	classifier *Classifier
	catalog    CatalogLookup
}

func NewResolver(classifier *Classifier, catalog CatalogLookup) *Resolver {
	return &Resolver{classifier: classifier, catalog: catalog}
}

func (r *Resolver) Classifier() *Classifier { return r.classifier }

func (r *Resolver) Resolve(ctx context.Context, description string) (DebtReference, error) {
	category, key, err := r.classifier.Classify(description)
	if err != nil {
		return DebtReference{}, err
	}
	normalized := NormalizeDescription(description)
	ref := DebtReference{category: category}

	switch category {
	case model.DebtCategoryEnrollmentFee:
		year, convErr := strconv.Atoi(key)
		if convErr != nil {
			return ref, nil
		}
		id, err := r.catalog.EnrollmentFeeByYear(ctx, year)
		if err != nil {
			return ref, fmt.Errorf("enrollment fee lookup: %w", err)
		}
		ref.enrollmentFeeID = id

	case model.DebtCategoryMonthlyDue:
		id, err := r.catalog.MonthlyDueByDescription(ctx, key)
		if err != nil {
			return ref, fmt.Errorf("monthly due lookup: %w", err)
		}
		ref.monthlyDueID = id

	case model.DebtCategoryProduct:
		id, err := r.catalog.ProductByName(ctx, normalized)
		if err != nil {
			return ref, fmt.Errorf("product lookup: %w", err)
		}
		ref.productID = id

	default:
		sub, err := r.catalog.SubConceptByDescription(ctx, key)
		if err != nil {
			return ref, fmt.Errorf("sub-concept lookup: %w", err)
		}
		concept, err := r.catalog.ConceptByDescription(ctx, normalized)
		if err != nil {
			return ref, fmt.Errorf("concept lookup: %w", err)
		}
		if concept == nil && sub != nil {
			if concept, err = r.catalog.ConceptBySubConcept(ctx, *sub); err != nil {
				return ref, fmt.Errorf("concept by sub-concept lookup: %w", err)
			}
		}
		ref.conceptID = concept
		ref.subConceptID = sub
	}
	return ref, nil
}
