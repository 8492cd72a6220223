// file: internals/features/finance/debts/repository/catalog_repository.go
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "cobranza_backend/internals/features/finance/debts/model"
	"cobranza_backend/internals/features/finance/debts/service"
)

/* =========================================================
   Catalog lookups

   "First match" is always the oldest row, then the lowest id:
   ORDER BY <created_at> ASC, <id> ASC LIMIT 1
========================================================= */

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func firstOrNil(ids []uuid.UUID) *uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	id := ids[0]
	return &id
}

func (r *CatalogRepository) pluckFirst(ctx context.Context, m any, idCol, createdCol, where string, args ...any) (*uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).
		Model(m).
		Where(where, args...).
		Order(createdCol + " ASC").
		Order(idCol + " ASC").
		Limit(1).
		Pluck(idCol, &ids).Error
	if err != nil {
		return nil, classifyPGError(err)
	}
	return firstOrNil(ids), nil
}

func (r *CatalogRepository) EnrollmentFeeByYear(ctx context.Context, year int) (*uuid.UUID, error) {
	return r.pluckFirst(ctx, &model.EnrollmentFeeModel{},
		"enrollment_fee_id", "enrollment_fee_created_at",
		"enrollment_fee_year = ?", year)
}

func (r *CatalogRepository) MonthlyDueByDescription(ctx context.Context, fragment string) (*uuid.UUID, error) {
	return r.pluckFirst(ctx, &model.MonthlyDueModel{},
		"monthly_due_id", "monthly_due_created_at",
		"monthly_due_description ILIKE ?", containsPattern(fragment))
}

func (r *CatalogRepository) ProductByName(ctx context.Context, name string) (*uuid.UUID, error) {
	return r.pluckFirst(ctx, &model.ProductModel{},
		"product_id", "product_created_at",
		"UPPER(TRIM(product_name)) = ?", service.NormalizeDescription(name))
}

func (r *CatalogRepository) ConceptByDescription(ctx context.Context, fragment string) (*uuid.UUID, error) {
	return r.pluckFirst(ctx, &model.ConceptModel{},
		"concept_id", "concept_created_at",
		"concept_description ILIKE ?", containsPattern(fragment))
}

func (r *CatalogRepository) SubConceptByDescription(ctx context.Context, description string) (*uuid.UUID, error) {
	return r.pluckFirst(ctx, &model.SubConceptModel{},
		"sub_concept_id", "sub_concept_created_at",
		"UPPER(TRIM(sub_concept_description)) = ?", service.NormalizeDescription(description))
}

func (r *CatalogRepository) ConceptBySubConcept(ctx context.Context, subConceptID uuid.UUID) (*uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).
		Table("concept_sub_concepts AS l").
		Joins("JOIN concepts c ON c.concept_id = l.concept_sub_concept_concept_id AND c.concept_deleted_at IS NULL").
		Where("l.concept_sub_concept_sub_concept_id = ?", subConceptID).
		Order("l.concept_sub_concept_created_at ASC").
		Order("c.concept_id ASC").
		Limit(1).
		Pluck("c.concept_id", &ids).Error
	if err != nil {
		return nil, classifyPGError(err)
	}
	return firstOrNil(ids), nil
}

// ListProductNames feeds the classifier's product index.
func (r *CatalogRepository) ListProductNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.DB.WithContext(ctx).
		Model(&model.ProductModel{}).
		Pluck("product_name", &names).Error; err != nil {
		return nil, classifyPGError(err)
	}
	return names, nil
}

/* =========================================================
   Bonus / surcharge rules
========================================================= */

func (r *CatalogRepository) BonusByID(ctx context.Context, id uuid.UUID) (*service.BonusRule, error) {
	var m model.BonusModel
	if err := r.DB.WithContext(ctx).First(&m, "bonus_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classifyPGError(err)
	}
	return toBonusRule(&m), nil
}

func (r *CatalogRepository) SurchargeByID(ctx context.Context, id uuid.UUID) (*service.SurchargeRule, error) {
	var m model.SurchargeModel
	if err := r.DB.WithContext(ctx).First(&m, "surcharge_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classifyPGError(err)
	}
	return toSurchargeRule(&m), nil
}
