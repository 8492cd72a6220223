// file: internals/features/finance/debts/model/catalog_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* =========================================================
   Catalogs referenced by debt lines (read-only for the engine)
========================================================= */

// Matricula per academic year.
type EnrollmentFeeModel struct {
	EnrollmentFeeID     uuid.UUID       `gorm:"column:enrollment_fee_id;type:uuid;default:gen_random_uuid();primaryKey" json:"enrollment_fee_id"`
	EnrollmentFeeYear   int             `gorm:"column:enrollment_fee_year;not null;index:ix_enrollment_fees_year" json:"enrollment_fee_year"`
	EnrollmentFeeAmount decimal.Decimal `gorm:"column:enrollment_fee_amount;type:numeric(14,2);not null;default:0" json:"enrollment_fee_amount"`

	EnrollmentFeeCreatedAt time.Time      `gorm:"column:enrollment_fee_created_at;type:timestamptz;not null;autoCreateTime" json:"enrollment_fee_created_at"`
	EnrollmentFeeUpdatedAt time.Time      `gorm:"column:enrollment_fee_updated_at;type:timestamptz;not null;autoUpdateTime" json:"enrollment_fee_updated_at"`
	EnrollmentFeeDeletedAt gorm.DeletedAt `gorm:"column:enrollment_fee_deleted_at;type:timestamptz;index" json:"-"`
}

func (EnrollmentFeeModel) TableName() string { return "enrollment_fees" }

// Cuota mensual ("MARZO", "ABRIL 2025", ...).
type MonthlyDueModel struct {
	MonthlyDueID          uuid.UUID       `gorm:"column:monthly_due_id;type:uuid;default:gen_random_uuid();primaryKey" json:"monthly_due_id"`
	MonthlyDueDescription string          `gorm:"column:monthly_due_description;type:varchar(120);not null" json:"monthly_due_description"`
	MonthlyDueAmount      decimal.Decimal `gorm:"column:monthly_due_amount;type:numeric(14,2);not null;default:0" json:"monthly_due_amount"`

	MonthlyDueCreatedAt time.Time      `gorm:"column:monthly_due_created_at;type:timestamptz;not null;autoCreateTime" json:"monthly_due_created_at"`
	MonthlyDueUpdatedAt time.Time      `gorm:"column:monthly_due_updated_at;type:timestamptz;not null;autoUpdateTime" json:"monthly_due_updated_at"`
	MonthlyDueDeletedAt gorm.DeletedAt `gorm:"column:monthly_due_deleted_at;type:timestamptz;index" json:"-"`
}

func (MonthlyDueModel) TableName() string { return "monthly_dues" }

// Stock item sold over the counter (uniform, book, ...).
type ProductModel struct {
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;default:gen_random_uuid();primaryKey" json:"product_id"`
	ProductName  string          `gorm:"column:product_name;type:varchar(160);not null;index:ix_products_name" json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"column:product_price;type:numeric(14,2);not null;default:0" json:"product_price"`
	ProductStock int             `gorm:"column:product_stock;not null;default:0" json:"product_stock"`

	ProductCreatedAt time.Time      `gorm:"column:product_created_at;type:timestamptz;not null;autoCreateTime" json:"product_created_at"`
	ProductUpdatedAt time.Time      `gorm:"column:product_updated_at;type:timestamptz;not null;autoUpdateTime" json:"product_updated_at"`
	ProductDeletedAt gorm.DeletedAt `gorm:"column:product_deleted_at;type:timestamptz;index" json:"-"`
}

func (ProductModel) TableName() string { return "products" }

type ConceptModel struct {
	ConceptID          uuid.UUID `gorm:"column:concept_id;type:uuid;default:gen_random_uuid();primaryKey" json:"concept_id"`
	ConceptDescription string    `gorm:"column:concept_description;type:varchar(200);not null" json:"concept_description"`

	ConceptCreatedAt time.Time      `gorm:"column:concept_created_at;type:timestamptz;not null;autoCreateTime" json:"concept_created_at"`
	ConceptUpdatedAt time.Time      `gorm:"column:concept_updated_at;type:timestamptz;not null;autoUpdateTime" json:"concept_updated_at"`
	ConceptDeletedAt gorm.DeletedAt `gorm:"column:concept_deleted_at;type:timestamptz;index" json:"-"`
}

func (ConceptModel) TableName() string { return "concepts" }

type SubConceptModel struct {
	SubConceptID          uuid.UUID `gorm:"column:sub_concept_id;type:uuid;default:gen_random_uuid();primaryKey" json:"sub_concept_id"`
	SubConceptDescription string    `gorm:"column:sub_concept_description;type:varchar(200);not null" json:"sub_concept_description"`

	SubConceptCreatedAt time.Time      `gorm:"column:sub_concept_created_at;type:timestamptz;not null;autoCreateTime" json:"sub_concept_created_at"`
	SubConceptUpdatedAt time.Time      `gorm:"column:sub_concept_updated_at;type:timestamptz;not null;autoUpdateTime" json:"sub_concept_updated_at"`
	SubConceptDeletedAt gorm.DeletedAt `gorm:"column:sub_concept_deleted_at;type:timestamptz;index" json:"-"`
}

func (SubConceptModel) TableName() string { return "sub_concepts" }

// Many-to-many link; a sub-concept may hang under several concepts.
type ConceptSubConceptModel struct {
	ConceptSubConceptConceptID    uuid.UUID `gorm:"column:concept_sub_concept_concept_id;type:uuid;primaryKey" json:"concept_sub_concept_concept_id"`
	ConceptSubConceptSubConceptID uuid.UUID `gorm:"column:concept_sub_concept_sub_concept_id;type:uuid;primaryKey;index" json:"concept_sub_concept_sub_concept_id"`
	ConceptSubConceptCreatedAt    time.Time `gorm:"column:concept_sub_concept_created_at;type:timestamptz;not null;autoCreateTime" json:"concept_sub_concept_created_at"`
}

func (ConceptSubConceptModel) TableName() string { return "concept_sub_concepts" }

/* =========================================================
   Bonus (bonificacion) & surcharge (recargo) rules
========================================================= */

type BonusModel struct {
	BonusID          uuid.UUID        `gorm:"column:bonus_id;type:uuid;default:gen_random_uuid();primaryKey" json:"bonus_id"`
	BonusDescription string           `gorm:"column:bonus_description;type:varchar(160);not null" json:"bonus_description"`
	BonusFixedAmount *decimal.Decimal `gorm:"column:bonus_fixed_amount;type:numeric(14,2)" json:"bonus_fixed_amount,omitempty"`
	BonusPercentage  *decimal.Decimal `gorm:"column:bonus_percentage;type:numeric(7,4)" json:"bonus_percentage,omitempty"`

	BonusCreatedAt time.Time      `gorm:"column:bonus_created_at;type:timestamptz;not null;autoCreateTime" json:"bonus_created_at"`
	BonusUpdatedAt time.Time      `gorm:"column:bonus_updated_at;type:timestamptz;not null;autoUpdateTime" json:"bonus_updated_at"`
	BonusDeletedAt gorm.DeletedAt `gorm:"column:bonus_deleted_at;type:timestamptz;index" json:"-"`
}

func (BonusModel) TableName() string { return "bonuses" }

type SurchargeModel struct {
	SurchargeID             uuid.UUID        `gorm:"column:surcharge_id;type:uuid;default:gen_random_uuid();primaryKey" json:"surcharge_id"`
	SurchargeDescription    string           `gorm:"column:surcharge_description;type:varchar(160);not null" json:"surcharge_description"`
	SurchargeFixedAmount    *decimal.Decimal `gorm:"column:surcharge_fixed_amount;type:numeric(14,2)" json:"surcharge_fixed_amount,omitempty"`
	SurchargePercentage     *decimal.Decimal `gorm:"column:surcharge_percentage;type:numeric(7,4)" json:"surcharge_percentage,omitempty"`
	SurchargeApplicationDay int16            `gorm:"column:surcharge_application_day;type:smallint;not null;check:surcharge_application_day BETWEEN 1 AND 31" json:"surcharge_application_day"`

	SurchargeCreatedAt time.Time      `gorm:"column:surcharge_created_at;type:timestamptz;not null;autoCreateTime" json:"surcharge_created_at"`
	SurchargeUpdatedAt time.Time      `gorm:"column:surcharge_updated_at;type:timestamptz;not null;autoUpdateTime" json:"surcharge_updated_at"`
	SurchargeDeletedAt gorm.DeletedAt `gorm:"column:surcharge_deleted_at;type:timestamptz;index" json:"-"`
}

func (SurchargeModel) TableName() string { return "surcharges" }
