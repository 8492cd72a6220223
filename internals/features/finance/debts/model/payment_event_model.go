// file: internals/features/finance/debts/model/payment_event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Header ===================== */

type PaymentEventModel struct {
	PaymentEventID uuid.UUID `gorm:"column:payment_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_event_id"`

	PaymentEventStatus PaymentEventStatus `gorm:"column:payment_event_status;type:varchar(10);not null;default:'ACTIVE';index:ix_payment_events_status" json:"payment_event_status"`
	PaymentEventKind   PaymentEventKind   `gorm:"column:payment_event_kind;type:varchar(20);not null;default:'GENERAL'" json:"payment_event_kind"`

	// Set only for SUBSCRIPTION payments
	PaymentEventEnrollmentID *uuid.UUID `gorm:"column:payment_event_enrollment_id;type:uuid;index" json:"payment_event_enrollment_id,omitempty"`

	// order_id at the gateway (Midtrans)
	PaymentEventExternalID *string `gorm:"column:payment_event_external_id;type:varchar(80);uniqueIndex:uq_payment_events_external_id" json:"payment_event_external_id,omitempty"`

	PaymentEventNote *string           `gorm:"column:payment_event_note;type:text" json:"payment_event_note,omitempty"`
	PaymentEventMeta datatypes.JSONMap `gorm:"column:payment_event_meta;type:jsonb" json:"payment_event_meta,omitempty"`

	PaymentEventVoidedAt  *time.Time     `gorm:"column:payment_event_voided_at;type:timestamptz" json:"payment_event_voided_at,omitempty"`
	PaymentEventCreatedAt time.Time      `gorm:"column:payment_event_created_at;type:timestamptz;not null;autoCreateTime" json:"payment_event_created_at"`
	PaymentEventUpdatedAt time.Time      `gorm:"column:payment_event_updated_at;type:timestamptz;not null;autoUpdateTime" json:"payment_event_updated_at"`
	PaymentEventDeletedAt gorm.DeletedAt `gorm:"column:payment_event_deleted_at;type:timestamptz;index" json:"-"`
}

func (PaymentEventModel) TableName() string { return "payment_events" }

func (p *PaymentEventModel) IsVoid() bool {
	return p.PaymentEventStatus == PaymentEventStatusVoid
}

/* ===================== Lines ===================== */

// DebtLineModel is never hard-deleted. Reference ids are weak (no FK ownership).
type DebtLineModel struct {
	DebtLineID             uuid.UUID    `gorm:"column:debt_line_id;type:uuid;default:gen_random_uuid();primaryKey" json:"debt_line_id"`
	DebtLinePaymentEventID uuid.UUID    `gorm:"column:debt_line_payment_event_id;type:uuid;not null;index:ix_debt_lines_payment,priority:1" json:"debt_line_payment_event_id"`
	DebtLineIndex          int16        `gorm:"column:debt_line_index;not null;index:ix_debt_lines_payment,priority:2" json:"debt_line_index"`
	DebtLineDescription    string       `gorm:"column:debt_line_description;type:text;not null" json:"debt_line_description"`
	DebtLineCategory       DebtCategory `gorm:"column:debt_line_category;type:varchar(20);not null" json:"debt_line_category"`

	// Resolved reference (null = unresolved, needs manual linking)
	DebtLineEnrollmentFeeID *uuid.UUID `gorm:"column:debt_line_enrollment_fee_id;type:uuid" json:"debt_line_enrollment_fee_id,omitempty"`
	DebtLineMonthlyDueID    *uuid.UUID `gorm:"column:debt_line_monthly_due_id;type:uuid" json:"debt_line_monthly_due_id,omitempty"`
	DebtLineProductID       *uuid.UUID `gorm:"column:debt_line_product_id;type:uuid" json:"debt_line_product_id,omitempty"`
	DebtLineConceptID       *uuid.UUID `gorm:"column:debt_line_concept_id;type:uuid" json:"debt_line_concept_id,omitempty"`
	DebtLineSubConceptID    *uuid.UUID `gorm:"column:debt_line_sub_concept_id;type:uuid" json:"debt_line_sub_concept_id,omitempty"`

	DebtLineBaseAmount  decimal.Decimal `gorm:"column:debt_line_base_amount;type:numeric(14,2);not null;check:debt_line_base_amount >= 0" json:"debt_line_base_amount"`
	DebtLineBonusID     *uuid.UUID      `gorm:"column:debt_line_bonus_id;type:uuid" json:"debt_line_bonus_id,omitempty"`
	DebtLineSurchargeID *uuid.UUID      `gorm:"column:debt_line_surcharge_id;type:uuid" json:"debt_line_surcharge_id,omitempty"`

	// Preloaded rules (read side only)
	Bonus     *BonusModel     `gorm:"foreignKey:DebtLineBonusID;references:BonusID" json:"-"`
	Surcharge *SurchargeModel `gorm:"foreignKey:DebtLineSurchargeID;references:SurchargeID" json:"-"`

	// Settlement state, rewritten on every settlement pass
	DebtLineNetAmount      decimal.Decimal `gorm:"column:debt_line_net_amount;type:numeric(14,2);not null;default:0" json:"debt_line_net_amount"`
	DebtLineTenderedAmount decimal.Decimal `gorm:"column:debt_line_tendered_amount;type:numeric(14,2);not null;default:0;check:debt_line_tendered_amount >= 0" json:"debt_line_tendered_amount"`
	DebtLinePendingAmount  decimal.Decimal `gorm:"column:debt_line_pending_amount;type:numeric(14,2);not null;default:0;check:debt_line_pending_amount >= 0" json:"debt_line_pending_amount"`
	DebtLineCreditAmount   decimal.Decimal `gorm:"column:debt_line_credit_amount;type:numeric(14,2);not null;default:0;check:debt_line_credit_amount >= 0" json:"debt_line_credit_amount"`
	DebtLineIsCollected    bool            `gorm:"column:debt_line_is_collected;not null;default:false;index" json:"debt_line_is_collected"`
	DebtLineCollectedAt    *time.Time      `gorm:"column:debt_line_collected_at;type:timestamptz" json:"debt_line_collected_at,omitempty"`

	// optimistic lock
	DebtLineVersion int64 `gorm:"column:debt_line_version;not null;default:1" json:"debt_line_version"`

	DebtLineCreatedAt time.Time `gorm:"column:debt_line_created_at;type:timestamptz;not null;autoCreateTime" json:"debt_line_created_at"`
	DebtLineUpdatedAt time.Time `gorm:"column:debt_line_updated_at;type:timestamptz;not null;autoUpdateTime" json:"debt_line_updated_at"`
}

func (DebtLineModel) TableName() string { return "debt_lines" }

/* ===================== Tenders ===================== */

type PaymentTenderModel struct {
	PaymentTenderID             uuid.UUID        `gorm:"column:payment_tender_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_tender_id"`
	PaymentTenderPaymentEventID uuid.UUID        `gorm:"column:payment_tender_payment_event_id;type:uuid;not null;index" json:"payment_tender_payment_event_id"`
	PaymentTenderDebtLineID     *uuid.UUID       `gorm:"column:payment_tender_debt_line_id;type:uuid" json:"payment_tender_debt_line_id,omitempty"`
	PaymentTenderInstrument     TenderInstrument `gorm:"column:payment_tender_instrument;type:varchar(12);not null" json:"payment_tender_instrument"`
	PaymentTenderAmount         decimal.Decimal  `gorm:"column:payment_tender_amount;type:numeric(14,2);not null;check:payment_tender_amount > 0" json:"payment_tender_amount"`

	// gateway transaction id / bank reference; unique per payment when present
	PaymentTenderReference *string   `gorm:"column:payment_tender_reference;type:varchar(120)" json:"payment_tender_reference,omitempty"`
	PaymentTenderCreatedAt time.Time `gorm:"column:payment_tender_created_at;type:timestamptz;not null;autoCreateTime" json:"payment_tender_created_at"`
}

func (PaymentTenderModel) TableName() string { return "payment_tenders" }
