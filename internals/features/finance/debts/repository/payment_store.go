// file: internals/features/finance/debts/repository/payment_store.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "cobranza_backend/internals/features/finance/debts/model"
	"cobranza_backend/internals/features/finance/debts/service"
)

// PaymentStore persists payment events. Settlement passes lock the header and
// its lines (SELECT ... FOR UPDATE) and each line write is guarded by its
// version column.
type PaymentStore struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewPaymentStore(db *gorm.DB) *PaymentStore {
	return &PaymentStore{DB: db, Now: time.Now}
}

func (s *PaymentStore) Create(ctx context.Context, p *service.PaymentEvent) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		h := model.PaymentEventModel{
			PaymentEventID:           p.ID,
			PaymentEventStatus:       p.Status,
			PaymentEventKind:         p.Kind,
			PaymentEventEnrollmentID: p.EnrollmentID,
			PaymentEventExternalID:   p.ExternalID,
			PaymentEventNote:         p.Note,
			PaymentEventMeta:         datatypes.JSONMap(p.Meta),
		}
		if err := tx.Create(&h).Error; err != nil {
			return err
		}
		p.CreatedAt = h.PaymentEventCreatedAt

		if len(p.Lines) > 0 {
			now := s.Now()
			rows := make([]model.DebtLineModel, 0, len(p.Lines))
			for _, l := range p.Lines {
				row := fromLine(p.ID, l)
				if l.Collected {
					row.DebtLineCollectedAt = &now
				}
				rows = append(rows, row)
			}
			if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
				return err
			}
		}
		return s.insertTenders(tx, p.ID, p.Tenders)
	})
	return classifyPGError(err)
}

func (s *PaymentStore) Get(ctx context.Context, id uuid.UUID) (*service.PaymentEvent, error) {
	p, err := s.load(s.DB.WithContext(ctx), id, false)
	return p, classifyPGError(err)
}

func (s *PaymentStore) load(tx *gorm.DB, id uuid.UUID, lock bool) (*service.PaymentEvent, error) {
	hq := tx
	if lock {
		hq = hq.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var h model.PaymentEventModel
	if err := hq.First(&h, "payment_event_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrPaymentNotFound
		}
		return nil, err
	}

	// rules stay applicable even if soft-deleted after the line was registered
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	lq := tx.Preload("Bonus", unscoped).Preload("Surcharge", unscoped)
	if lock {
		lq = lq.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var lines []model.DebtLineModel
	if err := lq.
		Where("debt_line_payment_event_id = ?", id).
		Order("debt_line_index ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}

	var tenders []model.PaymentTenderModel
	if err := tx.
		Where("payment_tender_payment_event_id = ?", id).
		Order("payment_tender_created_at ASC").
		Order("payment_tender_id ASC").
		Find(&tenders).Error; err != nil {
		return nil, err
	}
	return toPaymentEvent(&h, lines, tenders), nil
}

// Mutate runs fn against a locked snapshot and writes back whatever changed.
func (s *PaymentStore) Mutate(ctx context.Context, id uuid.UUID, fn service.MutateFunc) (*service.PaymentEvent, error) {
	var out *service.PaymentEvent
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.load(tx, id, true)
		if err != nil {
			return err
		}
		before := make(map[uuid.UUID]service.Line, len(p.Lines))
		for _, l := range p.Lines {
			before[l.ID] = l
		}

		fresh, err := fn(p)
		if err != nil {
			return err
		}
		now := s.Now()

		if err := tx.Model(&model.PaymentEventModel{}).
			Where("payment_event_id = ?", id).
			Updates(map[string]any{
				"payment_event_status":      p.Status,
				"payment_event_voided_at":   p.VoidedAt,
				"payment_event_external_id": p.ExternalID,
				"payment_event_meta":        datatypes.JSONMap(p.Meta),
				"payment_event_updated_at":  now,
			}).Error; err != nil {
			return err
		}

		for i, l := range p.Lines {
			prev, ok := before[l.ID]
			if !ok || !lineChanged(prev, l) {
				continue
			}
			if err := s.saveLine(tx, id, l, now); err != nil {
				return err
			}
			p.Lines[i].Version = l.Version + 1
		}

		if err := s.insertTenders(tx, id, fresh); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, classifyPGError(err)
	}
	return out, nil
}

func (s *PaymentStore) saveLine(tx *gorm.DB, paymentID uuid.UUID, l service.Line, now time.Time) error {
	row := fromLine(paymentID, l)
	updates := map[string]any{
		"debt_line_net_amount":      row.DebtLineNetAmount,
		"debt_line_tendered_amount": row.DebtLineTenderedAmount,
		"debt_line_pending_amount":  row.DebtLinePendingAmount,
		"debt_line_credit_amount":   row.DebtLineCreditAmount,
		"debt_line_is_collected":    row.DebtLineIsCollected,
		"debt_line_version":         gorm.Expr("debt_line_version + 1"),
		"debt_line_updated_at":      now,
	}
	if row.DebtLineIsCollected {
		updates["debt_line_collected_at"] = gorm.Expr("COALESCE(debt_line_collected_at, ?)", now)
	}
	res := tx.Model(&model.DebtLineModel{}).
		Where("debt_line_id = ? AND debt_line_version = ?", l.ID, l.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: debt line %s changed since version %d", service.ErrConcurrentModification, l.ID, l.Version)
	}
	return nil
}

func (s *PaymentStore) insertTenders(tx *gorm.DB, paymentID uuid.UUID, tenders []service.Tender) error {
	if len(tenders) == 0 {
		return nil
	}
	rows := make([]model.PaymentTenderModel, 0, len(tenders))
	for _, t := range tenders {
		rows = append(rows, fromTender(paymentID, t))
	}
	return tx.Create(&rows).Error
}

func lineChanged(a, b service.Line) bool {
	return !a.Tendered.Equal(b.Tendered) ||
		!a.Net.Equal(b.Net) ||
		!a.Residual.Equal(b.Residual) ||
		a.Collected != b.Collected
}

func (s *PaymentStore) FindByExternalID(ctx context.Context, externalID string) (uuid.UUID, error) {
	var ids []uuid.UUID
	if err := s.DB.WithContext(ctx).
		Model(&model.PaymentEventModel{}).
		Where("payment_event_external_id = ?", externalID).
		Limit(1).
		Pluck("payment_event_id", &ids).Error; err != nil {
		return uuid.Nil, classifyPGError(err)
	}
	if len(ids) == 0 {
		return uuid.Nil, service.ErrPaymentNotFound
	}
	return ids[0], nil
}

type outstandingScan struct {
	PaymentID   uuid.UUID          `gorm:"column:payment_event_id"`
	CreatedAt   time.Time          `gorm:"column:payment_event_created_at"`
	LineID      uuid.UUID          `gorm:"column:debt_line_id"`
	Index       int16              `gorm:"column:debt_line_index"`
	Description string             `gorm:"column:debt_line_description"`
	Category    model.DebtCategory `gorm:"column:debt_line_category"`
	Net         decimal.Decimal    `gorm:"column:debt_line_net_amount"`
	Tendered    decimal.Decimal    `gorm:"column:debt_line_tendered_amount"`
	Pending     decimal.Decimal    `gorm:"column:debt_line_pending_amount"`
}

// ListOutstanding reads stored pending amounts; VOID payments never show up.
func (s *PaymentStore) ListOutstanding(ctx context.Context, f service.OutstandingFilter) ([]service.OutstandingRow, int64, error) {
	q := s.DB.WithContext(ctx).
		Table("debt_lines AS l").
		Joins("JOIN payment_events p ON p.payment_event_id = l.debt_line_payment_event_id AND p.payment_event_deleted_at IS NULL").
		Where("p.payment_event_status = ?", model.PaymentEventStatusActive).
		Where("l.debt_line_pending_amount > 0")
	if len(f.Categories) > 0 {
		cats := make([]string, 0, len(f.Categories))
		for _, c := range f.Categories {
			cats = append(cats, string(c))
		}
		q = q.Where("l.debt_line_category = ANY(?)", pq.Array(cats))
	}
	base := q.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, classifyPGError(err)
	}

	var rows []outstandingScan
	if err := base.
		Select(`p.payment_event_id, p.payment_event_created_at,
			l.debt_line_id, l.debt_line_index, l.debt_line_description, l.debt_line_category,
			l.debt_line_net_amount, l.debt_line_tendered_amount, l.debt_line_pending_amount`).
		Order("p.payment_event_created_at ASC").
		Order("l.debt_line_index ASC").
		Offset(f.Offset).
		Limit(f.Limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, classifyPGError(err)
	}

	out := make([]service.OutstandingRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, service.OutstandingRow{
			PaymentID:   r.PaymentID,
			LineID:      r.LineID,
			Index:       int(r.Index),
			Description: r.Description,
			Category:    r.Category,
			Net:         r.Net,
			Tendered:    r.Tendered,
			Pending:     r.Pending,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out, total, nil
}
