package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"

	model "cobranza_backend/internals/features/finance/debts/model"
)

/* =========================================================
   Gateway checkout (Midtrans Snap) for the pending balance
========================================================= */

type CheckoutSession struct {
	OrderID     string
	GrossAmount int64
	Token       string
	RedirectURL string
}

// CheckoutGateway opens a hosted checkout for an order.
type CheckoutGateway interface {
	CreateCheckout(ctx context.Context, orderID string, grossAmount int64, title string) (CheckoutSession, error)
}

type MidtransGateway struct {
	client snap.Client
}

// NewMidtransGateway: useProduction=false targets the Sandbox.
func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	g := &MidtransGateway{}
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	g.client.New(serverKey, env)
	return g
}

func (g *MidtransGateway) CreateCheckout(_ context.Context, orderID string, grossAmount int64, title string) (CheckoutSession, error) {
	if grossAmount <= 0 {
		return CheckoutSession{}, errors.New("invalid gross amount")
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmount,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    orderID,
			Name:  truncate(title, 50),
			Price: grossAmount,
			Qty:   1,
		}},
	}
	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return CheckoutSession{}, err
	}
	return CheckoutSession{OrderID: orderID, GrossAmount: grossAmount, Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// Checkout assigns an order id (once) and opens a gateway session for the
// whole pending amount, rounded up to whole units.
func (s *PaymentAppService) Checkout(ctx context.Context, gw CheckoutGateway, paymentID uuid.UUID, today time.Time) (CheckoutSession, error) {
	var (
		orderID string
		gross   int64
	)
	_, err := s.store.Mutate(ctx, paymentID, func(p *PaymentEvent) ([]Tender, error) {
		if p.IsVoid() {
			return nil, ErrPaymentVoided
		}
		sum, _, err := Settle(p.Lines, p.Tenders, today)
		if err != nil {
			return nil, err
		}
		if !sum.Pending.IsPositive() {
			return nil, ErrNothingPending
		}
		if p.ExternalID == nil {
			id := GenOrderID("PAY", today)
			p.ExternalID = &id
		}
		orderID = *p.ExternalID
		gross = sum.Pending.Ceil().IntPart()
		return nil, nil
	})
	if err != nil {
		return CheckoutSession{}, err
	}
	return gw.CreateCheckout(ctx, orderID, gross, "Payment "+orderID)
}

/* =========================================================
   Notifications
========================================================= */

type GatewayNotification struct {
	OrderID           string
	TransactionID     string
	TransactionStatus string
	FraudStatus       string
	StatusCode        string
	GrossAmount       string
	SignatureKey      string
	Raw               map[string]any
}

type GatewayOutcome string

const (
	GatewayOutcomePaid     GatewayOutcome = "paid"
	GatewayOutcomePending  GatewayOutcome = "pending"
	GatewayOutcomeFailed   GatewayOutcome = "failed"
	GatewayOutcomeCanceled GatewayOutcome = "canceled"
	GatewayOutcomeExpired  GatewayOutcome = "expired"
	GatewayOutcomeRefunded GatewayOutcome = "refunded"
	GatewayOutcomeUnknown  GatewayOutcome = "unknown"
)

// MapGatewayStatus follows Midtrans' transaction_status/fraud_status table.
func MapGatewayStatus(transactionStatus, fraudStatus string) GatewayOutcome {
	ts := strings.ToLower(strings.TrimSpace(transactionStatus))
	fraud := strings.ToLower(strings.TrimSpace(fraudStatus))

	switch ts {
	case "capture":
		switch fraud {
		case "accept", "":
			return GatewayOutcomePaid
		case "challenge":
			return GatewayOutcomePending
		}
		return GatewayOutcomeFailed
	case "settlement":
		return GatewayOutcomePaid
	case "pending":
		return GatewayOutcomePending
	case "deny", "failure":
		return GatewayOutcomeFailed
	case "cancel":
		return GatewayOutcomeCanceled
	case "expire":
		return GatewayOutcomeExpired
	case "refund", "partial_refund":
		return GatewayOutcomeRefunded
	}
	return GatewayOutcomeUnknown
}

// VerifyGatewaySignature checks sha512(order_id+status_code+gross_amount+server_key).
func VerifyGatewaySignature(n GatewayNotification, serverKey string) bool {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	want := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(n.SignatureKey))) == 1
}

// HandleGatewayNotification records the notification on the payment and, for
// paid outcomes, registers a GATEWAY tender once per transaction id.
func (s *PaymentAppService) HandleGatewayNotification(ctx context.Context, n GatewayNotification, today time.Time) (GatewayOutcome, bool, error) {
	outcome := MapGatewayStatus(n.TransactionStatus, n.FraudStatus)
	paymentID, err := s.store.FindByExternalID(ctx, n.OrderID)
	if err != nil {
		return outcome, false, err
	}

	var applied []Tender
	_, err = s.store.Mutate(ctx, paymentID, func(p *PaymentEvent) ([]Tender, error) {
		if p.Meta == nil {
			p.Meta = map[string]any{}
		}
		p.Meta["gateway_last_notification"] = n.Raw
		p.Meta["gateway_last_outcome"] = string(outcome)

		if outcome != GatewayOutcomePaid || n.TransactionID == "" || p.hasTenderReference(n.TransactionID) {
			return nil, nil
		}
		if p.IsVoid() {
			log.Printf("[WARN] gateway paid notification for void payment %s (order %s)", p.ID, n.OrderID)
			return nil, nil
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(n.GrossAmount))
		if err != nil {
			return nil, fmt.Errorf("%w: gross_amount %q", ErrInvalidInput, n.GrossAmount)
		}
		ref := n.TransactionID
		fresh := withIDs([]Tender{{Instrument: model.TenderInstrumentGateway, Amount: amount, Reference: &ref}})
		if _, err := settleInto(p, fresh, today); err != nil {
			if errors.Is(err, ErrNothingPending) {
				log.Printf("[WARN] gateway paid notification for settled payment %s (order %s)", p.ID, n.OrderID)
				return nil, nil
			}
			return nil, err
		}
		applied = fresh
		return fresh, nil
	})
	s.observer.RecordOperation("gateway_notification", err)
	if err != nil {
		return outcome, false, err
	}
	s.observer.RecordGatewayNotification(outcome, applied != nil)
	s.observer.RecordTenders(applied)
	return outcome, applied != nil, nil
}

// GenOrderID builds PREFIX-YYYYMMDD-HHMMSS-XXXXXXXX.
func GenOrderID(prefix string, now time.Time) string {
	u := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return prefix + "-" + now.Format("20060102-150405") + "-" + u
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
