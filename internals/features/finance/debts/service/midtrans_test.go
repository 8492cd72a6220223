package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "cobranza_backend/internals/features/finance/debts/model"
)

type fakeGateway struct {
	orderIDs []string
	gross    []int64
	err      error
}

func (g *fakeGateway) CreateCheckout(_ context.Context, orderID string, gross int64, _ string) (CheckoutSession, error) {
	g.orderIDs = append(g.orderIDs, orderID)
	g.gross = append(g.gross, gross)
	if g.err != nil {
		return CheckoutSession{}, g.err
	}
	return CheckoutSession{OrderID: orderID, GrossAmount: gross, Token: "tok-" + orderID, RedirectURL: "https://pay.example/" + orderID}, nil
}

func TestMapGatewayStatus(t *testing.T) {
	cases := []struct {
		status, fraud string
		want          GatewayOutcome
	}{
		{"capture", "accept", GatewayOutcomePaid},
		{"capture", "", GatewayOutcomePaid},
		{"capture", "challenge", GatewayOutcomePending},
		{"capture", "deny", GatewayOutcomeFailed},
		{" Settlement ", "", GatewayOutcomePaid},
		{"pending", "", GatewayOutcomePending},
		{"deny", "", GatewayOutcomeFailed},
		{"failure", "", GatewayOutcomeFailed},
		{"cancel", "", GatewayOutcomeCanceled},
		{"expire", "", GatewayOutcomeExpired},
		{"refund", "", GatewayOutcomeRefunded},
		{"partial_refund", "", GatewayOutcomeRefunded},
		{"authorize", "", GatewayOutcomeUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapGatewayStatus(tc.status, tc.fraud), "%s/%s", tc.status, tc.fraud)
	}
}

func sign(n GatewayNotification, key string) string {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + key))
	return hex.EncodeToString(sum[:])
}

func TestVerifyGatewaySignature(t *testing.T) {
	n := GatewayNotification{OrderID: "PAY-1", StatusCode: "200", GrossAmount: "575.00"}
	n.SignatureKey = sign(n, "server-key")
	assert.True(t, VerifyGatewaySignature(n, "server-key"))
	assert.False(t, VerifyGatewaySignature(n, "other-key"))

	n.GrossAmount = "1.00"
	assert.False(t, VerifyGatewaySignature(n, "server-key"))
}

func TestGenOrderID(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 5, 9, 0, time.UTC)
	id := GenOrderID("PAY", now)
	assert.Regexp(t, regexp.MustCompile(`^PAY-20250310-140509-[0-9A-F]{8}$`), id)
	assert.NotEqual(t, id, GenOrderID("PAY", now))
}

func registerOwed(t *testing.T, f *fixture, base string) uuid.UUID {
	t.Helper()
	res, err := f.svc.Register(context.Background(), RegisterInput{
		Lines: []LineInput{{Description: "AGOSTO", Base: d(base)}},
		Today: day(1),
	})
	require.NoError(t, err)
	return res.Payment.ID
}

func TestCheckoutAssignsOrderIDOnce(t *testing.T) {
	f := newFixture()
	id := registerOwed(t, f, "99.10")
	gw := &fakeGateway{}

	s1, err := f.svc.Checkout(context.Background(), gw, id, day(1))
	require.NoError(t, err)
	assert.Equal(t, int64(100), s1.GrossAmount, "rounded up to whole units")
	assert.NotEmpty(t, s1.Token)

	s2, err := f.svc.Checkout(context.Background(), gw, id, day(2))
	require.NoError(t, err)
	assert.Equal(t, s1.OrderID, s2.OrderID)

	stored, err := f.store.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored.ExternalID)
	assert.Equal(t, s1.OrderID, *stored.ExternalID)
}

func TestCheckoutErrors(t *testing.T) {
	f := newFixture()
	gw := &fakeGateway{}

	_, err := f.svc.Checkout(context.Background(), gw, uuid.New(), day(1))
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	paid, err := f.svc.Register(context.Background(), RegisterInput{
		Lines:   []LineInput{{Description: "AGOSTO", Base: d("10")}},
		Tenders: []Tender{cash("10")},
		Today:   day(1),
	})
	require.NoError(t, err)
	_, err = f.svc.Checkout(context.Background(), gw, paid.Payment.ID, day(1))
	assert.ErrorIs(t, err, ErrNothingPending)

	boom := errors.New("snap unavailable")
	_, err = f.svc.Checkout(context.Background(), &fakeGateway{err: boom}, registerOwed(t, f, "5"), day(1))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, gw.orderIDs)
}

func TestHandleGatewayNotificationAppliesOnce(t *testing.T) {
	f := newFixture()
	id := registerOwed(t, f, "250")
	sess, err := f.svc.Checkout(context.Background(), &fakeGateway{}, id, day(1))
	require.NoError(t, err)

	n := GatewayNotification{
		OrderID:           sess.OrderID,
		TransactionID:     "trx-1",
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "250.00",
		Raw:               map[string]any{"transaction_status": "settlement"},
	}
	outcome, applied, err := f.svc.HandleGatewayNotification(context.Background(), n, day(1))
	require.NoError(t, err)
	assert.Equal(t, GatewayOutcomePaid, outcome)
	assert.True(t, applied)

	// gateway retries the same notification
	_, applied, err = f.svc.HandleGatewayNotification(context.Background(), n, day(1))
	require.NoError(t, err)
	assert.False(t, applied)

	view, err := f.svc.Get(context.Background(), id, day(1))
	require.NoError(t, err)
	require.Len(t, view.Payment.Tenders, 1)
	assert.Equal(t, model.TenderInstrumentGateway, view.Payment.Tenders[0].Instrument)
	assert.True(t, view.Summary.Settled)
	assert.Equal(t, "paid", view.Payment.Meta["gateway_last_outcome"])
}

func TestHandleGatewayNotificationNonPaid(t *testing.T) {
	f := newFixture()
	id := registerOwed(t, f, "40")
	sess, err := f.svc.Checkout(context.Background(), &fakeGateway{}, id, day(1))
	require.NoError(t, err)

	outcome, applied, err := f.svc.HandleGatewayNotification(context.Background(), GatewayNotification{
		OrderID: sess.OrderID, TransactionID: "trx-2", TransactionStatus: "expire",
	}, day(1))
	require.NoError(t, err)
	assert.Equal(t, GatewayOutcomeExpired, outcome)
	assert.False(t, applied)

	view, err := f.svc.Get(context.Background(), id, day(1))
	require.NoError(t, err)
	assert.Empty(t, view.Payment.Tenders)
	assert.Equal(t, "expired", view.Payment.Meta["gateway_last_outcome"])
}

func TestHandleGatewayNotificationVoidAndUnknown(t *testing.T) {
	f := newFixture()
	id := registerOwed(t, f, "40")
	sess, err := f.svc.Checkout(context.Background(), &fakeGateway{}, id, day(1))
	require.NoError(t, err)
	_, err = f.svc.Void(context.Background(), id, day(1))
	require.NoError(t, err)

	_, applied, err := f.svc.HandleGatewayNotification(context.Background(), GatewayNotification{
		OrderID: sess.OrderID, TransactionID: "trx-3", TransactionStatus: "settlement", GrossAmount: "40.00",
	}, day(1))
	require.NoError(t, err)
	assert.False(t, applied)

	_, _, err = f.svc.HandleGatewayNotification(context.Background(), GatewayNotification{OrderID: "nope"}, day(1))
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestHandleGatewayNotificationBadAmount(t *testing.T) {
	f := newFixture()
	id := registerOwed(t, f, "40")
	sess, err := f.svc.Checkout(context.Background(), &fakeGateway{}, id, day(1))
	require.NoError(t, err)

	_, _, err = f.svc.HandleGatewayNotification(context.Background(), GatewayNotification{
		OrderID: sess.OrderID, TransactionID: "trx-4", TransactionStatus: "settlement", GrossAmount: "forty",
	}, day(1))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
