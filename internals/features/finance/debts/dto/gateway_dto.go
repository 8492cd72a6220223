package dto

import (
	"github.com/google/uuid"

	"cobranza_backend/internals/features/finance/debts/service"
)

// MidtransNotification is the HTTP notification body; only the fields we act on.
type MidtransNotification struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time"`
}

func (n MidtransNotification) ToNotification() service.GatewayNotification {
	return service.GatewayNotification{
		OrderID:           n.OrderID,
		TransactionID:     n.TransactionID,
		TransactionStatus: n.TransactionStatus,
		FraudStatus:       n.FraudStatus,
		StatusCode:        n.StatusCode,
		GrossAmount:       n.GrossAmount,
		SignatureKey:      n.SignatureKey,
		Raw: map[string]any{
			"order_id":           n.OrderID,
			"transaction_id":     n.TransactionID,
			"transaction_status": n.TransactionStatus,
			"fraud_status":       n.FraudStatus,
			"status_code":        n.StatusCode,
			"gross_amount":       n.GrossAmount,
			"payment_type":       n.PaymentType,
			"transaction_time":   n.TransactionTime,
		},
	}
}

type CheckoutResponse struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	OrderID     string    `json:"order_id"`
	GrossAmount int64     `json:"gross_amount"`
	Token       string    `json:"token"`
	RedirectURL string    `json:"redirect_url"`
}

func FromCheckout(paymentID uuid.UUID, s service.CheckoutSession) CheckoutResponse {
	return CheckoutResponse{
		PaymentID:   paymentID,
		OrderID:     s.OrderID,
		GrossAmount: s.GrossAmount,
		Token:       s.Token,
		RedirectURL: s.RedirectURL,
	}
}

type NotificationResponse struct {
	Status  string                 `json:"status"`
	Outcome service.GatewayOutcome `json:"outcome"`
	Applied bool                   `json:"applied"`
}
