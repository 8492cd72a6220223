package service

import (
	"errors"

	model "cobranza_backend/internals/features/finance/debts/model"
)

// Observer receives settlement telemetry. Implementations must be safe for
// concurrent use.
type Observer interface {
	RecordOperation(op string, err error)
	RecordTenders(tenders []Tender)
	RecordUnresolved(category model.DebtCategory)
	RecordGatewayNotification(outcome GatewayOutcome, applied bool)
}

type nopObserver struct{}

func (nopObserver) RecordOperation(string, error)                  {}
func (nopObserver) RecordTenders([]Tender)                         {}
func (nopObserver) RecordUnresolved(model.DebtCategory)            {}
func (nopObserver) RecordGatewayNotification(GatewayOutcome, bool) {}

// SetObserver replaces the telemetry sink; nil restores the no-op one.
func (s *PaymentAppService) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	s.observer = o
}

// ErrorKind buckets engine errors into a small label set.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrConcurrentModification):
		return "conflict"
	case errors.Is(err, ErrPaymentNotFound):
		return "not_found"
	case errors.Is(err, ErrPaymentVoided):
		return "void"
	case errors.Is(err, ErrNothingPending):
		return "nothing_pending"
	}
	return "error"
}
