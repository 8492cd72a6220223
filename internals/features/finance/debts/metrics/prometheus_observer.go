package metrics

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	model "cobranza_backend/internals/features/finance/debts/model"
	"cobranza_backend/internals/features/finance/debts/service"
)

// PrometheusObserver exports settlement counters.
type PrometheusObserver struct {
	operations *prometheus.CounterVec
	tendered   *prometheus.CounterVec
	unresolved *prometheus.CounterVec
	gateway    *prometheus.CounterVec
}

var _ service.Observer = (*PrometheusObserver)(nil)

// NewPrometheusObserver registers the collectors on reg (default registerer when nil).
// Registering twice on the same registry reuses the existing collectors.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "debts"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Settlement operations by result.",
		}, []string{"operation", "result"}),
		tendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tendered_amount_total",
			Help:      "Money applied to debt lines, per instrument.",
		}, []string{"instrument"}),
		unresolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_lines_total",
			Help:      "Registered lines whose reference did not match any catalog record.",
		}, []string{"category"}),
		gateway: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_notifications_total",
			Help:      "Payment gateway notifications by outcome.",
		}, []string{"outcome", "applied"}),
	}

	for _, c := range []**prometheus.CounterVec{&o.operations, &o.tendered, &o.unresolved, &o.gateway} {
		if err := reg.Register(*c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, fmt.Errorf("register debts metric: %w", err)
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, fmt.Errorf("register debts metric: unexpected collector %T", are.ExistingCollector)
			}
			*c = existing
		}
	}
	return o, nil
}

func (o *PrometheusObserver) RecordOperation(op string, err error) {
	o.operations.WithLabelValues(op, service.ErrorKind(err)).Inc()
}

func (o *PrometheusObserver) RecordTenders(tenders []service.Tender) {
	for _, t := range tenders {
		o.tendered.WithLabelValues(string(t.Instrument)).Add(t.Amount.InexactFloat64())
	}
}

func (o *PrometheusObserver) RecordUnresolved(category model.DebtCategory) {
	o.unresolved.WithLabelValues(string(category)).Inc()
}

func (o *PrometheusObserver) RecordGatewayNotification(outcome service.GatewayOutcome, applied bool) {
	o.gateway.WithLabelValues(string(outcome), strconv.FormatBool(applied)).Inc()
}
