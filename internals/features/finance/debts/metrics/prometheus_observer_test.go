package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "cobranza_backend/internals/features/finance/debts/model"
	"cobranza_backend/internals/features/finance/debts/service"
)

func TestPrometheusObserverCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewPrometheusObserver("test", reg)
	require.NoError(t, err)

	o.RecordOperation("register", nil)
	o.RecordOperation("apply_tenders", fmt.Errorf("save: %w", service.ErrConcurrentModification))
	o.RecordOperation("void", errors.New("db gone"))
	o.RecordTenders([]service.Tender{
		{Instrument: model.TenderInstrumentCash, Amount: decimal.RequireFromString("100.50")},
		{Instrument: model.TenderInstrumentCash, Amount: decimal.RequireFromString("20")},
	})
	o.RecordUnresolved(model.DebtCategoryGenericConcept)
	o.RecordGatewayNotification(service.GatewayOutcomePaid, true)

	assert.Equal(t, 1.0, testutil.ToFloat64(o.operations.WithLabelValues("register", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.operations.WithLabelValues("apply_tenders", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.operations.WithLabelValues("void", "error")))
	assert.InDelta(t, 120.5, testutil.ToFloat64(o.tendered.WithLabelValues("CASH")), 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(o.unresolved.WithLabelValues("GENERIC_CONCEPT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.gateway.WithLabelValues("paid", "true")))
}

func TestPrometheusObserverReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPrometheusObserver("", reg)
	require.NoError(t, err)
	second, err := NewPrometheusObserver("", reg)
	require.NoError(t, err)

	second.RecordOperation("void", nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.operations.WithLabelValues("void", "ok")))
}
