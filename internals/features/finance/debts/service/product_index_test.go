package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "cobranza_backend/internals/features/finance/debts/model"
)

func TestProductIndexRefresh(t *testing.T) {
	calls := 0
	names := []string{"Uniforme", "Buzo Deportivo"}
	idx := NewProductIndex(func(context.Context) ([]string, error) {
		calls++
		return names, nil
	}, time.Minute)

	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, idx.RefreshIfStale(context.Background(), t0))
	assert.Equal(t, 1, calls)
	assert.True(t, idx.HasProduct("UNIFORME"))
	assert.True(t, idx.HasProduct(" buzo deportivo "))
	assert.False(t, idx.HasProduct("BUZO"))

	require.NoError(t, idx.RefreshIfStale(context.Background(), t0.Add(30*time.Second)))
	assert.Equal(t, 1, calls, "fresh snapshot is reused")

	names = []string{"Cuaderno"}
	require.NoError(t, idx.RefreshIfStale(context.Background(), t0.Add(2*time.Minute)))
	assert.Equal(t, 2, calls)
	assert.False(t, idx.HasProduct("UNIFORME"))
	assert.True(t, idx.HasProduct("CUADERNO"))
}

func TestProductIndexKeepsSnapshotOnFailure(t *testing.T) {
	fail := false
	idx := NewProductIndex(func(context.Context) ([]string, error) {
		if fail {
			return nil, errors.New("db down")
		}
		return []string{"Mochila"}, nil
	}, time.Second)

	t0 := time.Now()
	require.NoError(t, idx.RefreshIfStale(context.Background(), t0))
	fail = true
	assert.Error(t, idx.RefreshIfStale(context.Background(), t0.Add(time.Hour)))
	assert.True(t, idx.HasProduct("MOCHILA"))
}

// A product the index accepts must be one ProductByName can find, so accents
// are kept: "CAMISETA" must not classify as PRODUCT against "CAMISÉTA".
func TestProductIndexKeepsAccents(t *testing.T) {
	idx := NewProductIndex(nil, time.Minute)
	idx.Replace([]string{" Camisón "}, time.Now())
	assert.True(t, idx.HasProduct("camisón"))
	assert.True(t, idx.HasProduct("CAMISÓN"))
	assert.False(t, idx.HasProduct("CAMISON"))
	assert.NoError(t, idx.RefreshIfStale(context.Background(), time.Now()))

	c := NewDefaultClassifier(idx)
	category, _, err := c.Classify("camisón")
	require.NoError(t, err)
	assert.Equal(t, model.DebtCategoryProduct, category)
	category, _, err = c.Classify("CAMISON")
	require.NoError(t, err)
	assert.Equal(t, model.DebtCategoryGenericConcept, category)
}
