package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCatalog struct {
	hits map[string]int
	ids  map[string]uuid.UUID
	err  error
}

func newCountingCatalog() *countingCatalog {
	return &countingCatalog{hits: map[string]int{}, ids: map[string]uuid.UUID{}}
}

func (c *countingCatalog) get(key string) (*uuid.UUID, error) {
	c.hits[key]++
	if c.err != nil {
		return nil, c.err
	}
	if id, ok := c.ids[key]; ok {
		return &id, nil
	}
	return nil, nil
}

func (c *countingCatalog) EnrollmentFeeByYear(_ context.Context, year int) (*uuid.UUID, error) {
	return c.get("fee")
}
func (c *countingCatalog) MonthlyDueByDescription(_ context.Context, f string) (*uuid.UUID, error) {
	return c.get("due:" + f)
}
func (c *countingCatalog) ProductByName(_ context.Context, n string) (*uuid.UUID, error) {
	return c.get("product:" + n)
}
func (c *countingCatalog) ConceptByDescription(_ context.Context, f string) (*uuid.UUID, error) {
	return c.get("concept:" + f)
}
func (c *countingCatalog) SubConceptByDescription(_ context.Context, s string) (*uuid.UUID, error) {
	return c.get("sub:" + s)
}
func (c *countingCatalog) ConceptBySubConcept(_ context.Context, id uuid.UUID) (*uuid.UUID, error) {
	return c.get("link:" + id.String())
}

func TestCachedCatalogMemoizesHitsAndMisses(t *testing.T) {
	next := newCountingCatalog()
	marzo := uuid.New()
	next.ids["due:MARZO"] = marzo
	c := NewCachedCatalog(next, 16, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := c.MonthlyDueByDescription(ctx, "MARZO")
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, marzo, *id)

		miss, err := c.ProductByName(ctx, "PELOTA")
		require.NoError(t, err)
		assert.Nil(t, miss)
	}
	assert.Equal(t, 1, next.hits["due:MARZO"])
	assert.Equal(t, 1, next.hits["product:PELOTA"])
	assert.Equal(t, 2, c.Len())

	c.Purge()
	_, err := c.MonthlyDueByDescription(ctx, "MARZO")
	require.NoError(t, err)
	assert.Equal(t, 2, next.hits["due:MARZO"])
}

func TestCachedCatalogReturnsCopies(t *testing.T) {
	next := newCountingCatalog()
	want := uuid.New()
	next.ids["sub:TALLER"] = want
	c := NewCachedCatalog(next, 0, time.Minute)

	first, err := c.SubConceptByDescription(context.Background(), "TALLER")
	require.NoError(t, err)
	*first = uuid.Nil

	second, err := c.SubConceptByDescription(context.Background(), "TALLER")
	require.NoError(t, err)
	assert.Equal(t, want, *second)
}

func TestCachedCatalogKeysAreNamespaced(t *testing.T) {
	next := newCountingCatalog()
	c := NewCachedCatalog(next, 16, time.Minute)
	ctx := context.Background()

	_, _ = c.ConceptByDescription(ctx, "X")
	_, _ = c.SubConceptByDescription(ctx, "X")
	_, _ = c.MonthlyDueByDescription(ctx, "X")
	assert.Equal(t, 1, next.hits["concept:X"])
	assert.Equal(t, 1, next.hits["sub:X"])
	assert.Equal(t, 1, next.hits["due:X"])
}

func TestCachedCatalogDoesNotCacheErrors(t *testing.T) {
	next := newCountingCatalog()
	next.err = errors.New("timeout")
	c := NewCachedCatalog(next, 16, time.Minute)

	_, err := c.EnrollmentFeeByYear(context.Background(), 2025)
	assert.Error(t, err)
	next.err = nil
	_, err = c.EnrollmentFeeByYear(context.Background(), 2025)
	assert.NoError(t, err)
	assert.Equal(t, 2, next.hits["fee"])
	assert.Equal(t, 1, c.Len())
}
