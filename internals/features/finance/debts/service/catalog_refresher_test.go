package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purgeCounter struct{ n int }

func (p *purgeCounter) Purge() { p.n++ }

func TestRefreshCatalogForcesReload(t *testing.T) {
	calls := 0
	names := []string{"POLO"}
	idx := NewProductIndex(func(context.Context) ([]string, error) {
		calls++
		return names, nil
	}, time.Hour)
	cache := &purgeCounter{}
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, idx.RefreshIfStale(context.Background(), now))
	names = []string{"POLO", "AGENDA"}

	// still fresh for RefreshIfStale, but a forced refresh reloads
	require.NoError(t, RefreshCatalog(context.Background(), idx, []Purger{cache}, now.Add(time.Minute)))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, cache.n)
	assert.True(t, idx.HasProduct("agenda"))
	assert.Equal(t, 2, idx.Len())
}

func TestRefreshCatalogKeepsSnapshotOnError(t *testing.T) {
	boom := errors.New("db down")
	idx := NewProductIndex(func(context.Context) ([]string, error) { return nil, boom }, time.Hour)
	idx.Replace([]string{"POLO"}, time.Now())

	err := RefreshCatalog(context.Background(), idx, nil, time.Now())
	assert.ErrorIs(t, err, boom)
	assert.True(t, idx.HasProduct("POLO"))

	assert.NoError(t, RefreshCatalog(context.Background(), nil, []Purger{&purgeCounter{}}, time.Now()))
}

func TestStartCatalogRefresher(t *testing.T) {
	c, err := StartCatalogRefresher("", nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = StartCatalogRefresher("not a schedule", NewProductIndex(nil, time.Minute))
	assert.Error(t, err)

	c, err = StartCatalogRefresher("@every 1h", NewProductIndex(nil, time.Minute))
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.NoError(t, StopCatalogRefresher(context.Background(), c))
}

func TestStopCatalogRefresherWaitsForRunningJob(t *testing.T) {
	assert.NoError(t, StopCatalogRefresher(context.Background(), nil))

	started, release := make(chan struct{}), make(chan struct{})
	c := cron.New()
	c.Schedule(cron.Every(time.Second), cron.FuncJob(func() {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	}))
	c.Start()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job never ran")
	}

	expired, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, StopCatalogRefresher(expired, c), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, StopCatalogRefresher(context.Background(), c))
}
