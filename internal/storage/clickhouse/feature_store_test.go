package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api-volume-lab/internal/domain"
	"api-volume-lab/internal/storage"
)

func sampleTable(t *testing.T) *domain.FeatureTable {
	t.Helper()
	table := domain.NewFeatureTable([]string{"llamados", "lag_1", "roll_mean_4"})

	fr := domain.NewFrame(
		domain.SeriesKey{APIName: "api_a", Familia: "canales"},
		[]time.Time{
			time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 6, 11, 0, 0, 0, time.UTC),
		},
	)
	require.NoError(t, fr.AddColumn("llamados", []float64{12, 8}))
	require.NoError(t, fr.AddColumn("lag_1", []float64{0, 12}))
	require.NoError(t, fr.AddColumn("roll_mean_4", []float64{12, 10}))
	require.NoError(t, table.AppendFrame(fr))
	return table
}

func TestFeatureStore_EnsureTableAndInsert(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFeatureStore(conn)
	table := sampleTable(t)

	require.NoError(t, store.EnsureTable(ctx, "api_features", table))
	// idempotent
	require.NoError(t, store.EnsureTable(ctx, "api_features", table))

	require.NoError(t, store.InsertTable(ctx, "api_features", table))

	rows, err := conn.Query(ctx, `
		SELECT fecha_hora, api_name, familia, llamados, lag_1
		FROM api_features
		ORDER BY fecha_hora
	`)
	require.NoError(t, err)
	defer rows.Close()

	var count int
	for rows.Next() {
		var (
			ts       time.Time
			api, fam string
			llamados float64
			lag      float64
		)
		require.NoError(t, rows.Scan(&ts, &api, &fam, &llamados, &lag))
		assert.Equal(t, "api_a", api)
		assert.Equal(t, "canales", fam)
		count++
	}
	assert.Equal(t, 2, count)
}

func TestFeatureStore_InsertEmptyTable(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFeatureStore(conn)
	empty := domain.NewFeatureTable([]string{"llamados"})

	require.NoError(t, store.EnsureTable(ctx, "api_features_empty", empty))
	require.NoError(t, store.InsertTable(ctx, "api_features_empty", empty))
}

func TestFeatureStore_RejectsBadIdentifiers(t *testing.T) {
	store := NewFeatureStore(nil)
	ctx := context.Background()
	table := domain.NewFeatureTable([]string{"llamados"})

	err := store.EnsureTable(ctx, "bad name; drop", table)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	bad := domain.NewFeatureTable([]string{"llamados, drop table"})
	err = store.EnsureTable(ctx, "api_features", bad)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
