package clickhouse

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

func testSnapshot(id string, at time.Time) *domain.AnalyticsSnapshot {
	return &domain.AnalyticsSnapshot{
		SnapshotID:        id,
		AccountID:         "acc1",
		ComputedAt:        at,
		TotalTrades:       4,
		Wins:              2,
		Losses:            2,
		WinRatePercent:    50,
		TotalR:            2,
		NetPnL:            150.5,
		ProfitFactor:      2,
		Expectancy:        0.5,
		MaxDrawdownR:      1,
		MaxDrawdownPct:    50,
		RecoveryFactor:    2,
		DisciplinePercent: 75,
		RadarScore:        ptr(61.5),
	}
}

func TestSnapshotStore_InsertAndGetLatest(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSnapshotStore(conn)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, testSnapshot("s1", base)))
	require.NoError(t, store.Insert(ctx, testSnapshot("s2", base.Add(time.Hour))))

	got, err := store.GetLatest(ctx, "acc1")
	require.NoError(t, err)
	assert.Equal(t, "s2", got.SnapshotID)
	assert.Equal(t, 4, got.TotalTrades)
	assert.Equal(t, domain.Ratio(2), got.ProfitFactor)
	require.NotNil(t, got.RadarScore)
	assert.Equal(t, 61.5, *got.RadarScore)

	all, err := store.GetByAccount(ctx, "acc1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "s1", all[0].SnapshotID)
}

func TestSnapshotStore_InfiniteRatiosAndNullRadar(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSnapshotStore(conn)
	ctx := context.Background()

	snap := testSnapshot("s1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	snap.ProfitFactor = domain.InfiniteRatio()
	snap.RecoveryFactor = domain.InfiniteRatio()
	snap.RadarScore = nil
	require.NoError(t, store.Insert(ctx, snap))

	got, err := store.GetLatest(ctx, "acc1")
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(got.ProfitFactor), 1))
	assert.True(t, got.RecoveryFactor.IsInf())
	assert.Nil(t, got.RadarScore)
}

func TestSnapshotStore_DuplicateAndNotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSnapshotStore(conn)
	ctx := context.Background()

	snap := testSnapshot("s1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.Insert(ctx, snap))

	if err := store.Insert(ctx, snap); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	if _, err := store.GetLatest(ctx, "other"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
