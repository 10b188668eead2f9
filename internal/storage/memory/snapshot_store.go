package memory

import (
	"context"
	"sort"
	"sync"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AnalyticsSnapshot // keyed by snapshot_id
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]*domain.AnalyticsSnapshot),
	}
}

func cloneSnapshot(s *domain.AnalyticsSnapshot) *domain.AnalyticsSnapshot {
	c := *s
	if s.RadarScore != nil {
		v := *s.RadarScore
		c.RadarScore = &v
	}
	return &c
}

// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *SnapshotStore) Insert(_ context.Context, snap *domain.AnalyticsSnapshot) error {
	if snap == nil || snap.SnapshotID == "" || snap.AccountID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.SnapshotID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[snap.SnapshotID] = cloneSnapshot(snap)
	return nil
}

// GetLatest retrieves the most recent snapshot of an account. Returns ErrNotFound if none.
func (s *SnapshotStore) GetLatest(ctx context.Context, accountID string) (*domain.AnalyticsSnapshot, error) {
	all, err := s.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, storage.ErrNotFound
	}
	return all[len(all)-1], nil
}

// GetByAccount retrieves all snapshots of an account, ordered by computed_at ASC.
func (s *SnapshotStore) GetByAccount(_ context.Context, accountID string) ([]*domain.AnalyticsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AnalyticsSnapshot
	for _, snap := range s.data {
		if snap.AccountID == accountID {
			result = append(result, cloneSnapshot(snap))
		}
	}

	// Sort by computed_at, then snapshot_id for deterministic output
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ComputedAt.Equal(result[j].ComputedAt) {
			return result[i].ComputedAt.Before(result[j].ComputedAt)
		}
		return result[i].SnapshotID < result[j].SnapshotID
	})
	return result, nil
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)
