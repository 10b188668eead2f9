package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Trade // keyed by account_id|id
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[string]*domain.Trade),
	}
}

func tradeKey(accountID, tradeID string) string {
	return accountID + "|" + tradeID
}

// cloneTrade copies t including its slices and pointer fields.
func cloneTrade(t *domain.Trade) *domain.Trade {
	c := *t
	if t.PnL != nil {
		v := *t.PnL
		c.PnL = &v
	}
	if t.AccountSize != nil {
		v := *t.AccountSize
		c.AccountSize = &v
	}
	c.Mistakes = append([]string(nil), t.Mistakes...)
	c.RulesFollowed = append([]string(nil), t.RulesFollowed...)
	return &c
}

func validTrade(t *domain.Trade) bool {
	return t != nil && t.ID != "" && t.AccountID != "" && t.Result.Valid()
}

// Insert adds a new trade. Returns ErrDuplicateKey if (account_id, id) exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.Trade) error {
	if !validTrade(t) {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := tradeKey(t.AccountID, t.ID)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[key] = cloneTrade(t)
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(trades))

	for _, t := range trades {
		if !validTrade(t) {
			return storage.ErrInvalidInput
		}
		key := tradeKey(t.AccountID, t.ID)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, t := range trades {
		s.data[tradeKey(t.AccountID, t.ID)] = cloneTrade(t)
	}

	return nil
}

// GetByID retrieves a trade. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(_ context.Context, accountID, tradeID string) (*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tradeKey(accountID, tradeID)]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return cloneTrade(t), nil
}

// GetByAccount retrieves all trades for an account, ordered by date ASC, id ASC.
func (s *TradeStore) GetByAccount(_ context.Context, accountID string) ([]*domain.Trade, error) {
	return s.filter(func(t *domain.Trade) bool {
		return t.AccountID == accountID
	}), nil
}

// GetByDateRange retrieves trades for an account with date within [start, end] (inclusive).
func (s *TradeStore) GetByDateRange(_ context.Context, accountID string, start, end time.Time) ([]*domain.Trade, error) {
	return s.filter(func(t *domain.Trade) bool {
		return t.AccountID == accountID && !t.Date.Before(start) && !t.Date.After(end)
	}), nil
}

func (s *TradeStore) filter(keep func(*domain.Trade) bool) []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, t := range s.data {
		if keep(t) {
			result = append(result, cloneTrade(t))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

var _ storage.TradeStore = (*TradeStore)(nil)
