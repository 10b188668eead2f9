package cronrunner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/domain"
)

type fakeSnapshotter struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (f *fakeSnapshotter) ComputeAndStore(_ context.Context, accountID string) (*domain.AnalyticsSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, accountID)
	if f.fail[accountID] {
		return nil, errors.New("boom")
	}
	return &domain.AnalyticsSnapshot{SnapshotID: "s-" + accountID, AccountID: accountID}, nil
}

func TestSnapshotJob_ContinuesPastFailures(t *testing.T) {
	f := &fakeSnapshotter{fail: map[string]bool{"b": true}}
	job := SnapshotJob(f, []string{"a", "b", "c"}, nil)

	err := job(context.Background())

	assert.Error(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, f.calls)
}

func TestSnapshotJob_StopsOnCancelledContext(t *testing.T) {
	f := &fakeSnapshotter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SnapshotJob(f, []string{"a"}, nil)(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.calls)
}

func TestRunner_AddValidatesSpec(t *testing.T) {
	r := New(nil, nil)

	_, err := r.Add("bad", "not a spec", func(context.Context) error { return nil })
	assert.Error(t, err)

	_, err = r.Add("hourly", "0 0 * * * *", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, r.Entries())

	r.Start()
	r.Stop()
}
