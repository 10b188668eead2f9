package cronrunner

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"trading-journal/internal/domain"
)

// Snapshotter persists an analytics snapshot for one account.
type Snapshotter interface {
	ComputeAndStore(ctx context.Context, accountID string) (*domain.AnalyticsSnapshot, error)
}

// SnapshotJob returns a job that snapshots every account in turn.
// A failing account does not stop the others; the joined error is returned.
func SnapshotJob(s Snapshotter, accounts []string, logger *zap.Logger) func(context.Context) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context) error {
		var errs []error
		for _, account := range accounts {
			if err := ctx.Err(); err != nil {
				return err
			}
			snap, err := s.ComputeAndStore(ctx, account)
			if err != nil {
				logger.Warn("snapshot failed", zap.String("account", account), zap.Error(err))
				errs = append(errs, err)
				continue
			}
			logger.Info("snapshot taken",
				zap.String("account", account),
				zap.String("snapshot_id", snap.SnapshotID),
			)
		}
		return errors.Join(errs...)
	}
}
