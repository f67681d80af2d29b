package article

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v5"

	"github.com/SergeyParamoshkin/articles/internal/store"
)

// retry runs fn up to storeRetries times with exponential backoff. Answers
// from the store (not found, already exists) are final and not retried.
func (s *Service) retry(ctx context.Context, op string, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryInterval
	bo.MaxInterval = 10 * s.retryInterval

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := fn()
		if err == nil {
			return struct{}{}, nil
		}
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrExists) {
			return struct{}{}, backoff.Permanent(err)
		}
		if attempt < s.storeRetries {
			s.metrics.StoreRetry(ctx)
			s.logger(ctx).Warnw("store call failed, retrying", "op", op, "attempt", attempt, "error", err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(s.storeRetries)),
	)

	return err
}
