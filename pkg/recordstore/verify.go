package recordstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/harunnryd/callpanel/pkg/errorsx"
	"github.com/harunnryd/callpanel/pkg/resilience"
)

var (
	errNotVisible = errors.New("record not visible yet")
	errMismatch   = errors.New("record content differs from what was written")
)

// WriteAndVerify upserts rec and then polls Fetch under policy until the stored
// metadata reads back equal. onAttempt, when set, sees every poll. It returns
// the number of polls used. A write failure carries errorsx.ReasonRecordStore;
// running out of polls carries errorsx.ReasonRecordVerify.
func WriteAndVerify(ctx context.Context, store Store, rec Record, policy resilience.RetryPolicy, onAttempt func(attempt int)) (int, error) {
	if err := store.Upsert(ctx, rec); err != nil {
		return 0, errorsx.Wrap(fmt.Errorf("write record %s: %w", rec.ID, err), errorsx.ReasonRecordStore)
	}
	used := 0
	err := policy.Do(ctx, func(ctx context.Context, attempt int) error {
		used = attempt
		if onAttempt != nil {
			onAttempt(attempt)
		}
		got, ok, err := store.Fetch(ctx, rec.ID)
		switch {
		case err != nil:
			return resilience.Retryable(err)
		case !ok:
			return resilience.Retryable(errNotVisible)
		case !SameMetadata(got.Metadata, rec.Metadata):
			return resilience.Retryable(errMismatch)
		}
		return nil
	})
	if err != nil {
		return used, errorsx.Wrap(fmt.Errorf("verify record %s after %d attempts: %w", rec.ID, used, err), errorsx.ReasonRecordVerify)
	}
	return used, nil
}
