package campaign

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureIndexesRetriesAfterFailure(t *testing.T) {
	calls := 0
	fail := true
	s := &mongoStore{}
	s.createIndex = func(ctx context.Context, companyID string) error {
		calls++
		if fail {
			return errors.New("mongo not ready")
		}
		return nil
	}

	// The unique campaignId index backs duplicate detection, so a failed
	// create must not be cached as done.
	s.ensureIndexes(context.Background(), "co-1")
	require.Equal(t, 1, calls)

	fail = false
	s.ensureIndexes(context.Background(), "co-1")
	require.Equal(t, 2, calls)

	s.ensureIndexes(context.Background(), "co-1")
	require.Equal(t, 2, calls)
}
