package hotels

import (
	"context"
	"log/slog"

	"github.com/jlaurila/stayscout/internal/errors"
)

// OfferFetcher retrieves priced offers for one identifier slice. The slice
// is guaranteed to respect the provider's batch ceiling; implementations
// should still reject oversized input at the boundary.
type OfferFetcher interface {
	FetchOffers(ctx context.Context, hotelIDs []string, query Query) ([]Offer, error)
}

// StopCondition is evaluated against the live accumulator after every batch.
// Returning true halts the scheduler; a later "load more" resumes it.
type StopCondition func(acc *Accumulator) bool

// MinAvailable returns a stop condition satisfied once at least n available
// hotels have been accumulated.
func MinAvailable(n int) StopCondition {
	return func(acc *Accumulator) bool {
		return acc.AvailableCount() >= n
	}
}

// Scheduler drives sequential batch retrieval over a candidate identifier
// list. It owns no session state: the caller passes the cursor in and stores
// the advanced cursor that comes back, which is what makes "load more"
// resumable and a failed slice retryable.
type Scheduler struct {
	fetcher   OfferFetcher
	batchSize int
}

// NewScheduler creates a Scheduler issuing slices of at most batchSize IDs.
// The ceiling is enforced here by construction: a batchSize below 1 becomes
// 1, so no caller can ever assemble an oversized request.
func NewScheduler(fetcher OfferFetcher, batchSize int) *Scheduler {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Scheduler{
		fetcher:   fetcher,
		batchSize: batchSize,
	}
}

// BatchSize returns the slice ceiling this scheduler was built with.
func (s *Scheduler) BatchSize() int {
	return s.batchSize
}

// Run consumes identifier slices starting at cursor, strictly in order,
// until the stop condition is satisfied, the identifiers are exhausted, or
// the context is cancelled. onBatch is invoked with each slice's offers
// before the stop condition is evaluated against acc, so the condition
// always sees the freshly accumulated state.
//
// The returned cursor points just past the last successfully retrieved
// slice. A failed slice does not advance it: the same range is retried on
// the next Run, and the failure is reported as a BatchError.
func (s *Scheduler) Run(ctx context.Context, ids []string, cursor int, query Query, acc *Accumulator, stop StopCondition, onBatch func([]Offer)) (int, error) {
	if cursor < 0 {
		cursor = 0
	}

	for cursor < len(ids) {
		if err := ctx.Err(); err != nil {
			return cursor, err
		}

		end := cursor + s.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		slice := ids[cursor:end]

		slog.Debug("Fetching offer batch", "from", cursor, "to", end, "total", len(ids))

		offers, err := s.fetcher.FetchOffers(ctx, slice, query)
		if err != nil {
			return cursor, errors.NewBatchError(cursor, end, err)
		}

		cursor = end
		if onBatch != nil {
			onBatch(offers)
		}

		if stop != nil && stop(acc) {
			break
		}
	}

	return cursor, nil
}
