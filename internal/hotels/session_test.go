package hotels

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// hookFetcher runs a callback before delegating, letting tests interleave a
// Reset with an in-flight batch.
type hookFetcher struct {
	inner   OfferFetcher
	onFetch func()
}

func (h *hookFetcher) FetchOffers(ctx context.Context, hotelIDs []string, query Query) ([]Offer, error) {
	if h.onFetch != nil {
		h.onFetch()
	}
	return h.inner.FetchOffers(ctx, hotelIDs, query)
}

func directoryFor(ids []string) *fakeDirectory {
	entries := make([]DirectoryEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, DirectoryEntry{HotelID: id, Name: "Hotel " + id, CountryCode: "US"})
	}
	return &fakeDirectory{entries: entries}
}

func newTestSession(ids []string, fetcher OfferFetcher, enrichers []Enricher) *Session {
	query := Query{CityCode: "NYC", CheckIn: "2026-10-01", CheckOut: "2026-10-05", Adults: 2, Category: CategoryDefault}
	return NewSession(query, NewResolver(directoryFor(ids)), NewScheduler(fetcher, 15), enrichers)
}

func TestSessionSearch(t *testing.T) {
	fetcher := &fakeFetcher{available: true}
	sess := newTestSession(makeIDs(45), fetcher, nil)

	err := sess.Search(context.Background(), MinAvailable(20))
	require.NoError(t, err)
	require.Equal(t, StateSettled, sess.State())
	require.Equal(t, "US", sess.CountryCode())
	require.False(t, sess.Exhausted())
	require.Len(t, fetcher.batches, 2, "20 available hotels need exactly two 15-ID batches")
	require.Len(t, sess.Snapshot(SnapshotOptions{}), 30)
}

func TestSessionLoadMore(t *testing.T) {
	fetcher := &fakeFetcher{available: true}
	sess := newTestSession(makeIDs(45), fetcher, nil)

	require.NoError(t, sess.Search(context.Background(), MinAvailable(20)))
	require.Len(t, sess.Snapshot(SnapshotOptions{}), 30)

	require.NoError(t, sess.LoadMore(context.Background(), 10))
	require.Len(t, sess.Snapshot(SnapshotOptions{}), 45)
	require.True(t, sess.Exhausted())
	require.Equal(t, StateSettled, sess.State())
}

func TestSessionSearchEnriches(t *testing.T) {
	fetcher := &fakeFetcher{available: true}
	enricher := &stubEnricher{
		name:     "stub",
		priority: 1,
		data: map[string]*EnrichmentData{
			"HL000": {Rating: floatPtr(4.7)},
		},
	}
	sess := newTestSession(makeIDs(5), fetcher, []Enricher{enricher})

	require.NoError(t, sess.Search(context.Background(), nil))
	require.Equal(t, StateSettled, sess.State(), "settled means enrichment has joined")

	records := sess.Snapshot(SnapshotOptions{Sort: SortRatingDesc})
	require.Len(t, records, 5)
	require.Equal(t, "HL000", records[0].Offer.HotelID)
	require.Equal(t, 4.7, *records[0].Enrichment.Rating)
}

func TestSessionResolutionFailureSettlesEmpty(t *testing.T) {
	dir := &fakeDirectory{err: fmt.Errorf("directory down")}
	query := Query{CityCode: "NYC", Adults: 1}
	sess := NewSession(query, NewResolver(dir), NewScheduler(&fakeFetcher{}, 15), nil)

	err := sess.Search(context.Background(), nil)
	require.Error(t, err)
	require.Equal(t, StateSettled, sess.State())
	require.Error(t, sess.Err())
	require.Empty(t, sess.Snapshot(SnapshotOptions{}))
}

func TestSessionBatchFailureIsRetryable(t *testing.T) {
	fetcher := &fakeFetcher{available: true, failOn: map[int]error{1: fmt.Errorf("provider down")}}
	sess := newTestSession(makeIDs(45), fetcher, nil)

	err := sess.Search(context.Background(), nil)
	require.Error(t, err)
	require.Error(t, sess.Err())
	require.Equal(t, StateSettled, sess.State())
	require.Len(t, sess.Snapshot(SnapshotOptions{}), 15, "results before the failure survive")

	// LoadMore retries the failed slice and finishes the list
	require.NoError(t, sess.LoadMore(context.Background(), 30))
	require.NoError(t, sess.Err())
	require.Len(t, sess.Snapshot(SnapshotOptions{}), 45)
}

func TestSessionResetDiscardsStaleBatch(t *testing.T) {
	inner := &fakeFetcher{available: true}
	sess := newTestSession(makeIDs(15), nil, nil)

	newQuery := Query{CityCode: "PAR", CheckIn: "2026-11-01", CheckOut: "2026-11-03", Adults: 1, Category: CategoryDefault}

	// Reset fires while the only batch is in flight; its response arrives
	// afterwards and must not leak into the new session.
	hooked := &hookFetcher{inner: inner}
	hooked.onFetch = func() {
		hooked.onFetch = nil
		sess.Reset(newQuery)
	}
	sess.scheduler = NewScheduler(hooked, 15)

	oldID := sess.ID()
	err := sess.Search(context.Background(), nil)
	require.NoError(t, err)

	require.NotEqual(t, oldID, sess.ID())
	require.Equal(t, newQuery, sess.Query())
	require.Equal(t, StateIdle, sess.State(), "superseded run must not touch the new session's state")
	require.Empty(t, sess.Snapshot(SnapshotOptions{}), "stale batch results are dropped, not merged")
}

func TestSessionResetClearsError(t *testing.T) {
	fetcher := &fakeFetcher{available: true, failOn: map[int]error{0: fmt.Errorf("provider down")}}
	sess := newTestSession(makeIDs(15), fetcher, nil)

	require.Error(t, sess.Search(context.Background(), nil))
	require.Error(t, sess.Err())

	sess.Reset(Query{CityCode: "PAR", Adults: 1})
	require.NoError(t, sess.Err())
	require.Equal(t, StateIdle, sess.State())
}

func TestParseCategory(t *testing.T) {
	require.Equal(t, CategoryBudget, ParseCategory("budget"))
	require.Equal(t, CategoryLuxury, ParseCategory("luxury"))
	require.Equal(t, CategoryDefault, ParseCategory(""))
	require.Equal(t, CategoryDefault, ParseCategory("penthouse"))
}
