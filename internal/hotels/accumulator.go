package hotels

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Accumulator is the shared result set of one search session. Offers are
// append-only and first-write-wins by hotel ID; enrichment fields upsert
// individually as their lookups resolve. All methods are safe for concurrent
// use since batch retrieval and enrichment fan-out run on separate goroutines.
type Accumulator struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string // hotel IDs in insertion (batch-retrieval) order
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		records: make(map[string]*Record),
	}
}

// Insert adds an offer under its hotel ID. Re-inserting a known ID is a
// no-op: the first-seen offer wins, so overlapping batches never make an
// already-rendered price flicker. Reports whether the offer was added.
func (a *Accumulator) Insert(offer Offer) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.records[offer.HotelID]; ok {
		return false
	}

	a.records[offer.HotelID] = &Record{
		Offer: offer,
		price: parsePrice(offer.PriceTotal),
	}
	a.order = append(a.order, offer.HotelID)
	return true
}

// Merge upserts the non-nil enrichment fields onto an existing record,
// leaving the others untouched (last write wins per field). Merging into an
// unknown hotel ID is a no-op: enrichment is never fetched ahead of an
// offer, so a miss here means the result belongs to a stale session.
// Reports whether a record was updated.
func (a *Accumulator) Merge(hotelID string, data EnrichmentData) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.records[hotelID]
	if !ok {
		return false
	}

	if data.PhotoURL != nil {
		rec.Enrichment.PhotoURL = data.PhotoURL
	}
	if data.Rating != nil {
		rec.Enrichment.Rating = data.Rating
	}
	if data.StreetAddress != nil {
		rec.Enrichment.StreetAddress = data.StreetAddress
	}
	return true
}

// Len returns the number of accumulated records.
func (a *Accumulator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records)
}

// AvailableCount returns how many accumulated hotels have an available offer.
// Stop conditions use this between batches.
func (a *Accumulator) AvailableCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	count := 0
	for _, id := range a.order {
		if a.records[id].Offer.Available {
			count++
		}
	}
	return count
}

// SnapshotOptions filters and orders a Snapshot.
type SnapshotOptions struct {
	Sort SortKey
	// AddressContains keeps only records whose street address contains the
	// given text, case-insensitively. Empty means no address filtering.
	AddressContains string
}

// Snapshot returns a fresh, ordered view of the available hotels without
// mutating accumulated state. Sorting is stable over insertion order, and
// records missing a value for the chosen key sort to the end regardless of
// direction.
func (a *Accumulator) Snapshot(opts SnapshotOptions) []Record {
	a.mu.RLock()

	out := make([]Record, 0, len(a.order))
	for _, id := range a.order {
		rec := a.records[id]
		if !rec.Offer.Available {
			continue
		}
		if !matchesAddress(rec, opts.AddressContains) {
			continue
		}
		out = append(out, *rec)
	}
	a.mu.RUnlock()

	sort.SliceStable(out, comparatorFor(opts.Sort, out))
	return out
}

func matchesAddress(rec *Record, filter string) bool {
	if filter == "" {
		return true
	}
	if rec.Enrichment.StreetAddress == nil {
		return false
	}
	return strings.Contains(
		strings.ToLower(*rec.Enrichment.StreetAddress),
		strings.ToLower(filter),
	)
}

func comparatorFor(key SortKey, records []Record) func(i, j int) bool {
	switch key {
	case SortRatingDesc:
		return func(i, j int) bool {
			ri, rj := records[i].Enrichment.Rating, records[j].Enrichment.Rating
			if ri == nil || rj == nil {
				// Unrated hotels sink below rated ones
				return ri != nil && rj == nil
			}
			return *ri > *rj
		}
	case SortNameAsc:
		return func(i, j int) bool {
			return records[i].Offer.Name < records[j].Offer.Name
		}
	case SortNameDesc:
		return func(i, j int) bool {
			return records[i].Offer.Name > records[j].Offer.Name
		}
	default: // SortPriceAsc
		return func(i, j int) bool {
			pi, pj := records[i].price, records[j].price
			if pi == nil || pj == nil {
				// Unpriced hotels sink below priced ones
				return pi != nil && pj == nil
			}
			return *pi < *pj
		}
	}
}

func parsePrice(total string) *float64 {
	if total == "" {
		return nil
	}
	v, err := strconv.ParseFloat(total, 64)
	if err != nil {
		return nil
	}
	return &v
}
