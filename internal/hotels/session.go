package hotels

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// State is the lifecycle phase of a search session.
type State int

const (
	// StateIdle means no search has started for the current query.
	StateIdle State = iota
	// StateResolving means the candidate identifier list is being fetched.
	StateResolving
	// StateScheduling means offer batches are being retrieved.
	StateScheduling
	// StateEnriching means batches are done but enrichment lookups are
	// still resolving.
	StateEnriching
	// StateSettled means the stop condition was met or the candidates were
	// exhausted. Only LoadMore or Reset leaves this state.
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateScheduling:
		return "scheduling"
	case StateEnriching:
		return "enriching"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Session runs the aggregation workflow for one query (city + dates +
// occupancy + category). Changing any query parameter means a new session:
// Reset discards all accumulated state and logically cancels in-flight work.
// Responses from a superseded generation are allowed to complete but their
// results are dropped instead of being applied to the new session.
type Session struct {
	resolver  *Resolver
	scheduler *Scheduler
	enrichers []Enricher

	mu      sync.Mutex
	id      uuid.UUID
	gen     int
	query   Query
	state   State
	acc     *Accumulator
	ids     []string
	country string
	cursor  int
	lastErr error
	cancel  context.CancelFunc
}

// NewSession creates an idle session for the given query.
func NewSession(query Query, resolver *Resolver, scheduler *Scheduler, enrichers []Enricher) *Session {
	return &Session{
		resolver:  resolver,
		scheduler: scheduler,
		enrichers: enrichers,
		id:        uuid.New(),
		query:     query,
		state:     StateIdle,
		acc:       NewAccumulator(),
	}
}

// ID returns the session's identity. Every Reset issues a new one; fetches
// are effectively tagged with it through the generation counter.
func (s *Session) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Query returns the session's query parameters.
func (s *Session) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// State returns the session's current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CountryCode returns the best-effort country code extracted during
// resolution, or "" when none was available.
func (s *Session) CountryCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.country
}

// Err returns the error recorded by the most recent Search or LoadMore, if
// any. Batch failures land here while the session stays usable: a new
// LoadMore retries the same slice range.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Exhausted reports whether every candidate identifier has been consumed.
func (s *Session) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateIdle && s.cursor >= len(s.ids)
}

// Snapshot returns an ordered, filtered view of the accumulated results.
func (s *Session) Snapshot(opts SnapshotOptions) []Record {
	s.mu.Lock()
	acc := s.acc
	s.mu.Unlock()
	return acc.Snapshot(opts)
}

// Reset replaces the session's query and discards all accumulated state.
// The previous generation's scheduler loop is cancelled; any of its requests
// already in flight may complete, but their results no longer match the
// live generation and are dropped on arrival.
func (s *Session) Reset(query Query) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.id = uuid.New()
	s.gen++
	s.query = query
	s.state = StateIdle
	s.acc = NewAccumulator()
	s.ids = nil
	s.country = ""
	s.cursor = 0
	s.lastErr = nil

	slog.Debug("Session reset", "session", s.id, "city", query.CityCode, "category", query.Category)
}

// Search resolves the candidate list and retrieves batches until stop is
// satisfied or the candidates run out, then waits for outstanding enrichment
// before settling. A resolution failure settles the session immediately with
// an empty result set and records the error.
func (s *Session) Search(ctx context.Context, stop StopCondition) error {
	s.mu.Lock()
	gen := s.gen
	query := s.query
	s.state = StateResolving
	s.lastErr = nil
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	resolution, err := s.resolver.Resolve(ctx, query.CityCode)

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	s.ids = resolution.HotelIDs
	s.country = resolution.CountryCode
	if err != nil {
		s.state = StateSettled
		s.lastErr = err
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	return s.runBatches(ctx, gen, stop)
}

// LoadMore resumes batch retrieval from the stored cursor until n more
// available hotels have been accumulated or the candidates are exhausted.
// After a batch failure it retries the exact slice range that failed.
func (s *Session) LoadMore(ctx context.Context, n int) error {
	s.mu.Lock()
	gen := s.gen
	have := s.acc.AvailableCount()
	s.lastErr = nil
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	return s.runBatches(ctx, gen, MinAvailable(have+n))
}

// runBatches drives the scheduler for one generation and joins enrichment.
// All mutation of session state re-checks the generation so a superseded
// run can never corrupt the live session.
func (s *Session) runBatches(ctx context.Context, gen int, stop StopCondition) error {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	acc := s.acc
	ids := s.ids
	cursor := s.cursor
	query := s.query
	s.state = StateScheduling
	s.mu.Unlock()

	var enriching sync.WaitGroup

	onBatch := func(offers []Offer) {
		if s.generation() != gen {
			slog.Debug("Dropping offer batch from superseded session", "count", len(offers))
			return
		}

		fresh := make([]Offer, 0, len(offers))
		for _, offer := range offers {
			if acc.Insert(offer) && offer.Available {
				fresh = append(fresh, offer)
			}
		}

		wg := FanOut(ctx, s.enrichers, fresh, func(hotelID string, data EnrichmentData) {
			if s.generation() != gen {
				slog.Debug("Dropping enrichment from superseded session", "hotel_id", hotelID)
				return
			}
			acc.Merge(hotelID, data)
		})
		enriching.Add(1)
		go func() {
			defer enriching.Done()
			wg.Wait()
		}()
	}

	newCursor, err := s.scheduler.Run(ctx, ids, cursor, query, acc, stop, onBatch)

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	s.cursor = newCursor
	s.lastErr = err
	s.state = StateEnriching
	s.mu.Unlock()

	enriching.Wait()

	s.mu.Lock()
	if s.gen == gen {
		s.state = StateSettled
	}
	s.mu.Unlock()

	return err
}

func (s *Session) generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}
