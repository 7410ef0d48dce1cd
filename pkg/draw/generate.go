package draw

import (
	"math/rand"
	"time"
)

// DefaultMaxAttempts is the default outer retry budget for Generate.
// Each attempt reshuffles the giver order and runs a full backtracking
// search, so the budget is only consumed by genuinely hard inputs.
const DefaultMaxAttempts = 1000

// Assignment maps every giver to their recipient. It is a total bijection
// over the participant set with no fixed points, no two-person cycles and
// no excluded edges.
type Assignment map[string]string

// Option configures a Generate call.
type Option func(*options)

type options struct {
	maxAttempts int
	rng         *rand.Rand
}

// WithMaxAttempts overrides the outer retry budget. Values below one are
// ignored.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithRand supplies a deterministic random source, primarily for tests.
// The source must not be shared across goroutines for the duration of the
// call. A nil value keeps the default time-seeded source.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// Generate produces a random valid Assignment for the given participants
// and exclusion pairs, or fails with a typed error:
//
//   - *ValidationError when a necessary condition fails; no search is run.
//   - *ExhaustedError when the attempt budget is spent without success.
//
// Each outer attempt shuffles the giver order, then runs a depth-first
// search that tries the remaining recipients for each giver in a freshly
// randomized order, backtracking on dead ends. The double randomization
// (outer reshuffle plus per-position candidate order) varies results across
// calls; it does not sample uniformly over all valid assignments, which is
// an accepted trade-off.
//
// There is no partial result: either a fully valid Assignment is returned
// or nothing is.
func Generate(participants []string, pairs []Pair, opts ...Option) (Assignment, error) {
	if res := Validate(participants, pairs); !res.Valid {
		return nil, &ValidationError{Reasons: res.Reasons}
	}

	o := options{maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	excl := NewExclusions(pairs)

	givers := make([]string, len(participants))
	copy(givers, participants)

	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		shuffle(givers, o.rng)

		// Search state is scoped to this attempt and discarded on failure.
		s := &search{
			givers:   givers,
			excl:     excl,
			rng:      o.rng,
			assigned: make(Assignment, len(givers)),
			used:     make(map[string]struct{}, len(givers)),
		}
		if s.assignFrom(0) {
			return s.assigned, nil
		}
	}

	return nil, &ExhaustedError{Attempts: o.maxAttempts}
}

// search holds the mutable state of a single backtracking attempt.
type search struct {
	givers   []string
	excl     *Exclusions
	rng      *rand.Rand
	assigned Assignment
	used     map[string]struct{}
}

// assignFrom assigns a recipient to the giver at pos and recurses to the
// next position, undoing the choice when the rest of the search fails.
// It returns true once every giver is assigned.
func (s *search) assignFrom(pos int) bool {
	if pos == len(s.givers) {
		return true
	}
	giver := s.givers[pos]

	candidates := make([]string, len(s.givers))
	copy(candidates, s.givers)
	shuffle(candidates, s.rng)

	for _, candidate := range candidates {
		if !s.acceptable(giver, candidate) {
			continue
		}

		s.assigned[giver] = candidate
		s.used[candidate] = struct{}{}

		if s.assignFrom(pos + 1) {
			return true
		}

		delete(s.assigned, giver)
		delete(s.used, candidate)
	}

	return false
}

// acceptable reports whether candidate may receive from giver at the
// current point of the search.
func (s *search) acceptable(giver, candidate string) bool {
	if candidate == giver {
		return false
	}
	if _, taken := s.used[candidate]; taken {
		return false
	}
	if s.excl.Forbidden(giver, candidate) {
		return false
	}
	// Accepting would close a two-person cycle.
	if s.assigned[candidate] == giver {
		return false
	}

	return true
}

// shuffle performs an in-place Fisher-Yates shuffle.
func shuffle(ids []string, rng *rand.Rand) {
	for i := len(ids) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}
