package draw

// Pair is an unordered exclusion between two distinct participant
// identifiers: neither may be assigned as the other's recipient.
type Pair struct {
	A string
	B string
}

// Exclusions answers "is a forbidden from giving to b" in O(1).
// It is built once per generation attempt and never mutated afterwards.
type Exclusions struct {
	forbidden map[[2]string]struct{}
}

// NewExclusions builds an exclusion index from a list of pairs.
// Each pair is bidirectional: both orientations are stored. Duplicate and
// reversed duplicate pairs are idempotent; no error is raised for them.
// Identifiers are opaque values the index never inspects.
func NewExclusions(pairs []Pair) *Exclusions {
	e := &Exclusions{
		forbidden: make(map[[2]string]struct{}, len(pairs)*2),
	}
	for _, p := range pairs {
		e.forbidden[[2]string{p.A, p.B}] = struct{}{}
		e.forbidden[[2]string{p.B, p.A}] = struct{}{}
	}

	return e
}

// Forbidden reports whether giver a may not be assigned recipient b.
func (e *Exclusions) Forbidden(a, b string) bool {
	_, ok := e.forbidden[[2]string{a, b}]
	return ok
}

// Len returns the number of stored directed exclusion edges.
func (e *Exclusions) Len() int {
	return len(e.forbidden)
}
