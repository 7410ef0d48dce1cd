package draw

import "fmt"

// MinParticipants is the smallest group that admits a valid assignment.
// Below three participants only one- and two-person cycles are possible,
// both of which are forbidden.
const MinParticipants = 3

// Result is the verdict of a feasibility validation, with human-readable
// reasons for rejection. A fresh Result is produced on every call and is
// never mutated after return.
type Result struct {
	Valid   bool
	Reasons []string
}

// Validate applies cheap necessary-condition checks to a draw input, in
// order, short-circuiting at the first failure:
//
//  1. at least MinParticipants participants,
//  2. no duplicate participant identifiers,
//  3. every participant has at least one eligible recipient.
//
// Passing is necessary but not sufficient: exclusion graphs exist that pass
// all three checks yet admit no assignment once the no-two-person-cycle
// rule is applied. Deciding that exactly is as hard as the search itself,
// so the validator stops at cheap early feedback and Generate discovers the
// rest by exhausting its attempt budget.
func Validate(participants []string, pairs []Pair) *Result {
	if len(participants) < MinParticipants {
		return &Result{Reasons: []string{fmt.Sprintf("minimum %d participants required", MinParticipants)}}
	}

	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p]; dup {
			return &Result{Reasons: []string{"duplicate participant identifiers detected"}}
		}
		seen[p] = struct{}{}
	}

	excl := NewExclusions(pairs)
	for _, giver := range participants {
		if !hasEligibleRecipient(giver, participants, excl) {
			return &Result{Reasons: []string{fmt.Sprintf("participant %q has no eligible recipient", giver)}}
		}
	}

	return &Result{Valid: true}
}

// hasEligibleRecipient reports whether at least one candidate other than the
// giver is not excluded for them.
func hasEligibleRecipient(giver string, participants []string, excl *Exclusions) bool {
	for _, candidate := range participants {
		if candidate == giver {
			continue
		}
		if excl.Forbidden(giver, candidate) {
			continue
		}

		return true
	}

	return false
}
