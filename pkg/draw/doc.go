// Package draw implements the gift-exchange assignment engine.
//
// Given a flat list of participant identifiers and a list of forbidden
// pairs, the engine produces a random giver-to-recipient mapping where:
//   - every participant gives and receives exactly once (a bijection),
//   - nobody is assigned to themself,
//   - no two participants are assigned to each other (no two-person cycle),
//   - no forbidden pair appears in either direction.
//
// Equivalently, the result is a permutation whose cycle decomposition
// contains only cycles of length three or more, avoiding the excluded edges.
//
// The engine is split into a cheap feasibility validator (Validate) and a
// randomized backtracking generator (Generate). The validator applies
// necessary conditions only; inputs that pass it can still turn out to be
// unsatisfiable, which Generate reports as an ExhaustedError after its
// attempt budget is spent.
//
// The engine is stateless between calls and safe for concurrent use: each
// invocation owns its own index and search state.
package draw
