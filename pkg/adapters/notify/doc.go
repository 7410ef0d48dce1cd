// Package notify provides notification delivery implementations.
//
// Implementations:
//   - log: writes notifications to the structured log; stands in for a
//     real mail or chat integration behind the same port
package notify
