// Package exchange implements the core application logic of the
// gift-exchange service.
//
// The manager coordinates the group lifecycle:
//   - Creating groups and admitting participants via join codes
//   - Managing exclusion rules, budgets and wishlists
//   - Running the draw engine and persisting the resulting assignments
//   - Publishing events to the event bus
//
// The draw itself (feasibility validation and assignment generation) lives
// in pkg/draw; the manager translates between domain records and the
// engine's flat inputs.
package exchange
