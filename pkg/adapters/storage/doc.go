// Package storage provides group storage implementations.
//
// Implementations:
//   - redis: Redis with JSON serialization, TTL and a join-code index
//   - memory: In-memory for testing
package storage
