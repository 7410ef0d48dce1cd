// Package events provides event bus implementations.
//
// Both share the same delivery semantics: every distinct subscriber name
// observes each published event, and subscriptions sharing a name form one
// logical consumer.
//
// Implementations:
//   - redis: Redis Streams, one consumer group per subscriber name
//   - memory: In-memory for testing (synchronous delivery)
package events
