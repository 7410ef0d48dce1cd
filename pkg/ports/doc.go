// Package ports defines the interfaces between the application layer and
// its adapters: group storage, the event bus, metrics collection and
// notification delivery. Adapters under pkg/adapters implement them.
package ports
