// Package domain holds the core gift-exchange entities shared across the
// application layer, the API surface and the storage adapters: groups,
// participants, exclusion rules, assignments and the events the service
// publishes about them.
package domain
