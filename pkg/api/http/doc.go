// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Group creation, joining and management
//   - Exclusion rules, budgets and wishlists
//   - Draw feasibility checks and draw execution
//   - Per-participant assignment reveal
//   - Health checks and Prometheus metrics
package http
