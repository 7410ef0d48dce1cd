// Package websocket provides real-time event streaming via WebSocket.
//
// Clients can connect to /api/v1/groups/:id/ws to receive live updates
// as participants join, exclusion rules change and the draw completes.
package websocket
