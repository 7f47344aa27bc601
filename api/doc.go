// Package api exposes the dynamic map over HTTP.
//
// Routes:
//   - GET /api/health
//   - GET /api/vehicles            (optional lat, lon, radius or around, radius)
//   - GET /api/vehicles/{id}
//   - GET /api/events
//   - GET /api/certificates/{digest}
//   - GET /metrics
//   - GET /ws/events               (websocket, one event snapshot per change)
package api
