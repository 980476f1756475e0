// Package serve runs tagspc as a long-lived monitor.
//
// Monitor re-evaluates every configured watch tag on a fixed interval:
// each tick queries the trailing window from the historian, runs one
// independent batch evaluation through the SPC core (no rule state
// carries over between ticks), archives the report, and broadcasts it to
// websocket clients.
//
// Hub manages the websocket connections on /ws/reports. Metrics counts
// evaluations and violations and serves them on /metrics in Prometheus
// text exposition. NewAPI serves the JSON endpoints:
//
//	GET /api/v1/health            uptime, watched tag count
//	GET /api/v1/reports           recent stored reports (?tag=, ?limit=)
//
// All endpoints respond with Content-Type: application/json and return
// 405 for non-GET methods. No external HTTP framework is used.
package serve
