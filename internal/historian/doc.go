// Package historian is the HTTP client for the Timebase-style historian
// data API.
//
// A query is GET {base}/api/datasets/{dataset}/data with repeated tagname
// parameters plus start and end; the response groups points per tag:
//
//	{"tl": [{"t": {"n": "<tag>"}, "d": [{"t": "<ts>", "v": <value>}, ...]}]}
//
// Points without a "v" field are missing readings and are filtered out
// before anything downstream sees them. Values may be numbers or strings
// (equipment state names, work-order fields), so Point carries the raw
// decoded value with typed accessors.
//
// Large tag lists are split into batches to keep query URLs short, and
// each request is retried with exponential backoff on transient failures.
// All retrieval latency lives here; the analysis packages receive fully
// materialized, time-ordered point sequences.
package historian
