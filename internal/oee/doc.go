// Package oee derives production metrics for one filling line over a
// shift: time utilization from cumulative state-time counters, unit
// counts and yield from cumulative production counters, instantaneous
// rate efficiency, and work-order completion.
//
// Compute is the pure derivation over already-extracted counter deltas
// and latest values; Analyzer gathers those inputs from the historian.
// All counters are cumulative, so a shift's contribution is simply
// last − first over the window.
package oee
