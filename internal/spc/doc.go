// Package spc evaluates a time-ordered series of process measurements
// against the four Western Electric Rules.
//
// stats.go provides Summarize, the single-pass reduction to mean, sample
// standard deviation, min, max and count. limits.go resolves upper/lower
// control limits and the center line from caller overrides or from the
// summary statistics (mean ± 3σ).
//
// rules.go implements each rule as an independent pure scan over the
// sample sequence: Rule1 (point beyond limits), Rule2 (9 consecutive
// points on one side of center), Rule3 (6 steadily increasing or
// decreasing), Rule4 (14 alternating up/down). The scanners share no
// state and can be tested in isolation.
//
// Evaluate ties it together: it gates rule evaluation on a minimum of 20
// samples, merges the scanner outputs in rule order, keeps exact per-rule
// counts, and caps the detail list at 3 violations per rule for compact
// downstream consumption. Evaluate is a pure synchronous function of its
// inputs; concurrent evaluations need no coordination.
package spc
