// Package types defines the shared domain types for repoview: source-code
// records, tiered metrics entries, filter and search specifications, and the
// fixed size-option menu.
//
// Records are immutable after load. MetricsEntry values are handed out by
// copy from the metrics cache; their Tier field only ever increases.
package types
