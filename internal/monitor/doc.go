// Package monitor owns the decoded-stream inspection surface.
//
// Ownership boundary:
// - per-input StreamParser registry and event history
// - channel gating from monitor configuration
// - HTTP boundary for feeding capture bytes and querying decoded events
//
// Monitor does not read hardware; bytes arrive through its boundary from
// whatever owns the physical transport.
package monitor
