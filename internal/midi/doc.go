// Package midi owns the MIDI 1.0 wire contract and stream decoding.
//
// Ownership boundary:
// - status byte classification and family tables
// - byte-at-a-time stream decoding with running status
// - capability dispatch to an injected MessageSink
// - wire encoding for captures and tests
//
// The package performs no I/O and holds no transport state. One StreamParser
// decodes one physical input; multiple inputs require multiple instances.
package midi
