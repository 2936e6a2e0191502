// Package progress reports the advancement of one generation run.
//
// An Emitter maps pipeline stages onto fixed percentage bands and guarantees that
// the percent it publishes never decreases. Events go to a Sink; Stream is the
// standard sink, an unbounded per-run queue that never blocks the publisher.
package progress
