// Package dispatch serializes host input into a tree of scrollables.
//
// Scrollables are single-threaded. A Dispatcher owns them and applies
// events in FIFO order from exactly one goroutine:
//
//  1. Hosts call Enqueue from any goroutine (gestures, control calls).
//  2. Run dequeues events one at a time and stamps each with a
//     monotonically increasing sequence number from Clock.
//  3. Press events start a gesture session with a fresh session token.
//  4. While any slider is flinging, a frame ticker enqueues tick events
//     at the configured refresh rate so fling samples go through the same
//     queue as everything else.
//  5. Every applied event and every notification reaching the host is
//     passed to the Sink, for example a journal.
//
// RunUntilIdle applies queued events on the caller's goroutine and then
// drives running flings to rest on a synthetic frame clock. Scenarios and
// tests use it for deterministic output.
package dispatch
