// Package scrollable implements time-holding components that hosts drive
// with gestures and that keep each other synchronized.
//
// A Slider is a leaf: it owns a discrete time, a unit cycle and a scroll
// engine. A Composite groups TimeScrollables, mirrors time between them and
// re-emits exactly one notification per child event.
//
// # Notifications
//
// Every TimeScrollable has a single listener slot. Three events exist:
//
//   - OnTimeScroll: the discrete time or the active unit changed because of
//     a drag, a unit cycle or a switch into manual mode.
//   - OnTimeChanged: a fling sample changed the discrete time.
//   - OnScrollUnitChanged: the source became the active scrollable.
//
// The source passed to a listener is always the innermost Slider that
// produced the event, also when it is re-emitted by enclosing composites.
//
// # Synchronization
//
// When a child reports a time, the composite stores it, remembers the child
// as active and calls SetTime on every other child. The originating child
// is never called back. SetTime, SetTimeZone and SetLocale issued on the
// composite itself reach all children.
//
// Scrollables are not safe for concurrent use. Drive them from a single
// goroutine, for example through package dispatch.
package scrollable
