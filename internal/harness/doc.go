// Package harness runs scripted slider scenarios and checks the resulting
// notification stream.
//
// # Scenario Format
//
// Scenarios are YAML files. The slider configuration uses the same keys as
// a config file:
//
//	name: drag_minute
//	description: "What this scenario validates"
//	start: "2024-03-15T10:42:37.500Z"
//	sliders:
//	  - name: clock
//	    units: [second, minute, hour]
//	groups:
//	  - name: pair
//	    members: [clock]
//	steps:
//	  - action: press
//	    target: clock
//	  - action: drag
//	    target: clock
//	    dy: 90
//	    wait: 16ms
//	assertions:
//	  - type: final_time
//	    target: clock
//	    time: "2024-03-15T10:43:00Z"
//
// # Step Actions
//
// press, drag, fling, release, tick, tap, double_tap, cycle, reset and
// set_time. wait advances the frame clock before the step is applied.
//
// # Assertion Types
//
//   - final_time: the target's time after the run
//   - unit_name: the target's active unit name after the run
//   - label: the target slider's rendered label after the run
//   - notification_count: how many notifications match kind and source
//   - notification_order: kinds that must appear in this order
//
// Assertions only see notifications caused by steps. Notifications sent
// while listeners are installed appear in the trace with seq 0.
//
// # Deterministic Testing
//
// Every run uses a manual frame clock starting at FrameEpoch and session
// tokens <session_prefix>-1, -2, ..., so the same scenario always produces
// the same trace. Flings still running after the last step are settled on
// synthetic frames unless settle is false.
package harness
