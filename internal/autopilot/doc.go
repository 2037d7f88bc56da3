// Package autopilot schedules upload runs.
//
// The Manager enforces single-flight execution: the periodic timer, manual
// triggers, and channel-link transitions all funnel into Trigger, which
// checks-and-sets the busy guard in one step and drops (never queues) any
// fire that arrives while a run is active or the channel is unlinked. One
// tick loop drives the user-visible countdown; it decrements only while auto
// mode is armed and the channel is linked, wraps from zero back to the full
// period, and attempts a fire on every wrap so a dropped tick cannot drift
// the display away from the nominal schedule.
//
// Policy: disarming auto mode or losing the channel link stops future fires
// and parks the countdown, but never aborts an in-flight run — only Stop
// cancels the run context, and an interrupted run leaves its record
// non-terminal.
package autopilot
