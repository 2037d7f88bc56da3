// Package pipeline drives one upload record through the fixed production
// sequence: trend_scouting, strategy_mapping, script_generation,
// neural_rendering, voice_synthesis, qc_validation, publishing.
//
// The engine owns ordering and persistence; handlers own the work. Only the
// first stage calls out (the growth provider), the middle five simulate
// production time, and publishing finalizes the record with synthetic
// metrics. A handler error terminates the record as failed at the stage it
// reached — there are no retries and no partial rollbacks.
package pipeline
