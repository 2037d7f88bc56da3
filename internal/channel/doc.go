// Package channel models the connection gate that arms automatic uploads.
//
// The gate is a small state machine: disconnected -> connecting ->
// connected, with an explicit disconnect edge back to disconnected from
// anywhere. A connect attempt simulates link latency before the provider
// handshake resolves it; disconnecting invalidates attempts still in flight.
// Subscribers receive a snapshot after every transition, which is how the
// autopilot deactivates itself when the link drops.
package channel
