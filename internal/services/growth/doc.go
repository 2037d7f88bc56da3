// Package growth supplies trend metadata for the scouting stage.
//
// Two providers implement the Provider interface:
//   - Synthesizer: fabricates trend data locally with tunable latency and
//     failure rate. This is the default and needs no credentials.
//   - Client: asks an OpenRouter-compatible chat model for a trend bundle
//     and decodes its JSON response.
//
// # Request Scope
//
// Every fetch is scoped by the channel's niche, tone, and the format chosen
// for the upload. Providers return a GrowthData bundle: final title and
// description, the trend topic behind them, and the signal source URLs.
//
// # Failure Semantics
//
// Providers return plain errors; the scouting stage wraps them as metadata
// fetch failures, which terminate the upload at that stage. There is no
// cross-provider fallback.
//
// # Retry Behaviour
//
// The remote client retries on HTTP 408/429/5xx errors and network timeouts
// with exponential backoff (base 1s, max 10s, up to 5 attempts by default).
// Context cancellation aborts retries immediately. The synthesizer never
// retries; its failures are the point.
package growth
