// Package engine implements the two core components over the shared store:
// the asset registry (issuance, retraction, lookups) and the trade offer
// engine (the offer lifecycle and the atomic swap settlement).
//
// Every state-changing entry point runs inside a single store transaction
// spanning its validation reads and its mutation writes, so an operation
// either commits in full or leaves no trace. Notification events are
// appended to the durable log inside that same transaction and delivered to
// the configured Notifier only after commit.
//
// The ownership-transfer primitive is deliberately unexported and
// tx-scoped: settlement is the single place that validates current
// ownership, and nothing outside this package can move an asset.
package engine
