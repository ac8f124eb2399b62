// Package ledger defines the domain model shared by the asset registry and
// the trade offer engine: principals, assets, trade offers, the error kinds
// every operation can fail with, and the notification events emitted after
// each durable state change.
//
// Ownership and issuance are orthogonal. Every asset records the principal
// that emitted it (attested its existence) alongside its current owner; the
// emitter never has to be the owner, and only the emitter may retract the
// asset. Asset data is an opaque byte sequence - the registry never
// interprets it.
//
// Absent-record semantics: "never issued" and "retracted" are the same
// state. An Asset or Offer zero value means the record does not exist;
// OfferState's zero value "" is deliberately not a member of the state enum
// so that an absent offer can never be mistaken for a pending one.
package ledger
