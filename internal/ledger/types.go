package ledger

// Principal identifies a participant. Principals are opaque and unforgeable:
// the hosting environment supplies them, and the core only ever compares
// them for equality. No structure is assumed beyond non-emptiness.
type Principal string

// Public is the sentinel recipient for offers anyone may accept or decline.
// Engine entry points reject an empty caller, so no real principal can ever
// present this value.
const Public Principal = ""

// IsPublic reports whether p is the public-offer sentinel.
func (p Principal) IsPublic() bool {
	return p == Public
}

// Asset is an owned record with immutable issuance data and a mutable owner.
//
// The zero value means the asset does not exist (never issued, or retracted
// by its emitter). Retracted ids are never reassigned.
type Asset struct {
	// ID is a monotonically increasing integer, unique, never reused.
	ID int64 `json:"id"`

	// Owner is the principal currently holding the asset.
	Owner Principal `json:"owner"`

	// Emitter is the principal that issued the asset. Immutable; the only
	// principal permitted to retract it.
	Emitter Principal `json:"emitter"`

	// Data is opaque application-defined metadata, immutable once issued.
	// Conventions (integer id, JSON blob, content hash) are the emitter's
	// business, not the registry's.
	Data []byte `json:"data"`
}

// Exists reports whether the asset record is present in the registry.
func (a Asset) Exists() bool {
	return a.ID != 0
}

// OfferState is the lifecycle state of a trade offer.
//
// The zero value "" is not a valid state: it marks an absent offer.
type OfferState string

const (
	// StatePending is the only state with outgoing transitions.
	StatePending OfferState = "PENDING"

	// StateCancelled is terminal; entered only by the offer's sender.
	StateCancelled OfferState = "CANCELLED"

	// StateAccepted is terminal; entered only by settlement.
	StateAccepted OfferState = "ACCEPTED"

	// StateDeclined is terminal; entered only by the offer's recipient.
	StateDeclined OfferState = "DECLINED"
)

// Terminal reports whether no transition leaves this state.
func (s OfferState) Terminal() bool {
	switch s {
	case StateCancelled, StateAccepted, StateDeclined:
		return true
	}
	return false
}

// Offer is a proposal by Sender to exchange the assets in Give for the
// assets in Want. Give and Want are ordered, may be empty, and may contain
// duplicates; both are immutable after creation - there is no amendment
// operation, only cancel-and-resend.
//
// An offer references assets by id but does not lock them: an asset named by
// a pending offer may still be transferred or retracted by other means,
// which is why settlement re-validates ownership at acceptance time.
//
// The zero value means the offer does not exist.
type Offer struct {
	// ID is a monotonically increasing integer, unique, never reused.
	ID int64 `json:"id"`

	// Sender created the offer and is the only principal that may cancel it.
	Sender Principal `json:"sender"`

	// Recipient may accept or decline the offer. Public means anyone may.
	Recipient Principal `json:"recipient"`

	// Give lists the asset ids the sender puts up.
	Give []int64 `json:"give"`

	// Want lists the asset ids requested from the acceptor in return.
	Want []int64 `json:"want"`

	State OfferState `json:"state"`
}

// Exists reports whether the offer record is present.
func (o Offer) Exists() bool {
	return o.ID != 0
}

// OpenTo reports whether caller is allowed to accept or decline the offer.
func (o Offer) OpenTo(caller Principal) bool {
	return o.Recipient.IsPublic() || o.Recipient == caller
}
