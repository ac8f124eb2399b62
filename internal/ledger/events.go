package ledger

import (
	"encoding/hex"
	"fmt"
)

// EventKind identifies a notification event category.
type EventKind string

const (
	// EventAssetIssued fires after a new asset is recorded.
	EventAssetIssued EventKind = "asset.issued"

	// EventAssetRetracted fires after an emitter deletes its asset.
	EventAssetRetracted EventKind = "asset.retracted"

	// EventAssetMoved fires after settlement changes an asset's owner.
	EventAssetMoved EventKind = "asset.moved"

	// EventOfferCreated fires after a trade offer is recorded.
	EventOfferCreated EventKind = "offer.created"

	// EventOfferState fires after an offer leaves PENDING.
	EventOfferState EventKind = "offer.state"
)

// Event is a notification record. Events fire exactly once, after the
// corresponding state change is durable, never before validation passes.
// They are also appended to the store's event log in the same transaction
// as the mutation they describe, so the log and the tables cannot diverge.
//
// Only the fields relevant to Kind are populated.
type Event struct {
	// Seq is the position in the durable event log. Assigned by the store;
	// zero until the event is persisted.
	Seq int64 `json:"seq,omitempty"`

	Kind EventKind `json:"kind"`

	AssetID int64 `json:"asset_id,omitempty"`
	OfferID int64 `json:"offer_id,omitempty"`

	// Issuance fields.
	Owner   Principal `json:"owner,omitempty"`
	Emitter Principal `json:"emitter,omitempty"`
	Data    []byte    `json:"data,omitempty"`

	// Ownership-move fields.
	PrevOwner Principal `json:"prev_owner,omitempty"`
	NewOwner  Principal `json:"new_owner,omitempty"`

	// Offer-creation fields. Recipient stays empty for public offers.
	Sender    Principal `json:"sender,omitempty"`
	Recipient Principal `json:"recipient,omitempty"`
	Give      []int64   `json:"give,omitempty"`
	Want      []int64   `json:"want,omitempty"`

	// State is the new offer state for offer.state events.
	State OfferState `json:"state,omitempty"`
}

// NewIssuanceEvent records that asset id was issued to owner by emitter.
func NewIssuanceEvent(assetID int64, owner, emitter Principal, data []byte) Event {
	return Event{Kind: EventAssetIssued, AssetID: assetID, Owner: owner, Emitter: emitter, Data: data}
}

// NewRetractionEvent records that asset id was retracted by its emitter.
func NewRetractionEvent(assetID int64) Event {
	return Event{Kind: EventAssetRetracted, AssetID: assetID}
}

// NewMoveEvent records an ownership change during settlement.
func NewMoveEvent(assetID int64, prev, next Principal) Event {
	return Event{Kind: EventAssetMoved, AssetID: assetID, PrevOwner: prev, NewOwner: next}
}

// NewOfferCreatedEvent records a freshly created trade offer.
func NewOfferCreatedEvent(o Offer) Event {
	return Event{
		Kind:      EventOfferCreated,
		OfferID:   o.ID,
		Sender:    o.Sender,
		Recipient: o.Recipient,
		Give:      o.Give,
		Want:      o.Want,
	}
}

// NewOfferStateEvent records an offer's transition out of PENDING.
func NewOfferStateEvent(offerID int64, state OfferState) Event {
	return Event{Kind: EventOfferState, OfferID: offerID, State: state}
}

// String renders the event as a single human-readable line, used by the
// CLI's log output and by golden-file traces.
func (ev Event) String() string {
	switch ev.Kind {
	case EventAssetIssued:
		data := ""
		if len(ev.Data) > 0 {
			data = " data=0x" + hex.EncodeToString(ev.Data)
		}
		return fmt.Sprintf("asset %d issued to %s by %s%s", ev.AssetID, ev.Owner, ev.Emitter, data)
	case EventAssetRetracted:
		return fmt.Sprintf("asset %d retracted", ev.AssetID)
	case EventAssetMoved:
		return fmt.Sprintf("asset %d moved %s -> %s", ev.AssetID, ev.PrevOwner, ev.NewOwner)
	case EventOfferCreated:
		to := string(ev.Recipient)
		if ev.Recipient.IsPublic() {
			to = "(public)"
		}
		return fmt.Sprintf("offer %d created by %s for %s give=%v want=%v", ev.OfferID, ev.Sender, to, ev.Give, ev.Want)
	case EventOfferState:
		return fmt.Sprintf("offer %d %s", ev.OfferID, ev.State)
	}
	return fmt.Sprintf("%s (unknown event kind)", ev.Kind)
}

// Notifier receives events after the state change they describe has been
// committed. Implementations must not call back into the engine from Notify.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ev Event) {
	f(ev)
}

// NopNotifier discards all events.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(Event) {}
