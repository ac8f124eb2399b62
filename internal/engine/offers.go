package engine

import (
	"context"

	"github.com/fenlabs/barter/internal/ledger"
	"github.com/fenlabs/barter/internal/store"
)

// Offers is the trade offer engine: the offer lifecycle state machine and
// the atomic swap settlement that re-validates ownership before moving
// anything.
//
// State machine per offer:
//
//	PENDING -> CANCELLED  (sender only)
//	PENDING -> ACCEPTED   (recipient only; full re-validation + atomic swap)
//	PENDING -> DECLINED   (recipient only)
//
// All three transitions require the current state to be exactly PENDING;
// the terminal states have no outgoing transitions.
type Offers struct {
	eng *Engine
}

// Send creates a new PENDING offer from caller, proposing to exchange the
// give assets for the want assets. recipient may be ledger.Public, in which
// case any principal may later accept or decline.
//
// Nothing about the referenced assets is validated here - they may not
// exist, may not be owned by the sender, or may be owned by someone else
// entirely. That is intentional: ownership may change while the offer is
// pending, so the only check that matters is the one at acceptance.
func (o *Offers) Send(ctx context.Context, caller, recipient ledger.Principal, give, want []int64) (int64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}

	var id int64
	err := o.eng.update(ctx, func(tx *store.Tx, evs *eventLog) error {
		var err error
		id, err = tx.InsertOffer(caller, recipient, give, want)
		if err != nil {
			return err
		}
		if err := tx.IndexOffer(caller, store.RoleSent, id); err != nil {
			return err
		}
		// Public offers land in the public bucket of the received index.
		if err := tx.IndexOffer(recipient, store.RoleReceived, id); err != nil {
			return err
		}
		off, err := tx.Offer(id)
		if err != nil {
			return err
		}
		evs.add(ledger.NewOfferCreatedEvent(off))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Cancel moves a PENDING offer to CANCELLED. Only the offer's sender may
// cancel; a non-existent offer has no sender, so cancelling it is
// Unauthorized for every caller. No asset-side effects.
func (o *Offers) Cancel(ctx context.Context, caller ledger.Principal, id int64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	return o.eng.update(ctx, func(tx *store.Tx, evs *eventLog) error {
		off, err := tx.Offer(id)
		if err != nil {
			return err
		}
		if !off.Exists() || off.Sender != caller {
			return &ledger.Error{
				Code:      ledger.CodeUnauthorized,
				Message:   "caller is not the offer's sender",
				OfferID:   id,
				Principal: caller,
			}
		}
		if off.State != ledger.StatePending {
			return ledger.NewInvalidState(id, off.State)
		}
		if err := tx.SetOfferState(id, ledger.StateCancelled); err != nil {
			return err
		}
		evs.add(ledger.NewOfferStateEvent(id, ledger.StateCancelled))
		return nil
	})
}

// Decline moves a PENDING offer to DECLINED. Only the recipient may decline
// (any caller, for a public offer). No asset-side effects.
func (o *Offers) Decline(ctx context.Context, caller ledger.Principal, id int64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	return o.eng.update(ctx, func(tx *store.Tx, evs *eventLog) error {
		off, err := o.actionable(tx, caller, id)
		if err != nil {
			return err
		}
		if err := tx.SetOfferState(off.ID, ledger.StateDeclined); err != nil {
			return err
		}
		evs.add(ledger.NewOfferStateEvent(off.ID, ledger.StateDeclined))
		return nil
	})
}

// Accept settles a PENDING offer atomically. Only the recipient may accept
// (any caller, for a public offer).
//
// Settlement is two passes inside one transaction: first validate that
// every give asset is currently owned by the sender and every want asset by
// the caller; only then move them all. A single stale id aborts the whole
// call with OwnershipMismatch before any mutation, so no interleaving can
// observe a half-settled trade - and an offer that raced another settlement
// for a shared asset fails cleanly and stays PENDING.
func (o *Offers) Accept(ctx context.Context, caller ledger.Principal, id int64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	return o.eng.update(ctx, func(tx *store.Tx, evs *eventLog) error {
		off, err := o.actionable(tx, caller, id)
		if err != nil {
			return err
		}

		// Pass 1: validate both sides. Reads only.
		for _, assetID := range off.Give {
			if err := requireOwner(tx, off.ID, assetID, off.Sender); err != nil {
				return err
			}
		}
		for _, assetID := range off.Want {
			if err := requireOwner(tx, off.ID, assetID, caller); err != nil {
				return err
			}
		}

		// Pass 2: move everything. Validation can no longer fail, and the
		// enclosing transaction guarantees nobody else runs in between.
		for _, assetID := range off.Give {
			if err := transferTx(tx, evs, assetID, caller); err != nil {
				return err
			}
		}
		for _, assetID := range off.Want {
			if err := transferTx(tx, evs, assetID, off.Sender); err != nil {
				return err
			}
		}

		if err := tx.SetOfferState(off.ID, ledger.StateAccepted); err != nil {
			return err
		}
		evs.add(ledger.NewOfferStateEvent(off.ID, ledger.StateAccepted))
		return nil
	})
}

// Get is a pure lookup. Returns the zero Offer, not an error, for an id
// that was never created.
func (o *Offers) Get(ctx context.Context, id int64) (ledger.Offer, error) {
	return o.eng.store.Offer(ctx, id)
}

// SentBy returns the ids of offers created by p, in creation order.
func (o *Offers) SentBy(ctx context.Context, p ledger.Principal) ([]int64, error) {
	return o.eng.store.OffersBy(ctx, p, store.RoleSent)
}

// ReceivedBy returns the ids of offers addressed to p, in creation order.
// ReceivedBy(ledger.Public) lists the public offers.
func (o *Offers) ReceivedBy(ctx context.Context, p ledger.Principal) ([]int64, error) {
	return o.eng.store.OffersBy(ctx, p, store.RoleReceived)
}

// actionable loads an offer and checks that caller may act on it and that
// it is still PENDING, in that order. An absent offer fails the state
// check: its zero-value recipient reads as public, but its zero-value state
// is not PENDING.
func (o *Offers) actionable(tx *store.Tx, caller ledger.Principal, id int64) (ledger.Offer, error) {
	off, err := tx.Offer(id)
	if err != nil {
		return ledger.Offer{}, err
	}
	if !off.OpenTo(caller) {
		return ledger.Offer{}, &ledger.Error{
			Code:      ledger.CodeUnauthorized,
			Message:   "caller is not the offer's recipient",
			OfferID:   id,
			Principal: caller,
		}
	}
	if off.State != ledger.StatePending {
		return ledger.Offer{}, ledger.NewInvalidState(id, off.State)
	}
	return off, nil
}

// requireOwner checks that the asset exists and is currently owned by
// claimed. An absent asset (retracted or never issued) is an ownership
// mismatch: nobody holds it.
func requireOwner(tx *store.Tx, offerID, assetID int64, claimed ledger.Principal) error {
	a, err := tx.Asset(assetID)
	if err != nil {
		return err
	}
	if !a.Exists() || a.Owner != claimed {
		return ledger.NewOwnershipMismatch(offerID, assetID, claimed)
	}
	return nil
}
