package engine

import (
	"context"

	"github.com/fenlabs/barter/internal/ledger"
	"github.com/fenlabs/barter/internal/store"
)

// Registry is the asset registry: the authoritative mapping from asset id
// to (owner, emitter, data), with emitter-gated mutation rules.
type Registry struct {
	eng *Engine
}

// Issue allocates the next asset id and records (owner, caller, data).
// Any principal may issue; the caller becomes the emitter, immutably. The
// returned id is strictly greater than every previously allocated id.
func (r *Registry) Issue(ctx context.Context, caller, owner ledger.Principal, data []byte) (int64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}

	var id int64
	err := r.eng.update(ctx, func(tx *store.Tx, evs *eventLog) error {
		var err error
		id, err = tx.InsertAsset(owner, caller, data)
		if err != nil {
			return err
		}
		if err := tx.AdjustHoldings(owner, 1); err != nil {
			return err
		}
		evs.add(ledger.NewIssuanceEvent(id, owner, caller, data))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Retract deletes the asset record entirely: owner, emitter and data all
// become absent and the id is never reassigned.
//
// Only the recorded emitter may retract. A non-existent asset has no
// emitter, so its retraction is Unauthorized for every caller - the same
// failure as a wrong-emitter attempt, which keeps "never issued" and
// "already retracted" indistinguishable.
func (r *Registry) Retract(ctx context.Context, caller ledger.Principal, id int64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	return r.eng.update(ctx, func(tx *store.Tx, evs *eventLog) error {
		a, err := tx.Asset(id)
		if err != nil {
			return err
		}
		if !a.Exists() || a.Emitter != caller {
			return &ledger.Error{
				Code:      ledger.CodeUnauthorized,
				Message:   "caller is not the asset's emitter",
				AssetID:   id,
				Principal: caller,
			}
		}
		if err := tx.DeleteAsset(id); err != nil {
			return err
		}
		if err := tx.AdjustHoldings(a.Owner, -1); err != nil {
			return err
		}
		evs.add(ledger.NewRetractionEvent(id))
		return nil
	})
}

// Asset is a pure lookup. Returns the zero Asset, not an error, for an id
// that was never issued or has been retracted.
func (r *Registry) Asset(ctx context.Context, id int64) (ledger.Asset, error) {
	return r.eng.store.Asset(ctx, id)
}

// InventoryOf returns the ids of all assets currently owned by p.
// Set semantics; the returned order (ascending id) is not contractual.
func (r *Registry) InventoryOf(ctx context.Context, p ledger.Principal) ([]int64, error) {
	return r.eng.store.Inventory(ctx, p)
}

// HoldingsOf returns p's owned-asset count, maintained in lockstep with
// every issuance, retraction and transfer.
func (r *Registry) HoldingsOf(ctx context.Context, p ledger.Principal) (int64, error) {
	return r.eng.store.Holdings(ctx, p)
}

// transferTx moves one asset to newOwner inside the caller's transaction.
//
// No ownership precondition is checked here; settlement validates before it
// moves anything. Holdings bookkeeping reads the owner recorded right now -
// not the owner the caller validated earlier - which keeps counts exact when
// settlement moves the same id twice (duplicate entries in an offer's lists
// are legal).
func transferTx(tx *store.Tx, evs *eventLog, id int64, newOwner ledger.Principal) error {
	a, err := tx.Asset(id)
	if err != nil {
		return err
	}
	if err := tx.AdjustHoldings(a.Owner, -1); err != nil {
		return err
	}
	if err := tx.AdjustHoldings(newOwner, 1); err != nil {
		return err
	}
	if err := tx.SetAssetOwner(id, newOwner); err != nil {
		return err
	}
	evs.add(ledger.NewMoveEvent(id, a.Owner, newOwner))
	return nil
}
