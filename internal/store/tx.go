package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fenlabs/barter/internal/ledger"
)

// Index roles for IndexOffer.
const (
	RoleSent     = "sent"
	RoleReceived = "received"
)

// InsertAsset records a new asset and returns its allocated id.
// Ids come from AUTOINCREMENT, so they are strictly greater than every id
// ever allocated before, including ids of since-retracted assets.
func (t *Tx) InsertAsset(owner, emitter ledger.Principal, data []byte) (int64, error) {
	if data == nil {
		data = []byte{}
	}
	res, err := t.tx.Exec(`
		INSERT INTO assets (owner, emitter, data)
		VALUES (?, ?, ?)
	`, string(owner), string(emitter), data)
	if err != nil {
		return 0, fmt.Errorf("insert asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert asset: last insert id: %w", err)
	}
	return id, nil
}

// Asset returns the asset record for id, observing the transaction's own
// uncommitted writes. Returns the zero Asset (no error) if absent.
func (t *Tx) Asset(id int64) (ledger.Asset, error) {
	return scanAsset(t.tx.QueryRow(`
		SELECT id, owner, emitter, data FROM assets WHERE id = ?
	`, id))
}

// SetAssetOwner rewrites the owner column. The caller is responsible for
// holdings bookkeeping and for having validated whatever needed validating -
// this primitive is deliberately unconditional.
func (t *Tx) SetAssetOwner(id int64, owner ledger.Principal) error {
	res, err := t.tx.Exec(`UPDATE assets SET owner = ? WHERE id = ?`, string(owner), id)
	if err != nil {
		return fmt.Errorf("set asset owner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set asset owner: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set asset owner: asset %d not found", id)
	}
	return nil
}

// DeleteAsset removes the asset row entirely. Owner, emitter and data all
// become absent; the id is never reassigned.
func (t *Tx) DeleteAsset(id int64) error {
	res, err := t.tx.Exec(`DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete asset: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete asset: asset %d not found", id)
	}
	return nil
}

// AdjustHoldings adds delta to the principal's owned-asset count, creating
// the holdings row on first touch. Must be called in the same transaction
// as the asset mutation it accounts for.
func (t *Tx) AdjustHoldings(p ledger.Principal, delta int64) error {
	_, err := t.tx.Exec(`
		INSERT INTO holdings (principal, asset_count)
		VALUES (?, ?)
		ON CONFLICT(principal) DO UPDATE SET asset_count = asset_count + excluded.asset_count
	`, string(p), delta)
	if err != nil {
		return fmt.Errorf("adjust holdings: %w", err)
	}
	return nil
}

// InsertOffer records a new offer in state PENDING and returns its id.
// Give/want are serialized as JSON arrays so order and duplicates survive.
func (t *Tx) InsertOffer(sender, recipient ledger.Principal, give, want []int64) (int64, error) {
	giveJSON, err := marshalIDs(give)
	if err != nil {
		return 0, fmt.Errorf("insert offer: %w", err)
	}
	wantJSON, err := marshalIDs(want)
	if err != nil {
		return 0, fmt.Errorf("insert offer: %w", err)
	}

	res, err := t.tx.Exec(`
		INSERT INTO offers (sender, recipient, give, want, state)
		VALUES (?, ?, ?, ?, ?)
	`, string(sender), string(recipient), giveJSON, wantJSON, string(ledger.StatePending))
	if err != nil {
		return 0, fmt.Errorf("insert offer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert offer: last insert id: %w", err)
	}
	return id, nil
}

// Offer returns the offer record for id, observing the transaction's own
// uncommitted writes. Returns the zero Offer (no error) if absent.
func (t *Tx) Offer(id int64) (ledger.Offer, error) {
	return scanOffer(t.tx.QueryRow(`
		SELECT id, sender, recipient, give, want, state FROM offers WHERE id = ?
	`, id))
}

// SetOfferState rewrites the state column. State-machine legality is the
// engine's responsibility.
func (t *Tx) SetOfferState(id int64, state ledger.OfferState) error {
	res, err := t.tx.Exec(`UPDATE offers SET state = ? WHERE id = ?`, string(state), id)
	if err != nil {
		return fmt.Errorf("set offer state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set offer state: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set offer state: offer %d not found", id)
	}
	return nil
}

// IndexOffer appends an offer id to a principal's sent or received list.
// Must be called in the same transaction as InsertOffer. ON CONFLICT DO
// NOTHING keeps a self-addressed offer from inserting the same (principal,
// role, id) row twice.
func (t *Tx) IndexOffer(p ledger.Principal, role string, offerID int64) error {
	if role != RoleSent && role != RoleReceived {
		return fmt.Errorf("index offer: invalid role %q", role)
	}
	_, err := t.tx.Exec(`
		INSERT INTO offer_index (principal, role, offer_id)
		VALUES (?, ?, ?)
		ON CONFLICT(principal, role, offer_id) DO NOTHING
	`, string(p), role, offerID)
	if err != nil {
		return fmt.Errorf("index offer: %w", err)
	}
	return nil
}

// AppendEvent writes an event to the durable log and returns its assigned
// seq. Called in the same transaction as the mutation the event describes,
// so a committed mutation always has its notification on record.
func (t *Tx) AppendEvent(ev ledger.Event) (int64, error) {
	ev.Seq = 0 // seq is assigned here, never caller-supplied
	payload, err := json.Marshal(ev)
	if err != nil {
		return 0, fmt.Errorf("append event: marshal: %w", err)
	}
	res, err := t.tx.Exec(`
		INSERT INTO events (kind, payload) VALUES (?, ?)
	`, string(ev.Kind), string(payload))
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append event: last insert id: %w", err)
	}
	return seq, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (ledger.Asset, error) {
	var a ledger.Asset
	var owner, emitter string
	err := row.Scan(&a.ID, &owner, &emitter, &a.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Asset{}, nil
	}
	if err != nil {
		return ledger.Asset{}, fmt.Errorf("scan asset: %w", err)
	}
	a.Owner = ledger.Principal(owner)
	a.Emitter = ledger.Principal(emitter)
	return a, nil
}

func scanOffer(row rowScanner) (ledger.Offer, error) {
	var o ledger.Offer
	var sender, recipient, giveJSON, wantJSON, state string
	err := row.Scan(&o.ID, &sender, &recipient, &giveJSON, &wantJSON, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Offer{}, nil
	}
	if err != nil {
		return ledger.Offer{}, fmt.Errorf("scan offer: %w", err)
	}
	o.Sender = ledger.Principal(sender)
	o.Recipient = ledger.Principal(recipient)
	o.State = ledger.OfferState(state)
	if o.Give, err = unmarshalIDs(giveJSON); err != nil {
		return ledger.Offer{}, fmt.Errorf("scan offer %d: give: %w", o.ID, err)
	}
	if o.Want, err = unmarshalIDs(wantJSON); err != nil {
		return ledger.Offer{}, fmt.Errorf("scan offer %d: want: %w", o.ID, err)
	}
	return o, nil
}

// marshalIDs serializes an asset-id list as a JSON array.
// nil and empty both encode as "[]" so the column is never NULL.
func marshalIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("marshal ids: %w", err)
	}
	return string(b), nil
}

// unmarshalIDs parses a JSON array column back into an id list.
// Always returns a non-nil slice.
func unmarshalIDs(s string) ([]int64, error) {
	ids := []int64{}
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal ids: %w", err)
	}
	return ids, nil
}
