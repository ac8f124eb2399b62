package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fenlabs/barter/internal/ledger"
)

// Asset returns the committed asset record for id.
// Returns the zero Asset (no error) if absent - never issued or retracted.
func (s *Store) Asset(ctx context.Context, id int64) (ledger.Asset, error) {
	return scanAsset(s.db.QueryRowContext(ctx, `
		SELECT id, owner, emitter, data FROM assets WHERE id = ?
	`, id))
}

// Inventory returns the ids of all assets currently owned by p, ordered by
// id. The contract is set semantics; the ordering is just determinism for
// tests and CLI output.
//
// Returns an empty slice (not nil) when p owns nothing.
func (s *Store) Inventory(ctx context.Context, p ledger.Principal) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM assets WHERE owner = ? ORDER BY id ASC
	`, string(p))
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	ids, err := collectIDs(rows)
	if err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}
	return ids, nil
}

// Holdings returns p's maintained owned-asset count.
// A principal with no holdings row has count zero.
func (s *Store) Holdings(ctx context.Context, p ledger.Principal) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT asset_count FROM holdings WHERE principal = ?
	`, string(p)).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query holdings: %w", err)
	}
	return count, nil
}

// Offer returns the committed offer record for id.
// Returns the zero Offer (no error) if absent.
func (s *Store) Offer(ctx context.Context, id int64) (ledger.Offer, error) {
	return scanOffer(s.db.QueryRowContext(ctx, `
		SELECT id, sender, recipient, give, want, state FROM offers WHERE id = ?
	`, id))
}

// OffersBy returns the offer ids indexed under (p, role) in creation order.
// role is RoleSent or RoleReceived; the public bucket is ledger.Public.
//
// Returns an empty slice (not nil) when the index is empty.
func (s *Store) OffersBy(ctx context.Context, p ledger.Principal, role string) ([]int64, error) {
	if role != RoleSent && role != RoleReceived {
		return nil, fmt.Errorf("query offer index: invalid role %q", role)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT offer_id FROM offer_index
		WHERE principal = ? AND role = ?
		ORDER BY offer_id ASC
	`, string(p), role)
	if err != nil {
		return nil, fmt.Errorf("query offer index: %w", err)
	}
	defer rows.Close()

	ids, err := collectIDs(rows)
	if err != nil {
		return nil, fmt.Errorf("iterate offer index: %w", err)
	}
	return ids, nil
}

// Events returns log entries with seq > after, oldest first, at most limit
// entries (limit <= 0 means no limit). Each returned event carries its
// assigned seq.
func (s *Store) Events(ctx context.Context, after int64, limit int) ([]ledger.Event, error) {
	if limit <= 0 {
		limit = -1 // SQLite: negative LIMIT means unlimited
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, payload FROM events
		WHERE seq > ?
		ORDER BY seq ASC
		LIMIT ?
	`, after, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []ledger.Event{}
	for rows.Next() {
		var seq int64
		var payload string
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var ev ledger.Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("unmarshal event %d: %w", seq, err)
		}
		ev.Seq = seq
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// collectIDs drains a single-int64-column result set.
func collectIDs(rows *sql.Rows) ([]int64, error) {
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
