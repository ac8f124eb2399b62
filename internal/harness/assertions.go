package harness

import (
	"context"
	"fmt"
	"sort"

	"github.com/fenlabs/barter/internal/engine"
	"github.com/fenlabs/barter/internal/ledger"
)

// runCheck evaluates one final-state check and records violations on the
// result. Returns an error only for infrastructure failures.
func runCheck(ctx context.Context, eng *engine.Engine, n int, check Check, result *Result) error {
	switch check.Type {
	case "owner":
		a, err := eng.Registry.Asset(ctx, check.Asset)
		if err != nil {
			return fmt.Errorf("check %d: %w", n, err)
		}
		if !a.Exists() {
			result.failf("check %d: asset %d does not exist, expected owner %s", n, check.Asset, check.Equals)
		} else if a.Owner != ledger.Principal(check.Equals) {
			result.failf("check %d: asset %d owned by %s, expected %s", n, check.Asset, a.Owner, check.Equals)
		}

	case "absent":
		a, err := eng.Registry.Asset(ctx, check.Asset)
		if err != nil {
			return fmt.Errorf("check %d: %w", n, err)
		}
		if a.Exists() {
			result.failf("check %d: asset %d still exists (owner %s), expected absent", n, check.Asset, a.Owner)
		}

	case "offer_state":
		o, err := eng.Offers.Get(ctx, check.Offer)
		if err != nil {
			return fmt.Errorf("check %d: %w", n, err)
		}
		if string(o.State) != check.Equals {
			result.failf("check %d: offer %d state %q, expected %q", n, check.Offer, o.State, check.Equals)
		}

	case "inventory":
		ids, err := eng.Registry.InventoryOf(ctx, ledger.Principal(check.Principal))
		if err != nil {
			return fmt.Errorf("check %d: %w", n, err)
		}
		if !sameIDSet(ids, check.IDs) {
			result.failf("check %d: %s inventory %v, expected %v", n, check.Principal, ids, check.IDs)
		}

	case "holdings":
		count, err := eng.Registry.HoldingsOf(ctx, ledger.Principal(check.Principal))
		if err != nil {
			return fmt.Errorf("check %d: %w", n, err)
		}
		if count != check.Count {
			result.failf("check %d: %s holds %d assets, expected %d", n, check.Principal, count, check.Count)
		}

	case "sent", "received":
		p := ledger.Principal(check.Principal)
		if check.Type == "received" && check.Principal == "public" {
			p = ledger.Public
		}
		var ids []int64
		var err error
		if check.Type == "sent" {
			ids, err = eng.Offers.SentBy(ctx, p)
		} else {
			ids, err = eng.Offers.ReceivedBy(ctx, p)
		}
		if err != nil {
			return fmt.Errorf("check %d: %w", n, err)
		}
		if !sameIDList(ids, check.IDs) {
			result.failf("check %d: %s %s offers %v, expected %v", n, check.Principal, check.Type, ids, check.IDs)
		}

	default:
		return fmt.Errorf("check %d: unknown type %q", n, check.Type)
	}
	return nil
}

// sameIDList compares two id lists in order (offer indices are ordered).
func sameIDList(got, want []int64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// sameIDSet compares two id lists as sets (inventory has set semantics).
func sameIDSet(got, want []int64) bool {
	g := append([]int64(nil), got...)
	w := append([]int64(nil), want...)
	sort.Slice(g, func(i, j int) bool { return g[i] < g[j] })
	sort.Slice(w, func(i, j int) bool { return w[i] < w[j] })
	return sameIDList(g, w)
}
