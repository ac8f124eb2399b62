package testutil

import (
	"sync"
	"testing"

	"github.com/fenlabs/barter/internal/ledger"
)

func TestNewPrincipal_Unique(t *testing.T) {
	a, b := NewPrincipal(), NewPrincipal()
	if a == b {
		t.Error("minted principals must not collide")
	}
	if a.IsPublic() {
		t.Error("minted principal must not be the public sentinel")
	}
}

func TestRecorder_CapturesInOrder(t *testing.T) {
	rec := &Recorder{}
	rec.Notify(ledger.NewRetractionEvent(1))
	rec.Notify(ledger.NewRetractionEvent(2))

	events := rec.Events()
	if len(events) != 2 || events[0].AssetID != 1 || events[1].AssetID != 2 {
		t.Errorf("events = %v, expected retraction of 1 then 2", events)
	}

	kinds := rec.Kinds()
	if len(kinds) != 2 || kinds[0] != ledger.EventAssetRetracted {
		t.Errorf("kinds = %v", kinds)
	}

	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Error("Reset must discard captured events")
	}
}

func TestRecorder_ConcurrentNotify(t *testing.T) {
	rec := &Recorder{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			rec.Notify(ledger.NewRetractionEvent(id))
		}(int64(i))
	}
	wg.Wait()

	if got := len(rec.Events()); got != 50 {
		t.Errorf("captured %d events, expected 50", got)
	}
}
