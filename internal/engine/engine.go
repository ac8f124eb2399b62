package engine

import (
	"context"
	"log/slog"

	"github.com/fenlabs/barter/internal/ledger"
	"github.com/fenlabs/barter/internal/store"
)

// Engine bundles the asset registry and the trade offer engine over one
// shared store. Both components mutate state only through Engine.update,
// which provides the transaction-per-operation and notify-after-commit
// guarantees the design leans on.
type Engine struct {
	store  *store.Store
	notify ledger.Notifier

	// Registry is the asset registry component.
	Registry *Registry

	// Offers is the trade offer engine component.
	Offers *Offers
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the notifier that receives events after each commit.
// The default discards events; the durable event log is written regardless.
func WithNotifier(n ledger.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notify = n
		}
	}
}

// New creates an Engine over st.
func New(st *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		notify: ledger.NopNotifier{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Registry = &Registry{eng: e}
	e.Offers = &Offers{eng: e}
	return e
}

// Log returns entries from the durable notification log with seq greater
// than after, oldest first. limit <= 0 means no limit.
func (e *Engine) Log(ctx context.Context, after int64, limit int) ([]ledger.Event, error) {
	return e.store.Events(ctx, after, limit)
}

// eventLog buffers the notifications produced while an operation's
// transaction is open. On success the buffer is flushed to the events table
// inside the transaction; the in-memory copies (now carrying their assigned
// seqs) are delivered to the Notifier after commit. On rollback the buffer
// is discarded with the transaction, so a failed operation never notifies.
type eventLog struct {
	events []ledger.Event
}

func (l *eventLog) add(ev ledger.Event) {
	l.events = append(l.events, ev)
}

func (l *eventLog) persist(tx *store.Tx) error {
	for i := range l.events {
		seq, err := tx.AppendEvent(l.events[i])
		if err != nil {
			return err
		}
		l.events[i].Seq = seq
	}
	return nil
}

// update runs fn inside a single write transaction and, if it commits,
// delivers the buffered events in order. This is the only mutation path in
// the package.
func (e *Engine) update(ctx context.Context, fn func(tx *store.Tx, evs *eventLog) error) error {
	var evs eventLog
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		evs = eventLog{}
		if err := fn(tx, &evs); err != nil {
			return err
		}
		return evs.persist(tx)
	})
	if err != nil {
		return err
	}
	for _, ev := range evs.events {
		slog.Debug("event committed", "seq", ev.Seq, "kind", ev.Kind)
		e.notify.Notify(ev)
	}
	return nil
}

// requireCaller rejects the empty caller identifier. The hosting
// environment identifies every caller; an empty identifier is reserved as
// the public-offer sentinel and must never act.
func requireCaller(caller ledger.Principal) error {
	if caller.IsPublic() {
		return ledger.NewUnauthorized("anonymous caller", caller)
	}
	return nil
}
