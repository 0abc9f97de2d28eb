package chain

import (
	"context"
	"sync"
	"time"

	"github.com/arclabs/arcflow/logger"
	"github.com/arclabs/arcflow/types"
)

// Runner sequences submit -> watch -> await for one orchestrator instance and
// enforces the single-pending-action invariant: a second submission while one
// is in flight is rejected, mirroring a disabled form button.
//
// The last confirmed action kind is kept as a consume-once tag so celebratory
// UI effects key off the action that actually confirmed, never a stale one.
type Runner struct {
	backend Backend
	watcher *Watcher
	log     logger.Logger

	mu            sync.Mutex
	pending       *types.PendingAction
	lastConfirmed types.ActionKind
}

// NewRunner builds a runner around a backend and a dedicated watcher.
func NewRunner(backend Backend, watcher *Watcher, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Runner{backend: backend, watcher: watcher, log: log}
}

// Pending returns a copy of the in-flight action, nil when none.
func (r *Runner) Pending() *types.PendingAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return nil
	}
	p := *r.pending
	return &p
}

// ConsumeConfirmed returns the kind of the most recently confirmed action and
// resets the tag, so each confirmation is consumed at most once.
func (r *Runner) ConsumeConfirmed() types.ActionKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind := r.lastConfirmed
	r.lastConfirmed = types.ActionNone
	return kind
}

// Run submits the request tagged with kind and blocks until the transaction
// settles. On a terminal watcher state the pending action is cleared and the
// watcher reset before returning, so the next action starts from Idle.
//
// If ctx ends mid-watch the submission itself cannot be revoked; Run stops
// observing it, clears the pending action and reports an RPC error. The
// transaction may still mine afterwards.
func (r *Runner) Run(ctx context.Context, kind types.ActionKind, req TxRequest) (*Receipt, error) {
	r.mu.Lock()
	if r.pending != nil {
		inflight := r.pending.Kind
		r.mu.Unlock()
		return nil, types.NewError(types.ErrCodeActionInFlight,
			"a "+string(inflight)+" action is already in flight", nil)
	}
	r.pending = &types.PendingAction{Kind: kind, SubmittedAt: time.Now()}
	r.mu.Unlock()

	receipt, err := r.execute(ctx, kind, req)

	r.mu.Lock()
	r.pending = nil
	if err == nil {
		r.lastConfirmed = kind
	}
	r.mu.Unlock()
	r.watcher.Reset()

	return receipt, err
}

func (r *Runner) execute(ctx context.Context, kind types.ActionKind, req TxRequest) (*Receipt, error) {
	txHash, err := r.backend.Submit(ctx, req)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.pending.TxHash = txHash
	r.mu.Unlock()

	if err := r.watcher.Watch(txHash); err != nil {
		return nil, err
	}

	status, err := r.watcher.Await(ctx)
	if err != nil {
		return nil, err
	}

	receipt := r.watcher.Receipt()
	if status != StatusConfirmed {
		r.log.Warn("transaction failed", map[string]any{"action": string(kind), "tx": txHash.Hex()})
		return receipt, types.NewError(types.ErrCodeTxFailed,
			string(kind)+" transaction reverted on chain", nil)
	}

	r.log.Info("transaction confirmed", map[string]any{"action": string(kind), "tx": txHash.Hex()})
	return receipt, nil
}
