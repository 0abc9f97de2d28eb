package chain

import (
	"context"
	"errors"
	"sync"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/arclabs/arcflow/types"
)

// TxStatus is the confirmation state of a watched transaction.
type TxStatus int

const (
	StatusIdle TxStatus = iota
	StatusPending
	StatusConfirmed
	StatusFailed
)

func (s TxStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a one-shot end state.
func (s TxStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// ReceiptSource is the read capability the watcher needs. Backend satisfies
// it.
type ReceiptSource interface {
	Receipt(ctx context.Context, txHash common.Hash) (*Receipt, error)
}

// Watcher observes one transaction hash at a time through the state machine
// Idle -> Pending -> {Confirmed, Failed}. Terminal states are one-shot: the
// owner must Reset before arming a new hash, otherwise a stale confirmation
// could re-trigger side effects for an unrelated later action. Watch enforces
// this by refusing to arm a non-idle watcher.
type Watcher struct {
	receipts     ReceiptSource
	pollInterval time.Duration

	mu      sync.Mutex
	status  TxStatus
	hash    common.Hash
	receipt *Receipt
}

// NewWatcher builds an idle watcher. pollInterval zero defaults to 2s.
func NewWatcher(receipts ReceiptSource, pollInterval time.Duration) *Watcher {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Watcher{receipts: receipts, pollInterval: pollInterval}
}

// Watch arms the watcher with a submitted transaction hash.
func (w *Watcher) Watch(txHash common.Hash) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status != StatusIdle {
		return types.NewError(types.ErrCodeActionInFlight,
			"watcher already holds a "+w.status.String()+" transaction", nil)
	}
	w.status = StatusPending
	w.hash = txHash
	w.receipt = nil
	return nil
}

// Status returns the current state.
func (w *Watcher) Status() TxStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// TxHash returns the armed hash, zero when idle.
func (w *Watcher) TxHash() common.Hash {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hash
}

// Receipt returns the terminal receipt, nil before one exists.
func (w *Watcher) Receipt() *Receipt {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.receipt
}

// Reset returns the watcher to Idle so a new action can arm it. Clearing the
// terminal state is the caller's explicit acknowledgment that the outcome has
// been consumed.
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = StatusIdle
	w.hash = common.Hash{}
	w.receipt = nil
}

// Await polls until the armed transaction reaches a terminal state or ctx
// ends. A context end leaves the watcher Pending: the submission itself
// cannot be revoked, only no longer observed.
func (w *Watcher) Await(ctx context.Context) (TxStatus, error) {
	w.mu.Lock()
	if w.status.Terminal() {
		st := w.status
		w.mu.Unlock()
		return st, nil
	}
	if w.status != StatusPending {
		w.mu.Unlock()
		return StatusIdle, types.NewError(types.ErrCodeValidation, "no transaction armed", nil)
	}
	hash := w.hash
	w.mu.Unlock()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := w.receipts.Receipt(ctx, hash)
		switch {
		case err == nil:
			w.mu.Lock()
			w.receipt = receipt
			if receipt.Success {
				w.status = StatusConfirmed
			} else {
				w.status = StatusFailed
			}
			st := w.status
			w.mu.Unlock()
			return st, nil
		case errors.Is(err, ethereum.NotFound):
			// still pending
		case ctx.Err() != nil:
			return StatusPending, types.NewError(types.ErrCodeRPC, "stopped watching transaction", ctx.Err())
		default:
			return StatusPending, types.NewError(types.ErrCodeRPC, "receipt query failed", err)
		}

		select {
		case <-ctx.Done():
			return StatusPending, types.NewError(types.ErrCodeRPC, "stopped watching transaction", ctx.Err())
		case <-ticker.C:
		}
	}
}
