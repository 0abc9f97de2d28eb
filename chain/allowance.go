package chain

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arclabs/arcflow/contracts"
	"github.com/arclabs/arcflow/types"
)

// AllowanceTracker caches ERC-20 allowance snapshots for one owner/spender
// pair. NeedsApproval is a pure function of the cached snapshot and the
// requested amount, so amount edits recompute it without a network round
// trip; Refresh is called after an approve confirms and on demand before a
// spend.
type AllowanceTracker struct {
	backend Backend
	owner   common.Address
	spender common.Address

	mu        sync.Mutex
	snapshots map[common.Address]types.AllowanceSnapshot
}

func NewAllowanceTracker(backend Backend, owner, spender common.Address) *AllowanceTracker {
	return &AllowanceTracker{
		backend:   backend,
		owner:     owner,
		spender:   spender,
		snapshots: make(map[common.Address]types.AllowanceSnapshot),
	}
}

// Refresh fetches the current allowance for token and replaces the snapshot.
// On failure the previous snapshot is kept stale rather than cleared.
func (t *AllowanceTracker) Refresh(ctx context.Context, token common.Address) (types.AllowanceSnapshot, error) {
	values, err := t.backend.Call(ctx, Call{
		To:     token,
		ABI:    contracts.ERC20,
		Method: "allowance",
		Args:   []interface{}{t.owner, t.spender},
	})
	if err != nil {
		t.mu.Lock()
		prev := t.snapshots[token]
		t.mu.Unlock()
		return prev, err
	}

	amount, ok := values[0].(*big.Int)
	if !ok {
		return types.AllowanceSnapshot{}, types.NewError(types.ErrCodeRPC, "unexpected allowance result type", nil)
	}

	snap := types.AllowanceSnapshot{
		Owner:     t.owner,
		Spender:   t.spender,
		Token:     token,
		Amount:    amount,
		FetchedAt: time.Now(),
	}
	t.mu.Lock()
	t.snapshots[token] = snap
	t.mu.Unlock()
	return snap, nil
}

// Snapshot returns the cached allowance for token, false when never fetched.
func (t *AllowanceTracker) Snapshot(token common.Address) (types.AllowanceSnapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap, ok := t.snapshots[token]
	return snap, ok
}

// NeedsApproval reports whether spending amount of token requires an approve
// first: true iff the token is non-native and the cached allowance does not
// cover the amount. A never-fetched allowance counts as zero.
func (t *AllowanceTracker) NeedsApproval(token types.Token, amount *big.Int) bool {
	if token.IsNative() {
		return false
	}
	if amount == nil || amount.Sign() <= 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	snap, ok := t.snapshots[token.Address]
	if !ok {
		return true
	}
	return !snap.Covers(amount)
}

// ApproveRequest builds the exact-amount ERC-20 approve call for token.
// Approvals are always for the requested spend amount, never unlimited.
func (t *AllowanceTracker) ApproveRequest(token common.Address, amount *big.Int, gasLimit uint64) TxRequest {
	return TxRequest{
		To:       token,
		ABI:      contracts.ERC20,
		Method:   "approve",
		Args:     []interface{}{t.spender, amount},
		GasLimit: gasLimit,
	}
}
