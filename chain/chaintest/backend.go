// Package chaintest provides a scriptable in-memory Backend for orchestrator
// tests. Submissions settle instantly with a success receipt unless scripted
// otherwise.
package chaintest

import (
	"context"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/arclabs/arcflow/chain"
)

type Backend struct {
	mu sync.Mutex

	// CallFn scripts read results. Nil means every Call fails.
	CallFn func(call chain.Call) ([]interface{}, error)
	// SubmitErr, when set, fails every Submit before a hash is produced.
	SubmitErr error
	// RevertNext marks the next submitted transaction as reverted on chain.
	RevertNext bool
	// PendingPolls is how many receipt queries return not-found before the
	// receipt appears.
	PendingPolls int
	// LogsFn scripts event-log queries. Nil returns no logs.
	LogsFn func(q chain.LogQuery) ([]gethtypes.Log, error)

	nonce     uint64
	submitted []chain.TxRequest
	receipts  map[common.Hash]*chain.Receipt
	polls     map[common.Hash]int
}

var _ chain.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		receipts: make(map[common.Hash]*chain.Receipt),
		polls:    make(map[common.Hash]int),
	}
}

// Submitted returns all transaction requests passed to Submit, in order.
func (b *Backend) Submitted() []chain.TxRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]chain.TxRequest, len(b.submitted))
	copy(out, b.submitted)
	return out
}

func (b *Backend) Call(_ context.Context, call chain.Call) ([]interface{}, error) {
	b.mu.Lock()
	fn := b.CallFn
	b.mu.Unlock()
	if fn == nil {
		return nil, errUnscripted
	}
	return fn(call)
}

func (b *Backend) BatchCall(ctx context.Context, calls []chain.Call) []chain.BatchResult {
	results := make([]chain.BatchResult, len(calls))
	for i, call := range calls {
		values, err := b.Call(ctx, call)
		results[i] = chain.BatchResult{Index: i, Values: values, Err: err}
	}
	return results
}

func (b *Backend) Submit(_ context.Context, req chain.TxRequest) (common.Hash, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.SubmitErr != nil {
		return common.Hash{}, b.SubmitErr
	}
	b.nonce++
	hash := common.BigToHash(common.Big1)
	hash[0] = byte(b.nonce)
	b.submitted = append(b.submitted, req)
	b.receipts[hash] = &chain.Receipt{
		TxHash:      hash,
		BlockNumber: b.nonce,
		GasUsed:     21000,
		Success:     !b.RevertNext,
	}
	b.RevertNext = false
	b.polls[hash] = b.PendingPolls
	return hash, nil
}

func (b *Backend) Receipt(_ context.Context, txHash common.Hash) (*chain.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	receipt, ok := b.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	if b.polls[txHash] > 0 {
		b.polls[txHash]--
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (b *Backend) Logs(_ context.Context, q chain.LogQuery) ([]gethtypes.Log, error) {
	b.mu.Lock()
	fn := b.LogsFn
	b.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(q)
}

type scriptErr string

func (e scriptErr) Error() string { return string(e) }

const errUnscripted = scriptErr("chaintest: call not scripted")
