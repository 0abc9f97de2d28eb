// Package chain implements the shared transaction-lifecycle layer: read-only
// contract queries, transaction submission, confirmation watching, periodic
// refetch and bounded event-log queries against a single EVM endpoint.
//
// All contract state obtained through this package is an eventually
// consistent mirror; callers refetch after confirmations instead of mutating
// local copies.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Call describes one read-only contract query.
type Call struct {
	To     common.Address
	ABI    abi.ABI
	Method string
	Args   []interface{}
}

// BatchResult is the per-item outcome of a bulk read. A failed item is
// excluded by consumers; it never fails the batch.
type BatchResult struct {
	Index  int
	Values []interface{}
	Err    error
}

func (r BatchResult) Ok() bool {
	return r.Err == nil
}

// TxRequest describes one state-mutating contract call. GasLimit zero means
// estimate; a fixed override is for calls known to need more headroom than
// default estimation provides.
type TxRequest struct {
	To       common.Address
	ABI      abi.ABI
	Method   string
	Args     []interface{}
	Value    *big.Int
	GasLimit uint64
}

// Receipt is the settled outcome of a submitted transaction.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Success     bool
}

// LogQuery selects contract events over a bounded sliding block window
// ending at the latest block. Window zero means DefaultLogWindow.
type LogQuery struct {
	Address common.Address
	Topics  [][]common.Hash
	Window  uint64
}

// DefaultLogWindow keeps historical queries inside RPC provider limits.
const DefaultLogWindow = 5000

// Backend is the full surface orchestrators depend on. *Client implements
// it; tests substitute fakes.
type Backend interface {
	// Call issues one eth_call and returns the unpacked outputs.
	Call(ctx context.Context, call Call) ([]interface{}, error)
	// BatchCall issues the calls in parallel, one result per call, in order.
	BatchCall(ctx context.Context, calls []Call) []BatchResult
	// Submit signs and broadcasts exactly one transaction.
	Submit(ctx context.Context, req TxRequest) (common.Hash, error)
	// Receipt fetches the receipt for a hash, ethereum.NotFound while pending.
	Receipt(ctx context.Context, txHash common.Hash) (*Receipt, error)
	// Logs returns matching events from the bounded window, newest first.
	Logs(ctx context.Context, q LogQuery) ([]gethtypes.Log, error)
}
