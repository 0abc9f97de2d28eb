package chain

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/arclabs/arcflow/logger"
	"github.com/arclabs/arcflow/metrics"
	"github.com/arclabs/arcflow/types"
)

var _ Backend = (*Client)(nil)

// Client is the RPC-backed implementation of Backend for a single fixed
// network. A client without a wallet is read-only; Submit then fails before
// touching the network.
type Client struct {
	cfg     types.ChainConfig
	eth     *ethclient.Client
	wallet  Wallet
	chainID *big.Int
	log     logger.Logger
	rec     metrics.Recorder

	// batch reads fan out over at most this many goroutines
	batchWidth int
}

// NewClient dials the configured RPC endpoint and verifies the node serves
// the expected chain id, so a mis-pointed RPC URL fails at startup rather
// than at the first signed submission.
func NewClient(ctx context.Context, cfg types.ChainConfig, wallet Wallet, log logger.Logger, rec metrics.Recorder) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPCUrl)
	if err != nil {
		return nil, types.NewError(types.ErrCodeRPC, "failed to connect to RPC", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, types.NewError(types.ErrCodeRPC, "failed to query chain id", err)
	}
	if chainID.Int64() != cfg.ChainID {
		eth.Close()
		return nil, types.NewError(types.ErrCodeValidation,
			fmt.Sprintf("rpc serves chain %d, expected %d", chainID.Int64(), cfg.ChainID), nil)
	}

	return &Client{
		cfg:        cfg,
		eth:        eth,
		wallet:     wallet,
		chainID:    chainID,
		log:        log,
		rec:        rec,
		batchWidth: 8,
	}, nil
}

// Config returns the fixed deployment configuration.
func (c *Client) Config() types.ChainConfig {
	return c.cfg
}

// Wallet returns the connected wallet, nil for a read-only client.
func (c *Client) Wallet() Wallet {
	return c.wallet
}

func (c *Client) Close() {
	c.eth.Close()
}

// Call implements Backend.
func (c *Client) Call(ctx context.Context, call Call) ([]interface{}, error) {
	if call.To == (common.Address{}) {
		return nil, types.NewError(types.ErrCodeValidation, "call target address not set", nil)
	}

	data, err := call.ABI.Pack(call.Method, call.Args...)
	if err != nil {
		return nil, types.NewError(types.ErrCodeValidation,
			fmt.Sprintf("failed to encode %s call", call.Method), err)
	}

	msg := ethereum.CallMsg{To: &call.To, Data: data}
	raw, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		c.rec.IncCounter("read_error", map[string]string{"network": c.cfg.Network.String()})
		return nil, types.NewError(types.ErrCodeRPC,
			fmt.Sprintf("%s call failed", call.Method), err)
	}

	values, err := call.ABI.Unpack(call.Method, raw)
	if err != nil {
		return nil, types.NewError(types.ErrCodeRPC,
			fmt.Sprintf("failed to decode %s result", call.Method), err)
	}
	return values, nil
}

// BatchCall implements Backend. The calls run concurrently and every item
// produces a tagged result; callers filter out failures.
func (c *Client) BatchCall(ctx context.Context, calls []Call) []BatchResult {
	results := make([]BatchResult, len(calls))
	sem := make(chan struct{}, c.batchWidth)

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call Call) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			values, err := c.Call(ctx, call)
			results[i] = BatchResult{Index: i, Values: values, Err: err}
		}(i, call)
	}
	wg.Wait()

	return results
}

// Receipt implements Backend. Returns ethereum.NotFound while the
// transaction is still pending.
func (c *Client) Receipt(ctx context.Context, txHash common.Hash) (*Receipt, error) {
	r, err := c.eth.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	return &Receipt{
		TxHash:      txHash,
		BlockNumber: r.BlockNumber.Uint64(),
		GasUsed:     r.GasUsed,
		Success:     r.Status == gethtypes.ReceiptStatusSuccessful,
	}, nil
}

// Logs implements Backend. The window slides back from the latest block and
// results come back newest first.
func (c *Client) Logs(ctx context.Context, q LogQuery) ([]gethtypes.Log, error) {
	window := q.Window
	if window == 0 {
		window = DefaultLogWindow
	}

	latest, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return nil, types.NewError(types.ErrCodeRPC, "failed to query block number", err)
	}
	from := uint64(0)
	if latest > window {
		from = latest - window
	}

	logs, err := c.eth.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(latest),
		Addresses: []common.Address{q.Address},
		Topics:    q.Topics,
	})
	if err != nil {
		return nil, types.NewError(types.ErrCodeRPC, "log query failed", err)
	}

	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber > logs[j].BlockNumber
		}
		return logs[i].Index > logs[j].Index
	})
	return logs, nil
}
