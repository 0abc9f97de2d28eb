package chain

import (
	"context"
	"fmt"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/arclabs/arcflow/types"
)

// Submit implements Backend. It performs exactly one network submission per
// invocation: pack, simulate, price, sign, broadcast. Preventing duplicate
// submissions is the caller's job (one pending action per orchestrator).
func (c *Client) Submit(ctx context.Context, req TxRequest) (common.Hash, error) {
	if c.wallet == nil {
		return common.Hash{}, types.NewError(types.ErrCodeValidation, "no wallet connected", nil)
	}
	if req.To == (common.Address{}) {
		return common.Hash{}, types.NewError(types.ErrCodeValidation, "transaction target address not set", nil)
	}

	start := time.Now()
	from := c.wallet.Address()

	data, err := req.ABI.Pack(req.Method, req.Args...)
	if err != nil {
		return common.Hash{}, types.NewError(types.ErrCodeValidation,
			fmt.Sprintf("failed to encode %s call", req.Method), err)
	}

	// Simulate first so a contract-side precondition failure surfaces as a
	// readable error instead of an on-chain revert that still burns gas.
	msg := ethereum.CallMsg{From: from, To: &req.To, Value: req.Value, Data: data}
	if _, err := c.eth.CallContract(ctx, msg, nil); err != nil {
		return common.Hash{}, types.NewError(types.ErrCodeSimulationReverted,
			fmt.Sprintf("%s would revert", req.Method), err)
	}

	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, types.NewError(types.ErrCodeRPC, "failed to get nonce", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, types.NewError(types.ErrCodeRPC, "failed to get gas price", err)
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit, err = c.eth.EstimateGas(ctx, msg)
		if err != nil {
			return common.Hash{}, classifySendError(req.Method, err)
		}
	}

	tx := gethtypes.NewTransaction(nonce, req.To, req.Value, gasLimit, gasPrice, data)
	signed, err := c.wallet.SignTx(tx, c.chainID)
	if err != nil {
		return common.Hash{}, types.NewError(types.ErrCodeUserRejected, "signing declined", err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		c.rec.IncCounter("submit_error", map[string]string{"network": c.cfg.Network.String()})
		return common.Hash{}, classifySendError(req.Method, err)
	}

	c.rec.IncCounter("submit", map[string]string{"network": c.cfg.Network.String()})
	c.rec.ObserveLatency("submit", time.Since(start), map[string]string{"network": c.cfg.Network.String()})
	c.log.Info("transaction submitted", map[string]any{
		"method": req.Method,
		"to":     req.To.Hex(),
		"tx":     signed.Hash().Hex(),
		"gas":    gasLimit,
	})

	return signed.Hash(), nil
}

// classifySendError maps node-reported failures onto the error taxonomy.
// Node error strings are not standardized across clients, so matching is
// best-effort with RPC_ERROR as the fallback.
func classifySendError(method string, err error) error {
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "insufficient funds"):
		return types.NewError(types.ErrCodeInsufficientFunds, "insufficient balance for transaction", err)
	case strings.Contains(text, "execution reverted"), strings.Contains(text, "revert"):
		return types.NewError(types.ErrCodeSimulationReverted,
			fmt.Sprintf("%s would revert", method), err)
	case strings.Contains(text, "user denied"), strings.Contains(text, "rejected"):
		return types.NewError(types.ErrCodeUserRejected, "signing declined", err)
	default:
		return types.NewError(types.ErrCodeRPC,
			fmt.Sprintf("failed to send %s transaction", method), err)
	}
}
