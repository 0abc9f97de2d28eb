package dca

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arclabs/arcflow/chain"
	"github.com/arclabs/arcflow/contracts"
	"github.com/arclabs/arcflow/types"
)

// Positions lists the connected account's vaults. Position ids are read in
// one parallel batch; entries that fail to decode are dropped with a warning
// rather than failing the whole listing.
func (s *Service) Positions(ctx context.Context) ([]types.PositionRecord, error) {
	if s.account == (common.Address{}) {
		return nil, types.NewError(types.ErrCodeValidation, "no account connected", nil)
	}

	out, err := s.backend.Call(ctx, chain.Call{
		To:     s.cfg.DCAAddress,
		ABI:    contracts.DCA,
		Method: "nextPositionId",
	})
	if err != nil {
		return nil, err
	}
	next, ok := out[0].(*big.Int)
	if !ok {
		return nil, types.NewError(types.ErrCodeRPC, "unexpected nextPositionId result", nil)
	}

	count := next.Int64()
	if count <= 0 {
		return nil, nil
	}
	calls := make([]chain.Call, count)
	for i := int64(0); i < count; i++ {
		calls[i] = chain.Call{
			To:     s.cfg.DCAAddress,
			ABI:    contracts.DCA,
			Method: "positions",
			Args:   []interface{}{big.NewInt(i)},
		}
	}

	results := s.backend.BatchCall(ctx, calls)

	var records []types.PositionRecord
	for _, res := range results {
		if !res.Ok() {
			s.log.Warn("position read failed", map[string]any{
				"id": res.Index, "err": res.Err.Error(),
			})
			continue
		}
		record, ok := decodePosition(big.NewInt(int64(res.Index)), res.Values)
		if !ok {
			s.log.Warn("position decode failed", map[string]any{"id": res.Index})
			continue
		}
		if record.Owner != s.account {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// decodePosition maps the positions(id) tuple onto a record. Field order is
// owner, tokenIn, tokenOut, amountPerTrade, interval, lastExecution,
// totalBalance, isActive.
func decodePosition(id *big.Int, values []interface{}) (types.PositionRecord, bool) {
	if len(values) < 8 {
		return types.PositionRecord{}, false
	}
	owner, ok := values[0].(common.Address)
	if !ok {
		return types.PositionRecord{}, false
	}
	tokenIn, ok := values[1].(common.Address)
	if !ok {
		return types.PositionRecord{}, false
	}
	tokenOut, ok := values[2].(common.Address)
	if !ok {
		return types.PositionRecord{}, false
	}
	amountPerTrade, ok := values[3].(*big.Int)
	if !ok {
		return types.PositionRecord{}, false
	}
	interval, ok := values[4].(*big.Int)
	if !ok {
		return types.PositionRecord{}, false
	}
	lastExecution, ok := values[5].(*big.Int)
	if !ok {
		return types.PositionRecord{}, false
	}
	totalBalance, ok := values[6].(*big.Int)
	if !ok {
		return types.PositionRecord{}, false
	}
	active, ok := values[7].(bool)
	if !ok {
		return types.PositionRecord{}, false
	}
	return types.PositionRecord{
		ID:             id,
		Owner:          owner,
		TokenIn:        tokenIn,
		TokenOut:       tokenOut,
		AmountPerTrade: amountPerTrade,
		Interval:       interval,
		LastExecution:  lastExecution,
		TotalBalance:   totalBalance,
		IsActive:       active,
	}, true
}
