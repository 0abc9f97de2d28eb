package stream

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/arclabs/arcflow/chain"
	"github.com/arclabs/arcflow/contracts"
	"github.com/arclabs/arcflow/types"
)

// History returns streams created by the connected account within the recent
// block window, newest first. The window is bounded to stay inside RPC
// provider limits; this is recent activity, not full chain history.
func (s *Service) History(ctx context.Context) ([]types.StreamRecord, error) {
	if s.account == (common.Address{}) {
		return nil, types.NewError(types.ErrCodeValidation, "no account connected", nil)
	}

	event := contracts.Stream.Events["CreateStream"]
	logs, err := s.backend.Logs(ctx, chain.LogQuery{
		Address: s.cfg.StreamAddress,
		Topics: [][]common.Hash{
			{event.ID},
			nil, // any stream id
			{common.BytesToHash(s.account.Bytes())},
		},
	})
	if err != nil {
		return nil, err
	}

	records := make([]types.StreamRecord, 0, len(logs))
	for _, lg := range logs {
		rec, err := decodeCreateStream(lg)
		if err != nil {
			// tolerate drift across contract versions: skip what we
			// cannot decode instead of failing the whole listing
			s.log.Warn("skipping undecodable stream event", map[string]any{
				"tx":  lg.TxHash.Hex(),
				"err": err.Error(),
			})
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeCreateStream maps a raw CreateStream log into a record. Early
// contract versions emit three data words (deposit, token, duration); later
// ones append a start time. The extra word is optional.
func decodeCreateStream(lg gethtypes.Log) (types.StreamRecord, error) {
	if len(lg.Topics) < 4 {
		return types.StreamRecord{}, types.NewError(types.ErrCodeRPC, "short topic list on CreateStream event", nil)
	}
	if len(lg.Data) < 3*32 {
		return types.StreamRecord{}, types.NewError(types.ErrCodeRPC, "short data on CreateStream event", nil)
	}

	rec := types.StreamRecord{
		StreamID:  new(big.Int).SetBytes(lg.Topics[1].Bytes()),
		Sender:    common.BytesToAddress(lg.Topics[2].Bytes()),
		Recipient: common.BytesToAddress(lg.Topics[3].Bytes()),
		Deposit:   new(big.Int).SetBytes(lg.Data[0:32]),
		Token:     common.BytesToAddress(lg.Data[32:64]),
		Duration:  new(big.Int).SetBytes(lg.Data[64:96]),
	}
	if len(lg.Data) >= 4*32 {
		rec.StartTime = new(big.Int).SetBytes(lg.Data[96:128])
	}
	return rec, nil
}
