package link

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/arclabs/arcflow/chain"
	"github.com/arclabs/arcflow/contracts"
	"github.com/arclabs/arcflow/types"
)

// History returns links created by the connected account within the recent
// block window, newest first. Only the commitment is recoverable from chain
// data; the secret itself never appears in any event.
func (s *Service) History(ctx context.Context) ([]types.LinkRecord, error) {
	if s.account == (common.Address{}) {
		return nil, types.NewError(types.ErrCodeValidation, "no account connected", nil)
	}

	event := contracts.Link.Events["LinkCreated"]
	logs, err := s.backend.Logs(ctx, chain.LogQuery{
		Address: s.cfg.LinkAddress,
		Topics: [][]common.Hash{
			{event.ID},
			{common.BytesToHash(s.account.Bytes())},
		},
	})
	if err != nil {
		return nil, err
	}

	records := make([]types.LinkRecord, 0, len(logs))
	for _, lg := range logs {
		rec, err := decodeLinkCreated(lg)
		if err != nil {
			s.log.Warn("skipping undecodable link event", map[string]any{
				"tx":  lg.TxHash.Hex(),
				"err": err.Error(),
			})
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeLinkCreated(lg gethtypes.Log) (types.LinkRecord, error) {
	if len(lg.Topics) < 3 {
		return types.LinkRecord{}, types.NewError(types.ErrCodeRPC, "short topic list on LinkCreated event", nil)
	}
	if len(lg.Data) < 2*32 {
		return types.LinkRecord{}, types.NewError(types.ErrCodeRPC, "short data on LinkCreated event", nil)
	}
	return types.LinkRecord{
		Creator:    common.BytesToAddress(lg.Topics[1].Bytes()),
		SecretHash: lg.Topics[2],
		Token:      common.BytesToAddress(lg.Data[0:32]),
		Amount:     new(big.Int).SetBytes(lg.Data[32:64]),
	}, nil
}
