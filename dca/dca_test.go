package dca

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclabs/arcflow/chain"
	"github.com/arclabs/arcflow/chain/chaintest"
	"github.com/arclabs/arcflow/types"
)

var (
	testAccount = common.HexToAddress("0xA0Ee7A142d267C1f36714E4a8F75612F20a79720")
	otherOwner  = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func newTestService(backend *chaintest.Backend) *Service {
	return NewService(backend, chain.NewWatcher(backend, time.Millisecond),
		testAccount, types.ArcTestnet(), types.ArcTokens(), nil)
}

func position(owner common.Address, perTrade, balance, lastExec int64) []interface{} {
	return []interface{}{
		owner,
		common.HexToAddress("0x481490152281347052521953123120F527845366"),
		common.HexToAddress("0x6FE689cA658F9430cd5F0E31a48AFCE591907298"),
		big.NewInt(perTrade),
		big.NewInt(60),
		big.NewInt(lastExec),
		big.NewInt(balance),
		true,
	}
}

func scriptPositions(backend *chaintest.Backend, byID map[int64][]interface{}, count int64) {
	backend.CallFn = func(call chain.Call) ([]interface{}, error) {
		switch call.Method {
		case "nextPositionId":
			return []interface{}{big.NewInt(count)}, nil
		case "positions":
			id := call.Args[0].(*big.Int).Int64()
			values, ok := byID[id]
			if !ok {
				return nil, errors.New("read failed")
			}
			return values, nil
		case "allowance":
			return []interface{}{big.NewInt(0)}, nil
		default:
			return nil, errors.New("unexpected method " + call.Method)
		}
	}
}

func TestNeedsApprovalAlwaysNetworkToken(t *testing.T) {
	s := newTestService(chaintest.New())
	s.SetForm(Form{TokenIn: types.TokenUSDCe, TotalDeposit: "100", BuyAmount: "10", Interval: "60"})

	needs, err := s.NeedsApproval()
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestFundingTokenRejectsNative(t *testing.T) {
	s := newTestService(chaintest.New())
	s.SetForm(Form{TokenIn: types.TokenUSDC, TotalDeposit: "100", BuyAmount: "10", Interval: "60"})

	_, err := s.NeedsApproval()
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeUnknownToken, types.ErrorCode(err))
}

func TestApproveUsesGasOverride(t *testing.T) {
	backend := chaintest.New()
	backend.CallFn = func(chain.Call) ([]interface{}, error) {
		return []interface{}{big.NewInt(100_000_000)}, nil
	}
	s := newTestService(backend)
	s.SetForm(Form{TokenIn: types.TokenUSDCe, TotalDeposit: "100", BuyAmount: "10", Interval: "60"})

	_, err := s.Approve(context.Background())
	require.NoError(t, err)

	submitted := backend.Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, "approve", submitted[0].Method)
	assert.Equal(t, uint64(2_000_000), submitted[0].GasLimit)
	assert.Equal(t, big.NewInt(100_000_000), submitted[0].Args[1]) // 100 USDC.e at 6 decimals
}

func TestCreatePositionKeepsRecurringFields(t *testing.T) {
	backend := chaintest.New()
	backend.CallFn = func(chain.Call) ([]interface{}, error) {
		return []interface{}{big.NewInt(100_000_000)}, nil
	}
	s := newTestService(backend)
	s.SetForm(Form{TokenIn: types.TokenEURC, TotalDeposit: "100", BuyAmount: "10", Interval: "120"})
	require.NoError(t, s.RefreshAllowance(context.Background()))

	_, err := s.CreatePosition(context.Background())
	require.NoError(t, err)

	submitted := backend.Submitted()
	require.Len(t, submitted, 1)
	req := submitted[0]
	assert.Equal(t, "createPosition", req.Method)
	assert.Equal(t, uint64(2_000_000), req.GasLimit)
	require.Len(t, req.Args, 5)
	assert.Equal(t, common.HexToAddress("0x89B50855Aa3bE2F677cD6303Cec089B5F319D72a"), req.Args[0])
	assert.Equal(t, common.HexToAddress("0x6FE689cA658F9430cd5F0E31a48AFCE591907298"), req.Args[1])
	assert.Equal(t, big.NewInt(10_000_000), req.Args[2])
	assert.Equal(t, big.NewInt(120), req.Args[3])
	assert.Equal(t, big.NewInt(100_000_000), req.Args[4])

	// amounts clear on confirmation, the token and cadence stick for reuse
	form := s.Form()
	assert.Empty(t, form.TotalDeposit)
	assert.Empty(t, form.BuyAmount)
	assert.Equal(t, types.TokenEURC, form.TokenIn)
	assert.Equal(t, "120", form.Interval)
	assert.Equal(t, types.ActionCreatePosition, s.ConsumeConfirmed())
}

func TestCreatePositionRefusedWithoutAllowance(t *testing.T) {
	s := newTestService(chaintest.New())
	s.SetForm(Form{TokenIn: types.TokenUSDCe, TotalDeposit: "100", BuyAmount: "10", Interval: "60"})

	_, err := s.CreatePosition(context.Background())
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInsufficientAllowance, types.ErrorCode(err))
}

func TestExecuteGuards(t *testing.T) {
	s := newTestService(chaintest.New())
	now := time.Unix(1_700_000_000, 0)

	finished := types.PositionRecord{
		ID: big.NewInt(1), AmountPerTrade: big.NewInt(10), TotalBalance: big.NewInt(5),
		Interval: big.NewInt(60), LastExecution: big.NewInt(0),
	}
	_, err := s.Execute(context.Background(), finished, now)
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))

	notReady := types.PositionRecord{
		ID: big.NewInt(2), AmountPerTrade: big.NewInt(10), TotalBalance: big.NewInt(100),
		Interval: big.NewInt(60), LastExecution: big.NewInt(now.Unix() - 30),
	}
	_, err = s.Execute(context.Background(), notReady, now)
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestExecuteReadyPosition(t *testing.T) {
	backend := chaintest.New()
	s := newTestService(backend)
	now := time.Unix(1_700_000_000, 0)

	ready := types.PositionRecord{
		ID: big.NewInt(3), AmountPerTrade: big.NewInt(10), TotalBalance: big.NewInt(100),
		Interval: big.NewInt(60), LastExecution: big.NewInt(now.Unix() - 61),
	}
	_, err := s.Execute(context.Background(), ready, now)
	require.NoError(t, err)

	submitted := backend.Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, "executeDCA", submitted[0].Method)
	assert.Equal(t, uint64(3_000_000), submitted[0].GasLimit)
	assert.Equal(t, big.NewInt(3), submitted[0].Args[0])

	require.NotNil(t, s.LastExecutedID())
	assert.Equal(t, int64(3), s.LastExecutedID().Int64())
}

func TestPositionsFiltersOwnerAndToleratesFailures(t *testing.T) {
	backend := chaintest.New()
	scriptPositions(backend, map[int64][]interface{}{
		0: position(testAccount, 10, 100, 0),
		1: position(otherOwner, 10, 100, 0),
		// id 2 is unscripted: its read fails and only that item drops
		3: position(testAccount, 5, 3, 0),
	}, 4)
	s := newTestService(backend)

	records, err := s.Positions(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(0), records[0].ID.Int64())
	assert.Equal(t, testAccount, records[0].Owner)
	assert.False(t, records[0].Finished())

	assert.Equal(t, int64(3), records[1].ID.Int64())
	assert.True(t, records[1].Finished())
}

func TestPositionsEmptyChain(t *testing.T) {
	backend := chaintest.New()
	scriptPositions(backend, nil, 0)
	s := newTestService(backend)

	records, err := s.Positions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
