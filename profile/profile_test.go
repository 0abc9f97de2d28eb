package profile

import (
	"context"
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

var testAccount = common.HexToAddress("0xA0Ee7A142d267C1f36714E4a8F75612F20a79720")

func newTestService(backend *chaintest.Backend) *Service {
	return NewService(backend, chain.NewWatcher(backend, time.Millisecond),
		testAccount, types.ArcTestnet(), nil)
}

func scriptProfile(backend *chaintest.Backend, balance, level, xp int64, badges []bool) {
	backend.CallFn = func(call chain.Call) ([]interface{}, error) {
		switch call.Method {
		case "balanceOf":
			return []interface{}{big.NewInt(balance)}, nil
		case "level":
			return []interface{}{big.NewInt(level)}, nil
		case "xp":
			return []interface{}{big.NewInt(xp)}, nil
		case "badges":
			return []interface{}{badges}, nil
		default:
			return nil, types.NewError(types.ErrCodeRPC, "unexpected method "+call.Method, nil)
		}
	}
}

func TestHasProfileGatesReads(t *testing.T) {
	backend := chaintest.New()
	var methods []string
	backend.CallFn = func(call chain.Call) ([]interface{}, error) {
		methods = append(methods, call.Method)
		return []interface{}{big.NewInt(0)}, nil
	}
	s := newTestService(backend)

	record, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Nil(t, record)
	// no profile minted: only the existence check hits the chain
	assert.Equal(t, []string{"balanceOf"}, methods)
	assert.Nil(t, s.Record())
}

func TestRefreshReadsFullRecord(t *testing.T) {
	backend := chaintest.New()
	scriptProfile(backend, 1, 2, 150, []bool{true, false, true})
	s := newTestService(backend)

	record, err := s.Refresh(context.Background())
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, testAccount, record.Owner)
	assert.Equal(t, int64(2), record.Level.Int64())
	assert.Equal(t, int64(150), record.XP.Int64())
	assert.Equal(t, []bool{true, false, true}, record.Badges)

	cached := s.Record()
	require.NotNil(t, cached)
	assert.Equal(t, record.XP, cached.XP)
}

func TestRefreshPropagatesBatchItemFailure(t *testing.T) {
	backend := chaintest.New()
	backend.CallFn = func(call chain.Call) ([]interface{}, error) {
		switch call.Method {
		case "balanceOf":
			return []interface{}{big.NewInt(1)}, nil
		case "level":
			return nil, types.NewError(types.ErrCodeRPC, "read failed", nil)
		case "xp":
			return []interface{}{big.NewInt(10)}, nil
		case "badges":
			return []interface{}{[]bool{false, false, false}}, nil
		default:
			return nil, types.NewError(types.ErrCodeRPC, "unexpected method "+call.Method, nil)
		}
	}
	s := newTestService(backend)

	_, err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeRPC, types.ErrorCode(err))
	assert.Nil(t, s.Record())
}

func TestMintProfileRefusedWhenAlreadyMinted(t *testing.T) {
	backend := chaintest.New()
	scriptProfile(backend, 1, 1, 0, []bool{false, false, false})
	s := newTestService(backend)

	_, err := s.MintProfile(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
	assert.Empty(t, backend.Submitted())
}

func TestMintProfileSubmitsAndRefetches(t *testing.T) {
	backend := chaintest.New()
	var balanceReads int
	backend.CallFn = func(call chain.Call) ([]interface{}, error) {
		if call.Method == "balanceOf" {
			balanceReads++
		}
		return []interface{}{big.NewInt(0)}, nil
	}
	s := newTestService(backend)

	_, err := s.MintProfile(context.Background())
	require.NoError(t, err)

	submitted := backend.Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, "mintProfile", submitted[0].Method)
	assert.Equal(t, types.ActionMintProfile, s.ConsumeConfirmed())
	// once to gate the mint, once more for the post-confirm refetch
	assert.Equal(t, 2, balanceReads)
}

func TestXPProgress(t *testing.T) {
	record := types.ProfileRecord{Level: big.NewInt(2), XP: big.NewInt(150)}
	assert.Equal(t, int64(200), XPForNextLevel(record).Int64())
	assert.Equal(t, 75, XPProgress(record))

	over := types.ProfileRecord{Level: big.NewInt(1), XP: big.NewInt(250)}
	assert.Equal(t, 100, XPProgress(over))

	empty := types.ProfileRecord{}
	assert.Equal(t, 0, XPProgress(empty))
}

func TestDemoUnlocks(t *testing.T) {
	record := types.ProfileRecord{XP: big.NewInt(50)}
	tiers := DemoUnlocks(record)
	require.Len(t, tiers, 3)

	assert.True(t, tiers[0].Unlocked)  // Linker at 20
	assert.True(t, tiers[1].Unlocked)  // Streamer at 50
	assert.False(t, tiers[2].Unlocked) // Investor at 100
	assert.Equal(t, int64(50), tiers[2].XPMissing)
}

func TestDemoUnlocksHonorBadgeFlags(t *testing.T) {
	// a contract-granted badge unlocks its tier regardless of XP;
	// slot 2 backs Investor, slot 1 backs Linker, slot 0 backs Streamer
	record := types.ProfileRecord{XP: big.NewInt(0), Badges: []bool{false, false, true}}
	tiers := DemoUnlocks(record)
	require.Len(t, tiers, 3)

	assert.False(t, tiers[0].Unlocked)
	assert.Equal(t, int64(20), tiers[0].XPMissing)
	assert.False(t, tiers[1].Unlocked)
	assert.True(t, tiers[2].Unlocked)
	assert.Equal(t, int64(0), tiers[2].XPMissing)

	streamer := types.ProfileRecord{XP: big.NewInt(0), Badges: []bool{true, false, false}}
	assert.True(t, DemoUnlocks(streamer)[1].Unlocked)

	// missing badge data degrades to the XP rule alone
	none := types.ProfileRecord{XP: big.NewInt(25)}
	tiers = DemoUnlocks(none)
	assert.True(t, tiers[0].Unlocked)
	assert.False(t, tiers[1].Unlocked)
}
