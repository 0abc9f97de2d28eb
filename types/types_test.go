package types

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionReadiness(t *testing.T) {
	pos := PositionRecord{
		AmountPerTrade: big.NewInt(10),
		TotalBalance:   big.NewInt(100),
		Interval:       big.NewInt(60),
		LastExecution:  big.NewInt(1000),
	}

	before := time.Unix(1030, 0)
	at := time.Unix(1060, 0)
	after := time.Unix(2000, 0)

	assert.False(t, pos.IsReady(before))
	assert.Equal(t, int64(30), pos.TimeLeft(before))

	// readiness is monotonic in time once the interval elapses
	assert.True(t, pos.IsReady(at))
	assert.True(t, pos.IsReady(after))
	assert.Equal(t, int64(0), pos.TimeLeft(after))
	assert.Equal(t, int64(1060), pos.NextExecution())
}

func TestPositionFinished(t *testing.T) {
	pos := PositionRecord{AmountPerTrade: big.NewInt(10), TotalBalance: big.NewInt(10)}
	assert.False(t, pos.Finished())

	pos.TotalBalance = big.NewInt(9)
	assert.True(t, pos.Finished())

	pos.TotalBalance = big.NewInt(0)
	assert.True(t, pos.Finished())
}

func TestAllowanceSnapshotCovers(t *testing.T) {
	snap := AllowanceSnapshot{Amount: big.NewInt(100)}
	assert.True(t, snap.Covers(big.NewInt(100)))
	assert.True(t, snap.Covers(big.NewInt(99)))
	assert.False(t, snap.Covers(big.NewInt(101)))

	assert.False(t, AllowanceSnapshot{}.Covers(big.NewInt(1)))
}

func TestRegistryLookups(t *testing.T) {
	reg := ArcTokens()

	usdc, ok := reg.BySymbol(TokenUSDC)
	require.True(t, ok)
	assert.True(t, usdc.IsNative())
	assert.EqualValues(t, 18, usdc.Decimals)

	eurc, ok := reg.BySymbol(TokenEURC)
	require.True(t, ok)
	assert.False(t, eurc.IsNative())
	assert.EqualValues(t, 6, eurc.Decimals)

	usdce, ok := reg.BySymbol(TokenUSDCe)
	require.True(t, ok)
	assert.EqualValues(t, 6, usdce.Decimals)

	_, ok = reg.BySymbol("DOGE")
	assert.False(t, ok)

	back := reg.ByAddress(eurc.Address)
	assert.Equal(t, TokenEURC, back.Symbol)

	// unknown addresses are labeled, not fatal
	unknown := reg.ByAddress(common.HexToAddress("0xdead00000000000000000000000000000000beef"))
	assert.EqualValues(t, "UNKNOWN", unknown.Symbol)
	assert.EqualValues(t, 18, unknown.Decimals)
}

func TestNewRegistryValidates(t *testing.T) {
	_, err := NewRegistry([]Token{{Symbol: "A", Decimals: 6}, {Symbol: "A", Decimals: 6}})
	require.Error(t, err)

	_, err = NewRegistry([]Token{{Symbol: "", Decimals: 6}})
	require.Error(t, err)

	_, err = NewRegistry([]Token{{Symbol: "A", Decimals: 40}})
	require.Error(t, err)
}

func TestArcTestnetConfig(t *testing.T) {
	cfg := ArcTestnet()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(5042002), cfg.ChainID)
	assert.Equal(t,
		"https://testnet.arcscan.app/tx/0xabc",
		cfg.ExplorerTxURL("0xabc"))
}

func TestErrorCode(t *testing.T) {
	err := NewError(ErrCodeActionInFlight, "busy", nil)
	assert.Equal(t, ErrCodeActionInFlight, ErrorCode(err))
	assert.False(t, IsValidation(err))

	wrapped := NewError(ErrCodeValidation, "bad input", err)
	assert.True(t, IsValidation(wrapped))

	assert.Equal(t, ErrCodeRPC, ErrorCode(assert.AnError))
}
