package link

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
		testAccount, types.ArcTestnet(), types.ArcTokens(), nil)
}

func scriptAllowance(backend *chaintest.Backend, amount *big.Int) {
	backend.CallFn = func(chain.Call) ([]interface{}, error) {
		return []interface{}{new(big.Int).Set(amount)}, nil
	}
}

func TestHashSecret(t *testing.T) {
	// keccak256("hello"), independently computable with any EVM tooling
	assert.Equal(t,
		common.HexToHash("0x1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8"),
		HashSecret("hello"))

	assert.Equal(t, HashSecret("birthday-gift"), HashSecret("birthday-gift"))
	assert.NotEqual(t, HashSecret("birthday-gift"), HashSecret("birthday-gift "))
}

func TestClaimURLRoundTrip(t *testing.T) {
	url, err := BuildClaimURL("https://arcflow.example/claim", "s3cr3t phrase")
	require.NoError(t, err)

	secret, err := ParseClaimURL(url)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t phrase", secret)
}

func TestParseClaimURLWithoutSecret(t *testing.T) {
	_, err := ParseClaimURL("https://arcflow.example/claim")
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestNeedsApprovalNativeToken(t *testing.T) {
	s := newTestService(chaintest.New())
	s.SetForm(Form{Token: types.TokenUSDC, Amount: "10", Secret: "x"})

	needs, err := s.NeedsApproval()
	require.NoError(t, err)
	assert.False(t, needs)
}

func TestNeedsApprovalTracksSnapshot(t *testing.T) {
	backend := chaintest.New()
	s := newTestService(backend)
	s.SetForm(Form{Token: types.TokenEURC, Amount: "10", Secret: "x"})

	// never fetched counts as zero allowance
	needs, err := s.NeedsApproval()
	require.NoError(t, err)
	assert.True(t, needs)

	scriptAllowance(backend, big.NewInt(10_000_000)) // 10 EURC at 6 decimals
	require.NoError(t, s.RefreshAllowance(context.Background()))

	needs, err = s.NeedsApproval()
	require.NoError(t, err)
	assert.False(t, needs)

	// raising the amount flips the answer with no further fetch
	s.SetForm(Form{Token: types.TokenEURC, Amount: "10.000001", Secret: "x"})
	needs, err = s.NeedsApproval()
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestCreateLinkRefusedWithoutAllowance(t *testing.T) {
	s := newTestService(chaintest.New())
	s.SetForm(Form{Token: types.TokenEURC, Amount: "5", Secret: "x"})

	_, err := s.CreateLink(context.Background(), "https://arcflow.example/claim")
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInsufficientAllowance, types.ErrorCode(err))
}

func TestCreateLinkNative(t *testing.T) {
	backend := chaintest.New()
	s := newTestService(backend)
	s.SetForm(Form{Token: types.TokenUSDC, Amount: "2.5", Secret: "gift"})

	_, err := s.CreateLink(context.Background(), "https://arcflow.example/claim")
	require.NoError(t, err)

	submitted := backend.Submitted()
	require.Len(t, submitted, 1)
	req := submitted[0]
	assert.Equal(t, "createLink", req.Method)
	require.Len(t, req.Args, 3)
	assert.Equal(t, HashSecret("gift"), req.Args[0])
	assert.Equal(t, common.Address{}, req.Args[1]) // zero address marks native funds
	wantValue, _ := new(big.Int).SetString("2500000000000000000", 10)
	assert.Equal(t, wantValue, req.Args[2])
	assert.Equal(t, wantValue, req.Value)

	secret, err := ParseClaimURL(s.GeneratedLink())
	require.NoError(t, err)
	assert.Equal(t, "gift", secret)
	assert.Equal(t, types.ActionCreateLink, s.ConsumeConfirmed())
}

func TestCreateLinkApproveFlow(t *testing.T) {
	backend := chaintest.New()
	s := newTestService(backend)
	s.SetForm(Form{Token: types.TokenEURC, Amount: "5", Secret: "gift"})

	scriptAllowance(backend, big.NewInt(0))
	require.NoError(t, s.RefreshAllowance(context.Background()))

	// approve confirms and the refetched snapshot now covers the amount
	scriptAllowance(backend, big.NewInt(5_000_000))
	_, err := s.Approve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ActionApprove, s.ConsumeConfirmed())

	_, err = s.CreateLink(context.Background(), "https://arcflow.example/claim")
	require.NoError(t, err)

	submitted := backend.Submitted()
	require.Len(t, submitted, 2)
	assert.Equal(t, "approve", submitted[0].Method)
	assert.Equal(t, big.NewInt(5_000_000), submitted[0].Args[1])
	assert.Equal(t, "createLink", submitted[1].Method)
	assert.Nil(t, submitted[1].Value)
}

func TestCreateLinkFailurePreservesForm(t *testing.T) {
	backend := chaintest.New()
	backend.RevertNext = true
	s := newTestService(backend)

	form := Form{Token: types.TokenUSDC, Amount: "1", Secret: "gift"}
	s.SetForm(form)

	_, err := s.CreateLink(context.Background(), "https://arcflow.example/claim")
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeTxFailed, types.ErrorCode(err))

	assert.Equal(t, form, s.Form())
	assert.Empty(t, s.GeneratedLink())
	assert.Equal(t, types.ActionNone, s.ConsumeConfirmed())
}

func TestSetFormInvalidatesGeneratedLink(t *testing.T) {
	backend := chaintest.New()
	s := newTestService(backend)
	s.SetForm(Form{Token: types.TokenUSDC, Amount: "1", Secret: "gift"})

	_, err := s.CreateLink(context.Background(), "https://arcflow.example/claim")
	require.NoError(t, err)
	require.NotEmpty(t, s.GeneratedLink())

	s.SetForm(Form{Token: types.TokenUSDC, Amount: "2", Secret: "gift"})
	assert.Empty(t, s.GeneratedLink())
}

func TestClaimRequiresSecret(t *testing.T) {
	s := newTestService(chaintest.New())
	_, err := s.Claim(context.Background(), "")
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestClaimSubmitsToConnectedAccount(t *testing.T) {
	backend := chaintest.New()
	s := newTestService(backend)

	_, err := s.Claim(context.Background(), "gift")
	require.NoError(t, err)

	submitted := backend.Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, "claimLink", submitted[0].Method)
	assert.Equal(t, "gift", submitted[0].Args[0])
	assert.Equal(t, testAccount, submitted[0].Args[1])
}
