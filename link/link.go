// Package link orchestrates claimable payment links: committing a hashed
// secret with locked funds, and claiming by revealing the secret.
//
// The raw secret never leaves the client except inside the shareable URL and
// the claim transaction itself; only its hash goes on chain at creation.
package link

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/arclabs/arcflow/chain"
	"github.com/arclabs/arcflow/contracts"
	"github.com/arclabs/arcflow/logger"
	"github.com/arclabs/arcflow/types"
	"github.com/arclabs/arcflow/utils"
)

// HashSecret commits a secret string the same way the contract recomputes it
// from the claim: keccak256 over the raw UTF-8 bytes, no length prefix and no
// type coercion. The two sides must agree byte for byte or claims fail.
func HashSecret(secret string) common.Hash {
	return crypto.Keccak256Hash([]byte(secret))
}

// Form is the create-link input. Token selects the funding side: native
// USDC attaches value with the zero address as token; EURC goes through the
// ERC-20 approve flow.
type Form struct {
	Token  types.TokenSymbol
	Amount string `validate:"required"`
	Secret string `validate:"required"`
}

// Service is the payment-link orchestrator.
type Service struct {
	backend   chain.Backend
	runner    *chain.Runner
	allowance *chain.AllowanceTracker
	cfg       types.ChainConfig
	tokens    *types.Registry
	account   common.Address
	log       logger.Logger

	mu            sync.Mutex
	form          Form
	generatedLink string
}

// NewService wires a link orchestrator for one connected account.
func NewService(backend chain.Backend, watcher *chain.Watcher, account common.Address, cfg types.ChainConfig, tokens *types.Registry, log logger.Logger) *Service {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Service{
		backend:   backend,
		runner:    chain.NewRunner(backend, watcher, log),
		allowance: chain.NewAllowanceTracker(backend, account, cfg.LinkAddress),
		cfg:       cfg,
		tokens:    tokens,
		account:   account,
		log:       log,
	}
}

// Form returns the current form state.
func (s *Service) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetForm replaces the form state. Any previously generated claim link is
// invalidated: it described a commitment for the old field values.
func (s *Service) SetForm(f Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = f
	s.generatedLink = ""
}

// GeneratedLink returns the claim URL produced by the last confirmed create,
// empty until then or after any field change.
func (s *Service) GeneratedLink() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generatedLink
}

// Pending returns the in-flight action, nil when idle.
func (s *Service) Pending() *types.PendingAction {
	return s.runner.Pending()
}

// ConsumeConfirmed hands out the last confirmed action kind exactly once.
func (s *Service) ConsumeConfirmed() types.ActionKind {
	return s.runner.ConsumeConfirmed()
}

func (s *Service) fundingToken() (types.Token, error) {
	form := s.Form()
	sym := form.Token
	if sym == "" {
		sym = types.TokenUSDC
	}
	token, ok := s.tokens.BySymbol(sym)
	if !ok {
		return types.Token{}, types.NewError(types.ErrCodeUnknownToken, "unrecognized token "+string(sym), nil)
	}
	return token, nil
}

// NeedsApproval reports whether the current form amount requires an ERC-20
// approve before createLink. Pure in the cached allowance snapshot: amount
// edits recompute it without a network round trip.
func (s *Service) NeedsApproval() (bool, error) {
	token, err := s.fundingToken()
	if err != nil {
		return false, err
	}
	if token.IsNative() {
		return false, nil
	}
	amount, err := utils.ParseAmount(s.Form().Amount, token)
	if err != nil {
		return false, err
	}
	return s.allowance.NeedsApproval(token, amount), nil
}

// RefreshAllowance refetches the allowance snapshot for the current token.
func (s *Service) RefreshAllowance(ctx context.Context) error {
	token, err := s.fundingToken()
	if err != nil {
		return err
	}
	if token.IsNative() {
		return nil
	}
	_, err = s.allowance.Refresh(ctx, token.Address)
	return err
}

// Approve submits an exact-amount approve for the current form amount and
// refetches the allowance snapshot once it confirms.
func (s *Service) Approve(ctx context.Context) (*chain.Receipt, error) {
	token, err := s.fundingToken()
	if err != nil {
		return nil, err
	}
	if token.IsNative() {
		return nil, types.NewError(types.ErrCodeValidation, "native token needs no approval", nil)
	}
	amount, err := utils.ParseAmount(s.Form().Amount, token)
	if err != nil {
		return nil, err
	}

	receipt, err := s.runner.Run(ctx, types.ActionApprove, s.allowance.ApproveRequest(token.Address, amount, 0))
	if err != nil {
		return receipt, err
	}
	if _, err := s.allowance.Refresh(ctx, token.Address); err != nil {
		s.log.Warn("allowance refetch failed after approve", map[string]any{"err": err.Error()})
	}
	return receipt, nil
}

// CreateLink validates the current form, commits the hashed secret with the
// locked amount and, once confirmed, produces the shareable claim URL. The
// allowance invariant holds: an ERC-20 create is refused while the snapshot
// does not cover the amount.
func (s *Service) CreateLink(ctx context.Context, claimBaseURL string) (*chain.Receipt, error) {
	form := s.Form()
	if err := utils.ValidateStruct(form); err != nil {
		return nil, err
	}
	token, err := s.fundingToken()
	if err != nil {
		return nil, err
	}
	amount, err := utils.ParseAmount(form.Amount, token)
	if err != nil {
		return nil, err
	}
	if s.allowance.NeedsApproval(token, amount) {
		return nil, types.NewError(types.ErrCodeInsufficientAllowance,
			"approve "+form.Amount+" "+string(token.Symbol)+" first", nil)
	}

	tokenArg := token.Address // zero address tells the contract funds are native
	var value *big.Int
	if token.IsNative() {
		value = amount
	}

	receipt, err := s.runner.Run(ctx, types.ActionCreateLink, chain.TxRequest{
		To:     s.cfg.LinkAddress,
		ABI:    contracts.Link,
		Method: "createLink",
		Args:   []interface{}{HashSecret(form.Secret), tokenArg, amount},
		Value:  value,
	})
	if err != nil {
		return receipt, err
	}

	if !token.IsNative() {
		if _, err := s.allowance.Refresh(ctx, token.Address); err != nil {
			s.log.Warn("allowance refetch failed after create", map[string]any{"err": err.Error()})
		}
	}

	url, err := BuildClaimURL(claimBaseURL, form.Secret)
	if err != nil {
		return receipt, err
	}
	s.mu.Lock()
	s.generatedLink = url
	s.mu.Unlock()
	return receipt, nil
}

// Claim reveals a secret to unlock a link's funds to the connected account.
func (s *Service) Claim(ctx context.Context, secret string) (*chain.Receipt, error) {
	if secret == "" {
		return nil, types.NewError(types.ErrCodeValidation, "secret is required", nil)
	}
	if s.account == (common.Address{}) {
		return nil, types.NewError(types.ErrCodeValidation, "no account connected", nil)
	}
	return s.runner.Run(ctx, types.ActionClaimLink, chain.TxRequest{
		To:     s.cfg.LinkAddress,
		ABI:    contracts.Link,
		Method: "claimLink",
		Args:   []interface{}{secret, s.account},
	})
}
