// Package dca orchestrates dollar-cost-averaging vaults: funding a position
// through the approve flow, executing interval-gated trades and listing the
// caller's positions.
package dca

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arclabs/arcflow/chain"
	"github.com/arclabs/arcflow/contracts"
	"github.com/arclabs/arcflow/logger"
	"github.com/arclabs/arcflow/types"
	"github.com/arclabs/arcflow/utils"
)

// Fixed gas-limit overrides for the vault contract; default estimation
// undershoots its multi-step transfers.
const (
	approveGasLimit = 2_000_000
	createGasLimit  = 2_000_000
	executeGasLimit = 3_000_000
)

// Form is the create-position input. TokenIn selects the funding stable
// token; trades always buy WETH.
type Form struct {
	TokenIn      types.TokenSymbol `validate:"required"`
	TotalDeposit string            `validate:"required"`
	BuyAmount    string            `validate:"required"`
	Interval     string            `validate:"required"`
}

// Service is the DCA orchestrator.
type Service struct {
	backend   chain.Backend
	runner    *chain.Runner
	allowance *chain.AllowanceTracker
	cfg       types.ChainConfig
	tokens    *types.Registry
	account   common.Address
	log       logger.Logger

	mu             sync.Mutex
	form           Form
	lastExecutedID *big.Int
}

// NewService wires a DCA orchestrator for one connected account.
func NewService(backend chain.Backend, watcher *chain.Watcher, account common.Address, cfg types.ChainConfig, tokens *types.Registry, log logger.Logger) *Service {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Service{
		backend:   backend,
		runner:    chain.NewRunner(backend, watcher, log),
		allowance: chain.NewAllowanceTracker(backend, account, cfg.DCAAddress),
		cfg:       cfg,
		tokens:    tokens,
		account:   account,
		log:       log,
		form:      Form{TokenIn: types.TokenUSDCe, Interval: "60"},
	}
}

// Form returns the current form state.
func (s *Service) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetForm replaces the form state.
func (s *Service) SetForm(f Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = f
}

// Pending returns the in-flight action, nil when idle.
func (s *Service) Pending() *types.PendingAction {
	return s.runner.Pending()
}

// ConsumeConfirmed hands out the last confirmed action kind exactly once.
func (s *Service) ConsumeConfirmed() types.ActionKind {
	return s.runner.ConsumeConfirmed()
}

// LastExecutedID returns the position id of the most recent execute, nil
// when none ran this session. Display only.
func (s *Service) LastExecutedID() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastExecutedID == nil {
		return nil
	}
	return new(big.Int).Set(s.lastExecutedID)
}

func (s *Service) fundingToken() (types.Token, error) {
	sym := s.Form().TokenIn
	if sym == "" {
		sym = types.TokenUSDCe
	}
	token, ok := s.tokens.BySymbol(sym)
	if !ok || token.IsNative() {
		return types.Token{}, types.NewError(types.ErrCodeUnknownToken,
			"vaults are funded with an ERC-20 stable token, got "+string(sym), nil)
	}
	return token, nil
}

// NeedsApproval reports whether the current deposit requires an approve
// first, from the cached allowance snapshot with no network round trip.
func (s *Service) NeedsApproval() (bool, error) {
	token, err := s.fundingToken()
	if err != nil {
		return false, err
	}
	deposit, err := utils.ParseAmount(s.Form().TotalDeposit, token)
	if err != nil {
		return false, err
	}
	return s.allowance.NeedsApproval(token, deposit), nil
}

// RefreshAllowance refetches the allowance snapshot for the funding token.
func (s *Service) RefreshAllowance(ctx context.Context) error {
	token, err := s.fundingToken()
	if err != nil {
		return err
	}
	_, err = s.allowance.Refresh(ctx, token.Address)
	return err
}

// Approve submits an exact-amount approve for the current deposit and
// refetches the allowance snapshot once it confirms.
func (s *Service) Approve(ctx context.Context) (*chain.Receipt, error) {
	token, err := s.fundingToken()
	if err != nil {
		return nil, err
	}
	deposit, err := utils.ParseAmount(s.Form().TotalDeposit, token)
	if err != nil {
		return nil, err
	}

	receipt, err := s.runner.Run(ctx, types.ActionApprove,
		s.allowance.ApproveRequest(token.Address, deposit, approveGasLimit))
	if err != nil {
		return receipt, err
	}
	if _, err := s.allowance.Refresh(ctx, token.Address); err != nil {
		s.log.Warn("allowance refetch failed after approve", map[string]any{"err": err.Error()})
	}
	return receipt, nil
}

// CreatePosition validates the current form and opens a vault swapping the
// funding token into WETH. On confirmation the one-shot amount fields are
// cleared; the token selection and interval are kept for the next vault.
func (s *Service) CreatePosition(ctx context.Context) (*chain.Receipt, error) {
	form := s.Form()
	if err := utils.ValidateStruct(form); err != nil {
		return nil, err
	}
	token, err := s.fundingToken()
	if err != nil {
		return nil, err
	}
	deposit, err := utils.ParseAmount(form.TotalDeposit, token)
	if err != nil {
		return nil, err
	}
	buyAmount, err := utils.ParseAmount(form.BuyAmount, token)
	if err != nil {
		return nil, err
	}
	interval, err := utils.ParseSeconds(form.Interval)
	if err != nil {
		return nil, err
	}
	if s.allowance.NeedsApproval(token, deposit) {
		return nil, types.NewError(types.ErrCodeInsufficientAllowance,
			"approve "+form.TotalDeposit+" "+string(token.Symbol)+" first", nil)
	}

	weth, ok := s.tokens.BySymbol(types.TokenWETH)
	if !ok {
		return nil, types.NewError(types.ErrCodeUnknownToken, "WETH not registered", nil)
	}

	receipt, err := s.runner.Run(ctx, types.ActionCreatePosition, chain.TxRequest{
		To:       s.cfg.DCAAddress,
		ABI:      contracts.DCA,
		Method:   "createPosition",
		Args:     []interface{}{token.Address, weth.Address, buyAmount, interval, deposit},
		GasLimit: createGasLimit,
	})
	if err != nil {
		return receipt, err
	}

	if _, err := s.allowance.Refresh(ctx, token.Address); err != nil {
		s.log.Warn("allowance refetch failed after create", map[string]any{"err": err.Error()})
	}
	s.mu.Lock()
	s.form.TotalDeposit = ""
	s.form.BuyAmount = ""
	s.mu.Unlock()
	return receipt, nil
}

// Execute runs one trade of a position. Refused locally while the interval
// gate is closed and permanently once the vault can no longer fund a full
// trade, matching the disabled execute button.
func (s *Service) Execute(ctx context.Context, pos types.PositionRecord, now time.Time) (*chain.Receipt, error) {
	if pos.Finished() {
		return nil, types.NewError(types.ErrCodeValidation, "vault is empty, position finished", nil)
	}
	if !pos.IsReady(now) {
		return nil, types.NewError(types.ErrCodeValidation, "interval has not elapsed", nil)
	}

	receipt, err := s.runner.Run(ctx, types.ActionExecutePosition, chain.TxRequest{
		To:       s.cfg.DCAAddress,
		ABI:      contracts.DCA,
		Method:   "executeDCA",
		Args:     []interface{}{pos.ID},
		GasLimit: executeGasLimit,
	})
	if err != nil {
		return receipt, err
	}

	s.mu.Lock()
	s.lastExecutedID = new(big.Int).Set(pos.ID)
	s.mu.Unlock()
	return receipt, nil
}
