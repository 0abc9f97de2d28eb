// Package stream orchestrates the streaming-payments flows: creating a
// stream, polling its claimable balance, withdrawing, and listing recent
// stream history for the connected account.
package stream

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

// Form is the create-stream input. Amount is denominated in the native
// token; streams attach the deposit as transaction value.
type Form struct {
	Recipient string `validate:"required,eth_addr_hex"`
	Amount    string `validate:"required"`
	Duration  string `validate:"required"`
}

// Service is the stream orchestrator. One pending action at a time; form
// state survives failures so the user can retry without retyping.
type Service struct {
	backend chain.Backend
	runner  *chain.Runner
	cfg     types.ChainConfig
	tokens  *types.Registry
	account common.Address
	log     logger.Logger

	mu   sync.Mutex
	form Form
}

// NewService wires a stream orchestrator for one connected account.
func NewService(backend chain.Backend, watcher *chain.Watcher, account common.Address, cfg types.ChainConfig, tokens *types.Registry, log logger.Logger) *Service {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Service{
		backend: backend,
		runner:  chain.NewRunner(backend, watcher, log),
		cfg:     cfg,
		tokens:  tokens,
		account: account,
		log:     log,
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

func (s *Service) native() types.Token {
	t, _ := s.tokens.BySymbol(types.TokenUSDC)
	return t
}

// CreateStream validates the current form and submits createStream with the
// deposit attached as value. On confirmation the one-shot fields are
// cleared; on failure every field is preserved for retry.
func (s *Service) CreateStream(ctx context.Context) (*chain.Receipt, error) {
	// validate against the field values as they are now, not as they were
	// when the user first touched the form
	form := s.Form()
	if err := utils.ValidateStruct(form); err != nil {
		return nil, err
	}
	deposit, err := utils.ParseAmount(form.Amount, s.native())
	if err != nil {
		return nil, err
	}
	duration, err := utils.ParseSeconds(form.Duration)
	if err != nil {
		return nil, err
	}

	receipt, err := s.runner.Run(ctx, types.ActionCreateStream, chain.TxRequest{
		To:     s.cfg.StreamAddress,
		ABI:    contracts.Stream,
		Method: "createStream",
		Args:   []interface{}{common.HexToAddress(form.Recipient), duration},
		Value:  deposit,
	})
	if err != nil {
		return receipt, err
	}

	s.mu.Lock()
	s.form = Form{}
	s.mu.Unlock()
	return receipt, nil
}

// Withdraw submits withdrawFromStream for the given stream id.
func (s *Service) Withdraw(ctx context.Context, streamID *big.Int) (*chain.Receipt, error) {
	if streamID == nil || streamID.Sign() < 0 {
		return nil, types.NewError(types.ErrCodeValidation, "stream id is required", nil)
	}
	return s.runner.Run(ctx, types.ActionWithdraw, chain.TxRequest{
		To:     s.cfg.StreamAddress,
		ABI:    contracts.Stream,
		Method: "withdrawFromStream",
		Args:   []interface{}{streamID},
	})
}

// ClaimableBalance reads the currently withdrawable amount of a stream. The
// read does not fire without a stream id.
func (s *Service) ClaimableBalance(ctx context.Context, streamID *big.Int) (*big.Int, error) {
	if streamID == nil || streamID.Sign() < 0 {
		return nil, types.NewError(types.ErrCodeValidation, "stream id is required", nil)
	}
	values, err := s.backend.Call(ctx, chain.Call{
		To:     s.cfg.StreamAddress,
		ABI:    contracts.Stream,
		Method: "balanceOf",
		Args:   []interface{}{streamID},
	})
	if err != nil {
		return nil, err
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, types.NewError(types.ErrCodeRPC, "unexpected balanceOf result type", nil)
	}
	return balance, nil
}

// WatchClaimable refetches the claimable balance once per interval and
// reports each result to fn until the returned poller is stopped. The caller
// owns the poller and must stop it when the stream id is cleared or the view
// goes away. No poller starts without a valid stream id: a nil or negative
// id returns nil, the same precondition ClaimableBalance enforces.
func (s *Service) WatchClaimable(streamID *big.Int, interval time.Duration, fn func(balance *big.Int, err error)) *chain.Poller {
	if streamID == nil || streamID.Sign() < 0 {
		return nil
	}
	id := new(big.Int).Set(streamID)
	return chain.NewPoller(interval, func(ctx context.Context) {
		fn(s.ClaimableBalance(ctx, id))
	})
}
