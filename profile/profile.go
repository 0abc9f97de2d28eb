// Package profile orchestrates the soulbound identity profile: minting,
// reading level, XP and badge state, and deriving display-only progress.
package profile

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arclabs/arcflow/chain"
	"github.com/arclabs/arcflow/contracts"
	"github.com/arclabs/arcflow/logger"
	"github.com/arclabs/arcflow/types"
)

// BadgeNames labels the fixed badge slots returned by the contract, in slot
// order.
var BadgeNames = []string{"Early Adopter", "Streamer", "Power User"}

// Service is the profile orchestrator.
type Service struct {
	backend chain.Backend
	runner  *chain.Runner
	cfg     types.ChainConfig
	account common.Address
	log     logger.Logger

	mu     sync.Mutex
	record *types.ProfileRecord
}

// NewService wires a profile orchestrator for one connected account.
func NewService(backend chain.Backend, watcher *chain.Watcher, account common.Address, cfg types.ChainConfig, log logger.Logger) *Service {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Service{
		backend: backend,
		runner:  chain.NewRunner(backend, watcher, log),
		cfg:     cfg,
		account: account,
		log:     log,
	}
}

// Pending returns the in-flight action, nil when idle.
func (s *Service) Pending() *types.PendingAction {
	return s.runner.Pending()
}

// ConsumeConfirmed hands out the last confirmed action kind exactly once.
func (s *Service) ConsumeConfirmed() types.ActionKind {
	return s.runner.ConsumeConfirmed()
}

// Record returns the cached profile state, nil until Refresh has run.
func (s *Service) Record() *types.ProfileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return nil
	}
	copied := *s.record
	return &copied
}

// HasProfile reads whether the account holds a profile token. The existence
// check gates the level, xp and badge reads: none of those are fetched for an
// account without a profile.
func (s *Service) HasProfile(ctx context.Context) (bool, error) {
	if s.account == (common.Address{}) {
		return false, types.NewError(types.ErrCodeValidation, "no account connected", nil)
	}
	out, err := s.backend.Call(ctx, chain.Call{
		To:     s.cfg.ProfileAddress,
		ABI:    contracts.Profile,
		Method: "balanceOf",
		Args:   []interface{}{s.account},
	})
	if err != nil {
		return false, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return false, types.NewError(types.ErrCodeRPC, "unexpected balanceOf result", nil)
	}
	return balance.Sign() > 0, nil
}

// Refresh refetches the full profile record. A missing profile clears the
// cache and returns nil without error.
func (s *Service) Refresh(ctx context.Context) (*types.ProfileRecord, error) {
	has, err := s.HasProfile(ctx)
	if err != nil {
		return nil, err
	}
	if !has {
		s.mu.Lock()
		s.record = nil
		s.mu.Unlock()
		return nil, nil
	}

	results := s.backend.BatchCall(ctx, []chain.Call{
		{To: s.cfg.ProfileAddress, ABI: contracts.Profile, Method: "level", Args: []interface{}{s.account}},
		{To: s.cfg.ProfileAddress, ABI: contracts.Profile, Method: "xp", Args: []interface{}{s.account}},
		{To: s.cfg.ProfileAddress, ABI: contracts.Profile, Method: "badges", Args: []interface{}{s.account}},
	})
	for _, res := range results {
		if !res.Ok() {
			return nil, res.Err
		}
	}

	level, ok := results[0].Values[0].(*big.Int)
	if !ok {
		return nil, types.NewError(types.ErrCodeRPC, "unexpected level result", nil)
	}
	xp, ok := results[1].Values[0].(*big.Int)
	if !ok {
		return nil, types.NewError(types.ErrCodeRPC, "unexpected xp result", nil)
	}
	badges, ok := decodeBadges(results[2].Values[0])
	if !ok {
		return nil, types.NewError(types.ErrCodeRPC, "unexpected badges result", nil)
	}

	record := &types.ProfileRecord{
		Owner:  s.account,
		Level:  level,
		XP:     xp,
		Badges: badges,
	}
	s.mu.Lock()
	s.record = record
	s.mu.Unlock()
	copied := *record
	return &copied, nil
}

// MintProfile mints the soulbound token and refetches the record once the
// transaction confirms.
func (s *Service) MintProfile(ctx context.Context) (*chain.Receipt, error) {
	has, err := s.HasProfile(ctx)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, types.NewError(types.ErrCodeValidation, "account already has a profile", nil)
	}

	receipt, err := s.runner.Run(ctx, types.ActionMintProfile, chain.TxRequest{
		To:     s.cfg.ProfileAddress,
		ABI:    contracts.Profile,
		Method: "mintProfile",
	})
	if err != nil {
		return receipt, err
	}
	if _, err := s.Refresh(ctx); err != nil {
		s.log.Warn("profile refetch failed after mint", map[string]any{"err": err.Error()})
	}
	return receipt, nil
}

func decodeBadges(raw interface{}) ([]bool, bool) {
	switch v := raw.(type) {
	case []bool:
		return v, true
	case [3]bool:
		return v[:], true
	default:
		return nil, false
	}
}
