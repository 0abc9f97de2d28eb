// Package types holds the client-side data model: chain and token
// configuration, projections of contract state, the pending-action lifecycle
// record and the library error taxonomy.
//
// All records here are eventually-consistent mirrors of ledger state. They
// are only ever replaced by a refetch, never mutated in place.
package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ActionKind tags a state-mutating call by what the user asked for. The tag
// is consumed exactly once when the action's transaction confirms, so a later
// unrelated confirmation can never replay the wrong side effect.
type ActionKind string

const (
	ActionNone            ActionKind = ""
	ActionApprove         ActionKind = "approve"
	ActionCreateStream    ActionKind = "create_stream"
	ActionWithdraw        ActionKind = "withdraw"
	ActionCreateLink      ActionKind = "create_link"
	ActionClaimLink       ActionKind = "claim_link"
	ActionCreatePosition  ActionKind = "create_position"
	ActionExecutePosition ActionKind = "execute_position"
	ActionMintProfile     ActionKind = "mint_profile"
)

// PendingAction records the single in-flight submission of an orchestrator.
// At most one exists per orchestrator instance at a time; a second submission
// while one is open must be rejected with ErrCodeActionInFlight.
type PendingAction struct {
	Kind        ActionKind
	TxHash      common.Hash
	SubmittedAt time.Time
}

// AllowanceSnapshot is the last-fetched ERC-20 allowance granted by Owner to
// Spender. A failed approve leaves it stale rather than clearing it; only a
// successful refetch replaces it.
type AllowanceSnapshot struct {
	Owner     common.Address
	Spender   common.Address
	Token     common.Address
	Amount    *big.Int
	FetchedAt time.Time
}

// Covers reports whether the snapshot authorizes spending amount.
func (a AllowanceSnapshot) Covers(amount *big.Int) bool {
	if a.Amount == nil {
		return false
	}
	return a.Amount.Cmp(amount) >= 0
}

// StreamRecord mirrors a streaming-payment creation.
type StreamRecord struct {
	StreamID  *big.Int
	Sender    common.Address
	Recipient common.Address
	Deposit   *big.Int
	Token     common.Address
	Duration  *big.Int
	StartTime *big.Int // absent on early contract versions
}

// LinkRecord mirrors a claimable payment link commitment.
type LinkRecord struct {
	Creator    common.Address
	SecretHash common.Hash
	Token      common.Address
	Amount     *big.Int
}

// PositionRecord mirrors a DCA vault position.
type PositionRecord struct {
	ID             *big.Int
	Owner          common.Address
	TokenIn        common.Address
	TokenOut       common.Address
	AmountPerTrade *big.Int
	Interval       *big.Int
	LastExecution  *big.Int
	TotalBalance   *big.Int
	IsActive       bool
}

// NextExecution returns the unix time at which the position becomes
// executable again.
func (p PositionRecord) NextExecution() int64 {
	return p.LastExecution.Int64() + p.Interval.Int64()
}

// IsReady reports whether the interval gate has elapsed at the given time.
// Monotonic in now: once true it stays true until an execution resets
// LastExecution.
func (p PositionRecord) IsReady(now time.Time) bool {
	return p.NextExecution() <= now.Unix()
}

// TimeLeft returns the seconds until the position is executable, clamped at
// zero.
func (p PositionRecord) TimeLeft(now time.Time) int64 {
	left := p.NextExecution() - now.Unix()
	if left < 0 {
		return 0
	}
	return left
}

// Finished reports whether the vault can no longer fund a full trade.
// A finished position stays finished: re-executing would not produce a new
// trade even where the contract would technically accept the call.
func (p PositionRecord) Finished() bool {
	return p.TotalBalance.Cmp(p.AmountPerTrade) < 0
}

// ProfileRecord mirrors the soulbound profile contract state for one owner.
type ProfileRecord struct {
	Owner  common.Address
	Level  *big.Int
	XP     *big.Int
	Badges []bool
}
