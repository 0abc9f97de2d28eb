package profile

import (
	"math/big"

	"github.com/arclabs/arcflow/types"
)

// UnlockTier is a display-only milestone derived from total XP. Tiers never
// gate any operation.
type UnlockTier struct {
	Name      string
	XPNeeded  int64
	Unlocked  bool
	XPMissing int64
}

// xpPerLevel is the flat level-up cost baked into the contract.
const xpPerLevel = 100

// XPForNextLevel returns the total XP needed to reach the next level.
func XPForNextLevel(record types.ProfileRecord) *big.Int {
	if record.Level == nil {
		return big.NewInt(xpPerLevel)
	}
	return new(big.Int).Mul(record.Level, big.NewInt(xpPerLevel))
}

// XPProgress returns the percentage of the way to the next level, clamped to
// [0, 100].
func XPProgress(record types.ProfileRecord) int {
	needed := XPForNextLevel(record)
	if record.XP == nil || needed.Sign() <= 0 {
		return 0
	}
	pct := new(big.Int).Mul(record.XP, big.NewInt(100))
	pct.Div(pct, needed)
	if pct.Cmp(big.NewInt(100)) > 0 {
		return 100
	}
	return int(pct.Int64())
}

// DemoUnlocks derives the milestone tiers for a record. A tier counts as
// unlocked when the contract already granted its badge or the XP threshold
// is met. Never consulted by any orchestrator.
func DemoUnlocks(record types.ProfileRecord) []UnlockTier {
	xp := int64(0)
	if record.XP != nil {
		xp = record.XP.Int64()
	}
	badge := func(slot int) bool {
		return slot < len(record.Badges) && record.Badges[slot]
	}
	// badge slot order on the contract does not match tier order
	tiers := []UnlockTier{
		{Name: "Linker", XPNeeded: 20, Unlocked: badge(1)},
		{Name: "Streamer", XPNeeded: 50, Unlocked: badge(0)},
		{Name: "Investor", XPNeeded: 100, Unlocked: badge(2)},
	}
	for i := range tiers {
		tiers[i].Unlocked = tiers[i].Unlocked || xp >= tiers[i].XPNeeded
		if !tiers[i].Unlocked {
			tiers[i].XPMissing = tiers[i].XPNeeded - xp
		}
	}
	return tiers
}
