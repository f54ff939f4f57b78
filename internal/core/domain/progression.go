package domain

import "time"

// XP rewards for progression events.
const (
	XPRewardContribution = 20
	XPRewardCompletion   = 50
)

// Reasons recorded on the XP ledger.
const (
	XPReasonContribution = "contribution"
	XPReasonCompletion   = "completion"
)

// CalculateLevel derives a level from a total XP amount.
//
// Level 0 holds while xp < 100. Each further level requires crossing a
// threshold that grows by an increment which itself grows by 50 per level, so
// the thresholds run 100, 250, 450, 700, 1000 and so on. A large XP lump can cross
// several thresholds at once; the loop runs until xp falls short.
func CalculateLevel(xp int) int {
	level := 0
	needed := 100
	increment := 100
	for xp >= needed {
		level++
		increment += 50
		needed += increment
	}
	return level
}

// CanAccess reports whether a user at the given level may read a book of the
// given difficulty. Approval is checked separately by the caller.
func CanAccess(level, difficulty int) bool {
	return level >= difficulty
}

// XPEvent is one entry in the append-only XP audit ledger.
type XPEvent struct {
	UserID     string
	BookID     string
	Delta      int
	Reason     string
	OccurredAt time.Time
}
