package life

// Reward shaping for the partially observable variant. The per-turn bonus
// alone should be enough; the action bonuses steer short-horizon planners
// toward life-like behavior when they cannot see far enough ahead to fear
// death directly.
const (
	DeathPenalty = 1_000_000

	AliveReward          = 1
	MoveRewardPenalty    = 1
	ReproduceRewardBonus = 10
	EatRewardBonus       = 10
	EatRewardPenalty     = 10
)
