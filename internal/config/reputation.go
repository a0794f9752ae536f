package config

// Reputation gates: the minimum ReputationPoints needed to unlock an action.
// Fixed thresholds, consumed by the moderation engine and the thread/poll
// handlers; not derived from anything.
const (
	PostLinkOrImage    = 10
	CreatePoll         = 50
	CreateLoungeThread = 200
	Downvote           = 100
	VIPLoungeAccess    = 500
)

// Badge thresholds.
const (
	EarlyAdopterCount   = 100 // user id at or below this earns the badge
	TopContributorRep   = 1000
	HelpfulHandComments = 50
)
