package entities

// LevelCompletion marks a secret-realm level as cleared
type LevelCompletion struct {
	LevelID     string `json:"level_id"`
	CompletedAt int64  `json:"completed_at"`
}

// ChallengeCompletion marks a single challenge as cleared
type ChallengeCompletion struct {
	LevelID     string `json:"level_id"`
	ChallengeID string `json:"challenge_id"`
	CompletedAt int64  `json:"completed_at"`
}

// RealmProgress is the per-(player, realm) secret-realm progress record
type RealmProgress struct {
	PlayerID            string                `json:"player_id"`
	RealmID             string                `json:"realm_id"`
	CompletedLevels     []LevelCompletion     `json:"completed_levels,omitempty"`
	CompletedChallenges []ChallengeCompletion `json:"completed_challenges,omitempty"`
	CurrentLevelID      string                `json:"current_level_id,omitempty"`
	LastEnteredAt       int64                 `json:"last_entered_at"`
	TotalAttempts       int                   `json:"total_attempts"`
	RewardClaimed       bool                  `json:"reward_claimed"`
	CreatedAt           int64                 `json:"created_at"`
	UpdatedAt           int64                 `json:"updated_at"`
}

// LevelCompleted reports whether the given level has been cleared
func (p *RealmProgress) LevelCompleted(levelID string) bool {
	for _, l := range p.CompletedLevels {
		if l.LevelID == levelID {
			return true
		}
	}
	return false
}

// ChallengeCompleted reports whether the given challenge has been cleared
func (p *RealmProgress) ChallengeCompleted(levelID, challengeID string) bool {
	for _, c := range p.CompletedChallenges {
		if c.LevelID == levelID && c.ChallengeID == challengeID {
			return true
		}
	}
	return false
}
