package secretrealm

import (
	"github.com/mistwood/cultivation-api/internal/catalog"
	"github.com/mistwood/cultivation-api/internal/entities"
)

// ListRealmsInput defines the input for listing secret realms
type ListRealmsInput struct{}

// ListRealmsOutput defines the output for listing secret realms
type ListRealmsOutput struct {
	Realms []*catalog.SecretRealm
}

// GetRealmInput defines the input for getting one secret realm
type GetRealmInput struct {
	RealmID string
}

// GetRealmOutput defines the output for getting one secret realm
type GetRealmOutput struct {
	Realm *catalog.SecretRealm
}

// GetProgressInput defines the input for reading realm progress
type GetProgressInput struct {
	UserID  string
	RealmID string
}

// GetProgressOutput defines the output for reading realm progress
type GetProgressOutput struct {
	Progress *entities.RealmProgress
}

// EnterRealmInput defines the input for entering a secret realm
type EnterRealmInput struct {
	UserID  string
	RealmID string
}

// EnterRealmOutput defines the output for entering a secret realm
type EnterRealmOutput struct {
	Realm           *catalog.SecretRealm
	Progress        *entities.RealmProgress
	RemainingEnergy int
}

// ChallengeLevelInput defines the input for a level challenge
type ChallengeLevelInput struct {
	UserID      string
	RealmID     string
	LevelID     string
	ChallengeID string
	BeastIDs    []string
}

// GrantedReward is one realized entry from the challenge reward table
type GrantedReward struct {
	Type     string
	Name     string
	Quantity int
}

// ChallengeLevelOutput reports the challenge draw. Experience is always
// granted; rewards only on success.
type ChallengeLevelOutput struct {
	Success         bool
	Roll            float64
	SuccessRate     float64
	Experience      int
	BeastExperience int
	Rewards         []GrantedReward
	LevelCompleted  bool
	Character       *entities.Character
	Progress        *entities.RealmProgress
}

// ClaimRealmRewardInput defines the input for claiming the aggregate
// reward
type ClaimRealmRewardInput struct {
	UserID  string
	RealmID string
}

// ClaimRealmRewardOutput defines the output for claiming the aggregate
// reward
type ClaimRealmRewardOutput struct {
	Reward    catalog.AggregateReward
	Character *entities.Character
	Progress  *entities.RealmProgress
}
