package beast

import "github.com/mistwood/cultivation-api/internal/entities"

// CaptureBeastInput defines the input for a capture attempt
type CaptureBeastInput struct {
	UserID     string
	TemplateID string
	Location   string
}

// CaptureBeastOutput reports the draw and rate for every attempt.
// Beast and Character are set only when Success is true.
type CaptureBeastOutput struct {
	Success          bool
	Roll             float64
	SuccessRate      float64
	Beast            *entities.PlayerBeast
	ExperienceGained int
	Character        *entities.Character
}

// TrainBeastInput defines the input for a training session
type TrainBeastInput struct {
	UserID       string
	BeastID      string
	TrainingType string
}

// TrainBeastOutput defines the output for a training session
type TrainBeastOutput struct {
	Beast        *entities.PlayerBeast
	TrainingType string
	StatGain     int
	LevelsGained int
}

// FeedBeastInput defines the input for feeding
type FeedBeastInput struct {
	UserID  string
	BeastID string
	FoodID  string
}

// FeedBeastOutput defines the output for feeding
type FeedBeastOutput struct {
	Beast          *entities.PlayerBeast
	LoyaltyGain    int
	ExperienceGain int
	LevelsGained   int
}

// EvolveBeastInput defines the input for evolution
type EvolveBeastInput struct {
	UserID  string
	BeastID string
}

// EvolveBeastOutput defines the output for evolution
type EvolveBeastOutput struct {
	Beast     *entities.PlayerBeast
	Stage     int
	StageName string
	NewSkills []string
}

// DeployBeastInput defines the input for deploying to a board position
type DeployBeastInput struct {
	UserID   string
	BeastID  string
	Position int
}

// DeployBeastOutput defines the output for deployment. Displaced is the
// beast that previously held the position, if any.
type DeployBeastOutput struct {
	Beast     *entities.PlayerBeast
	Displaced *entities.PlayerBeast
}

// UndeployBeastInput defines the input for undeploying
type UndeployBeastInput struct {
	UserID  string
	BeastID string
}

// UndeployBeastOutput defines the output for undeploying
type UndeployBeastOutput struct {
	Beast *entities.PlayerBeast
}

// SendExpeditionInput defines the input for dispatching an expedition
type SendExpeditionInput struct {
	UserID        string
	BeastID       string
	Type          string
	DurationHours int
}

// SendExpeditionOutput defines the output for dispatching an expedition
type SendExpeditionOutput struct {
	Beast      *entities.PlayerBeast
	Expedition *entities.Expedition
}

// ExpeditionRewards is the realized reward set of a finished expedition
type ExpeditionRewards struct {
	Gold            int
	SpiritStones    int
	Experience      int
	BeastExperience int
	Items           []string
}

// CompleteExpeditionInput defines the input for resolving an expedition
type CompleteExpeditionInput struct {
	UserID  string
	BeastID string
}

// CompleteExpeditionOutput reports the resolution draw. Rewards and
// Character are set only when Success is true.
type CompleteExpeditionOutput struct {
	Success     bool
	Roll        float64
	SuccessRate float64
	Rewards     *ExpeditionRewards
	Beast       *entities.PlayerBeast
	Character   *entities.Character
}

// PairBeastsInput defines the input for pairing two beasts
type PairBeastsInput struct {
	UserID        string
	FirstBeastID  string
	SecondBeastID string
}

// PairBeastsOutput defines the output for pairing. The same boosts
// apply to both beasts. NewSkill is non-nil when the rare combined
// skill was granted.
type PairBeastsOutput struct {
	AttackBoost  int
	DefenseBoost int
	SpeedBoost   int
	NewSkill     *entities.LearnedSkill
	First        *entities.PlayerBeast
	Second       *entities.PlayerBeast
}

// RenameBeastInput defines the input for renaming
type RenameBeastInput struct {
	UserID   string
	BeastID  string
	Nickname string
}

// RenameBeastOutput defines the output for renaming
type RenameBeastOutput struct {
	Beast *entities.PlayerBeast
}

// ReleaseBeastInput defines the input for releasing a beast back to
// the wild
type ReleaseBeastInput struct {
	UserID  string
	BeastID string
}

// ReleaseBeastOutput defines the output for releasing
type ReleaseBeastOutput struct{}

// ListBeastsInput defines the input for listing a user's beasts
type ListBeastsInput struct {
	UserID string
}

// ListBeastsOutput defines the output for listing a user's beasts
type ListBeastsOutput struct {
	Beasts []*entities.PlayerBeast
}

// GetBeastInput defines the input for getting one beast
type GetBeastInput struct {
	UserID  string
	BeastID string
}

// GetBeastOutput defines the output for getting one beast
type GetBeastOutput struct {
	Beast *entities.PlayerBeast
}

// ListDeployedInput defines the input for the deployment board view
type ListDeployedInput struct {
	UserID string
}

// ListDeployedOutput lists deployed beasts ordered by position
type ListDeployedOutput struct {
	Beasts []*entities.PlayerBeast
}
