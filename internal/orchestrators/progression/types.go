package progression

import "github.com/mistwood/cultivation-api/internal/entities"

// StartCultivationInput defines the input for starting a session
type StartCultivationInput struct {
	UserID      string
	TechniqueID string
	Location    string
}

// StartCultivationOutput defines the output for starting a session
type StartCultivationOutput struct {
	Session *entities.Cultivation
}

// EndCultivationInput defines the input for ending a session
type EndCultivationInput struct {
	UserID string
}

// EndCultivationOutput defines the output for ending a session
type EndCultivationOutput struct {
	GainedExperience int
	SpiritGain       int
	LevelsGained     int
	Character        *entities.Character
	Session          *entities.Cultivation
}

// GetStatusInput defines the input for the status query
type GetStatusInput struct {
	UserID string
}

// GetStatusOutput defines the output for the status query. Progress is
// derived from elapsed time without being persisted.
type GetStatusOutput struct {
	Session         *entities.Cultivation
	DerivedProgress int
}

// AttemptBreakthroughInput defines the input for entering breakthrough
type AttemptBreakthroughInput struct {
	UserID string
}

// AttemptBreakthroughOutput defines the output for entering breakthrough
type AttemptBreakthroughOutput struct {
	TargetRealmID string
	Attempts      int
	Session       *entities.Cultivation
}

// CompleteBreakthroughInput defines the input for resolving a breakthrough
type CompleteBreakthroughInput struct {
	UserID string
}

// CompleteBreakthroughOutput defines the output for resolving a
// breakthrough. A failed roll is a normal outcome, not an error.
type CompleteBreakthroughOutput struct {
	Success     bool
	Roll        float64
	SuccessRate float64
	RealmID     string
	Character   *entities.Character
}
