package entities

// BeastMood affects feeding outcomes
type BeastMood string

// Beast moods
const (
	MoodHappy   BeastMood = "happy"
	MoodNormal  BeastMood = "normal"
	MoodUnhappy BeastMood = "unhappy"
)

// ExpeditionStatus is the state of an embedded expedition record
type ExpeditionStatus string

// Expedition states
const (
	ExpeditionOngoing   ExpeditionStatus = "ongoing"
	ExpeditionCompleted ExpeditionStatus = "completed"
	ExpeditionFailed    ExpeditionStatus = "failed"
)

// BeastAttributes holds a beast's combat attributes. Loyalty is always
// within [0, 100].
type BeastAttributes struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
	Health  int `json:"health"`
	Mana    int `json:"mana"`
	Loyalty int `json:"loyalty"`
}

// LearnedSkill is a skill a beast has acquired
type LearnedSkill struct {
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
}

// Expedition is the in-flight expedition record embedded in a beast
type Expedition struct {
	Type        string           `json:"type"`
	StartTime   int64            `json:"start_time"`
	EndTime     int64            `json:"end_time"`
	Status      ExpeditionStatus `json:"status"`
	SuccessRate float64          `json:"success_rate"`
}

// ExpeditionRecord is a completed expedition kept for history
type ExpeditionRecord struct {
	Type        string `json:"type"`
	CompletedAt int64  `json:"completed_at"`
	Success     bool   `json:"success"`
}

// PlayerBeast is a captured beast owned by a player. At most one per
// (owner, template) pair.
type PlayerBeast struct {
	ID                string             `json:"id"`
	OwnerID           string             `json:"owner_id"`
	TemplateID        string             `json:"template_id"`
	Nickname          string             `json:"nickname"`
	Type              string             `json:"type"`
	Rarity            string             `json:"rarity"`
	Level             int                `json:"level"`
	Experience        int                `json:"experience"`
	Attributes        BeastAttributes    `json:"attributes"`
	CurrentEvolution  int                `json:"current_evolution"`
	Skills            []LearnedSkill     `json:"skills"`
	IsDeployed        bool               `json:"is_deployed"`
	DeployPosition    int                `json:"deploy_position"`
	Expedition        *Expedition        `json:"expedition,omitempty"`
	ExpeditionHistory []ExpeditionRecord `json:"expedition_history,omitempty"`
	Mood              BeastMood          `json:"mood"`
	LastTrainedAt     int64              `json:"last_trained_at"`
	CapturedAt        int64              `json:"captured_at"`
	UpdatedAt         int64              `json:"updated_at"`
}

// BeastExpThreshold is the experience a beast needs at the given level
// to advance to the next one.
func BeastExpThreshold(level int) int {
	return level * 100
}

// OnExpedition reports whether the beast has an ongoing expedition
func (b *PlayerBeast) OnExpedition() bool {
	return b.Expedition != nil && b.Expedition.Status == ExpeditionOngoing
}

// Available reports whether the beast is neither deployed nor on an
// ongoing expedition
func (b *PlayerBeast) Available() bool {
	return !b.IsDeployed && !b.OnExpedition()
}

// GainExperience adds experience and applies level-ups until the
// experience sits below the current level's threshold. Each level grants
// flat attribute bonuses. Returns the number of levels gained.
func (b *PlayerBeast) GainExperience(amount int) int {
	b.Experience += amount
	levels := 0
	for b.Experience >= BeastExpThreshold(b.Level) {
		b.Experience -= BeastExpThreshold(b.Level)
		b.Level++
		b.Attributes.Attack += 2
		b.Attributes.Defense += 2
		b.Attributes.Speed += 2
		b.Attributes.Health += 10
		b.Attributes.Mana += 5
		levels++
	}
	return levels
}

// AdjustLoyalty shifts loyalty by delta, clamped to [0, 100]
func (b *PlayerBeast) AdjustLoyalty(delta int) {
	b.Attributes.Loyalty += delta
	if b.Attributes.Loyalty > 100 {
		b.Attributes.Loyalty = 100
	}
	if b.Attributes.Loyalty < 0 {
		b.Attributes.Loyalty = 0
	}
}

// KnowsSkill reports whether the beast already has a skill by name
func (b *PlayerBeast) KnowsSkill(name string) bool {
	for _, s := range b.Skills {
		if s.Name == name {
			return true
		}
	}
	return false
}
