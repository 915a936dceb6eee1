// Package catalog holds the immutable game data tables: the realm
// ladder, beast templates, secret realms, technique and location
// bonuses, the food table, elemental pairing compatibility, and
// expedition reward bases. A Catalog is built once at startup and
// injected into the engines.
package catalog

import "github.com/mistwood/cultivation-api/internal/entities"

// Beast elemental types
const (
	TypeFire      = "fire"
	TypeWater     = "water"
	TypeWood      = "wood"
	TypeEarth     = "earth"
	TypeMetal     = "metal"
	TypeWind      = "wind"
	TypeLightning = "lightning"
	TypeLight     = "light"
	TypeDark      = "dark"
	TypeDivine    = "divine"
)

// Beast rarities, in ascending order
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityPrecious  = "precious"
	RarityLegendary = "legendary"
	RarityMythic    = "mythic"
)

// RealmRequirements gate advancement into a realm
type RealmRequirements struct {
	PlayerLevel  int
	Spirit       int
	Intelligence int
}

// RealmMultipliers are applied to character attributes on a successful
// breakthrough into the realm
type RealmMultipliers struct {
	Spirit       float64
	Strength     float64
	Agility      float64
	Intelligence float64
}

// Realm is one tier of the cultivation ladder
type Realm struct {
	ID               string
	Name             string
	Level            int
	Description      string
	Requirements     RealmRequirements
	Multipliers      RealmMultipliers
	CultivationSpeed float64
	NextRealmID      string
}

// SkillDef is a skill available to a beast template
type SkillDef struct {
	Name        string
	Description string
	Damage      int
	Cooldown    int
	UnlockLevel int
	ManaCost    int
}

// EvolutionStage is one step of a template's evolution path
type EvolutionStage struct {
	Stage         int
	Name          string
	RequiredLevel int
	StatBoosts    entities.BeastAttributes
	NewSkills     []string
}

// BeastTemplate is a catalog entry describing a capturable beast
type BeastTemplate struct {
	ID             string
	Name           string
	Description    string
	Type           string
	Rarity         string
	RealmRequired  int
	BaseAttributes entities.BeastAttributes
	Skills         []SkillDef
	EvolutionPaths []EvolutionStage
	CaptureRate    float64
	Habitat        string
}

// RewardEntry is one line of a reward table, granted when an
// independent chance roll succeeds
type RewardEntry struct {
	Type     string
	Name     string
	Quantity int
	Chance   float64
}

// Challenge is a single trial within a secret-realm level
type Challenge struct {
	ID                    string
	Name                  string
	Type                  string
	Difficulty            int
	RequirementLevel      int
	RecommendedAttributes map[string]int
	OptimalBeastTypes     []string
	Rewards               []RewardEntry
}

// RealmLevel is one floor of a secret realm
type RealmLevel struct {
	ID               string
	Name             string
	Order            int
	RequirementLevel int
	Challenges       []Challenge
	IsBossLevel      bool
}

// AggregateReward is the one-time reward for clearing every level of a
// secret realm
type AggregateReward struct {
	Gold         int
	SpiritStones int
	Experience   int
	Items        []string
}

// SecretRealm is an instanced multi-level challenge area
type SecretRealm struct {
	ID             string
	Name           string
	Description    string
	Type           string
	MinPlayerLevel int
	MinBeastLevel  int
	MaxBeastCount  int
	EnergyCost     int
	CooldownHours  int
	Levels         []RealmLevel
	TotalReward    AggregateReward
}

// FoodEffect describes a feedable item's loyalty and experience gains
type FoodEffect struct {
	Loyalty    int
	Experience int
	ForType    string // non-empty for type-specific food
}

// ExpeditionBase is the pre-scaling reward table for one expedition type
type ExpeditionBase struct {
	Gold            int
	SpiritStones    int
	Experience      int
	BeastExperience int
	ItemDropChance  float64
	Items           []string
}
