// Package entities defines the persistent game-state types.
package entities

// CharacterExpThreshold is the experience required per character level.
const CharacterExpThreshold = 100

// Attributes holds a character's cultivation attributes
type Attributes struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Intelligence int `json:"intelligence"`
	Spirit       int `json:"spirit"`
	Constitution int `json:"constitution"`
	Perception   int `json:"perception"`
	Luck         int `json:"luck"`
}

// Resources is a character's currency ledger
type Resources struct {
	Gold         int `json:"gold"`
	SpiritStones int `json:"spirit_stones"`
}

// Character is the per-account progression record
type Character struct {
	UserID               string     `json:"user_id"`
	Name                 string     `json:"name"`
	Level                int        `json:"level"`
	Experience           int        `json:"experience"`
	Energy               int        `json:"energy"`
	RealmID              string     `json:"realm_id"`
	RealmProgress        int        `json:"realm_progress"`
	BreakthroughAttempts int        `json:"breakthrough_attempts"`
	Attributes           Attributes `json:"attributes"`
	Resources            Resources  `json:"resources"`
	CreatedAt            int64      `json:"created_at"`
	UpdatedAt            int64      `json:"updated_at"`
}

// GainExperience adds experience and converts any excess into levels.
// Returns the number of levels gained. Experience is always below the
// threshold afterward.
func (c *Character) GainExperience(amount int) int {
	c.Experience += amount
	levels := 0
	for c.Experience >= CharacterExpThreshold {
		c.Experience -= CharacterExpThreshold
		c.Level++
		levels++
	}
	return levels
}
