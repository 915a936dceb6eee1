package entities

// CultivationStatus is the state of a character's cultivation session
type CultivationStatus string

// Cultivation session states. Transitions are exclusive: a character is
// never cultivating and mid-breakthrough at the same time.
const (
	CultivationIdle         CultivationStatus = "idle"
	CultivationCultivating  CultivationStatus = "cultivating"
	CultivationBreakthrough CultivationStatus = "breakthrough"
)

// Cultivation is the singleton per-character session record, created
// lazily on the first cultivation or breakthrough attempt
type Cultivation struct {
	UserID          string            `json:"user_id"`
	Status          CultivationStatus `json:"status"`
	StartTime       int64             `json:"start_time"`
	Efficiency      float64           `json:"efficiency"`
	TechniqueID     string            `json:"technique_id"`
	Location        string            `json:"location"`
	CurrentProgress int               `json:"current_progress"`
	TargetProgress  int               `json:"target_progress"`
	UpdatedAt       int64             `json:"updated_at"`
}

// Active reports whether the session is in a non-idle status
func (c *Cultivation) Active() bool {
	return c.Status == CultivationCultivating || c.Status == CultivationBreakthrough
}
