package entities

// MemberStatus is a sect member's standing
type MemberStatus string

// Member statuses
const (
	MemberActive    MemberStatus = "active"
	MemberInactive  MemberStatus = "inactive"
	MemberSuspended MemberStatus = "suspended"
)

// ApplicationStatus is the state of a join application
type ApplicationStatus string

// Application states
const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// PositionPrivileges are the permission flags attached to a sect position
type PositionPrivileges struct {
	CanRecruit           bool `json:"can_recruit"`
	CanExpel             bool `json:"can_expel"`
	CanManageResources   bool `json:"can_manage_resources"`
	CanAssignTasks       bool `json:"can_assign_tasks"`
	CanManageFacilities  bool `json:"can_manage_facilities"`
	CanDistributeBenefit bool `json:"can_distribute_benefit"`
}

// SectPosition is a rank in the sect's ladder, level 1 (lowest) to 5
type SectPosition struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Level             int                `json:"level"`
	Privileges        PositionPrivileges `json:"privileges"`
	DailyContribution int                `json:"daily_contribution"`
	Description       string             `json:"description"`
}

// SectMember is a membership record
type SectMember struct {
	UserID             string       `json:"user_id"`
	Name               string       `json:"name"`
	PositionID         string       `json:"position_id"`
	TotalContribution  int          `json:"total_contribution"`
	WeeklyContribution int          `json:"weekly_contribution"`
	Status             MemberStatus `json:"status"`
	JoinedAt           int64        `json:"joined_at"`
}

// SectApplication is a pending join request, one per (sect, user)
type SectApplication struct {
	UserID    string            `json:"user_id"`
	Username  string            `json:"username"`
	Level     int               `json:"level"`
	Message   string            `json:"message"`
	Status    ApplicationStatus `json:"status"`
	AppliedAt int64             `json:"applied_at"`
}

// SectMaterial is a donated non-currency resource
type SectMaterial struct {
	Type   string `json:"type"`
	Amount int    `json:"amount"`
}

// SectResources is the sect's shared treasury
type SectResources struct {
	SpiritStones       int            `json:"spirit_stones"`
	ContributionPoints int            `json:"contribution_points"`
	Materials          []SectMaterial `json:"materials,omitempty"`
}

// Territory describes the sect's grounds
type Territory struct {
	Size             int    `json:"size"`
	Environment      string `json:"environment"`
	ResourceRichness int    `json:"resource_richness"`
	DangerLevel      int    `json:"danger_level"`
}

// SectSettings are membership policy knobs
type SectSettings struct {
	AutoAcceptMembers bool `json:"auto_accept_members"`
	MinLevelToJoin    int  `json:"min_level_to_join"`
	InviteOnly        bool `json:"invite_only"`
}

// SectFacility is a built structure on sect grounds
type SectFacility struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Level       int    `json:"level"`
	Description string `json:"description"`
}

// SectTechnique is a shared cultivation method unlockable by contribution
type SectTechnique struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Level                int    `json:"level"`
	Type                 string `json:"type"`
	Unlocked             bool   `json:"unlocked"`
	RequiredContribution int    `json:"required_contribution"`
}

// HistoryEntry is an event in the sect's log
type HistoryEntry struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	UserID      string `json:"user_id,omitempty"`
	At          int64  `json:"at"`
}

// Sect is a player organization. Exactly one founder, recorded in
// FounderUserID, who cannot leave.
type Sect struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Level         int               `json:"level"`
	FounderUserID string            `json:"founder_user_id"`
	Resources     SectResources     `json:"resources"`
	Territory     Territory         `json:"territory"`
	Positions     []SectPosition    `json:"positions"`
	Members       []SectMember      `json:"members"`
	Applications  []SectApplication `json:"applications,omitempty"`
	Facilities    []SectFacility    `json:"facilities,omitempty"`
	Techniques    []SectTechnique   `json:"techniques,omitempty"`
	History       []HistoryEntry    `json:"history,omitempty"`
	Settings      SectSettings      `json:"settings"`
	CreatedAt     int64             `json:"created_at"`
	UpdatedAt     int64             `json:"updated_at"`
}

// Member returns the membership record for userID, or nil
func (s *Sect) Member(userID string) *SectMember {
	for i := range s.Members {
		if s.Members[i].UserID == userID {
			return &s.Members[i]
		}
	}
	return nil
}

// Position returns the position with the given ID, or nil
func (s *Sect) Position(id string) *SectPosition {
	for i := range s.Positions {
		if s.Positions[i].ID == id {
			return &s.Positions[i]
		}
	}
	return nil
}

// LowestPosition returns the position with the smallest level, or nil
// when the ladder is empty
func (s *Sect) LowestPosition() *SectPosition {
	var lowest *SectPosition
	for i := range s.Positions {
		if lowest == nil || s.Positions[i].Level < lowest.Level {
			lowest = &s.Positions[i]
		}
	}
	return lowest
}

// PendingApplication returns userID's pending application, or nil
func (s *Sect) PendingApplication(userID string) *SectApplication {
	for i := range s.Applications {
		if s.Applications[i].UserID == userID && s.Applications[i].Status == ApplicationPending {
			return &s.Applications[i]
		}
	}
	return nil
}

// RemoveMember deletes userID's membership record. Returns false when
// no such member exists.
func (s *Sect) RemoveMember(userID string) bool {
	for i := range s.Members {
		if s.Members[i].UserID == userID {
			s.Members = append(s.Members[:i], s.Members[i+1:]...)
			return true
		}
	}
	return false
}
