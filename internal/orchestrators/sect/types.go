package sect

import "github.com/mistwood/cultivation-api/internal/entities"

// CreateSectInput defines the input for founding a sect
type CreateSectInput struct {
	UserID      string
	Name        string
	Description string
	Territory   *entities.Territory
	Settings    *entities.SectSettings
}

// CreateSectOutput defines the output for founding a sect
type CreateSectOutput struct {
	Sect *entities.Sect
}

// ApplyToJoinInput defines the input for a join application
type ApplyToJoinInput struct {
	UserID  string
	SectID  string
	Message string
}

// ApplyToJoinOutput defines the output for a join application.
// Membership is non-nil when the sect auto-accepts members.
type ApplyToJoinOutput struct {
	Sect        *entities.Sect
	Application *entities.SectApplication
	Membership  *entities.SectMember
}

// LeaveSectInput defines the input for leaving a sect
type LeaveSectInput struct {
	UserID string
}

// LeaveSectOutput defines the output for leaving a sect
type LeaveSectOutput struct {
	SectID   string
	SectName string
}

// ContributeInput defines the input for a resource contribution
type ContributeInput struct {
	UserID       string
	ResourceType string
	Amount       int
}

// ContributeOutput defines the output for a resource contribution
type ContributeOutput struct {
	ContributionGained int
	Member             *entities.SectMember
	Sect               *entities.Sect
	Character          *entities.Character
}

// GetSectInput defines the input for getting a sect
type GetSectInput struct {
	SectID string
}

// GetSectOutput defines the output for getting a sect
type GetSectOutput struct {
	Sect *entities.Sect
}

// ListSectsInput defines the input for listing sects
type ListSectsInput struct{}

// ListSectsOutput defines the output for listing sects
type ListSectsOutput struct {
	Sects []*entities.Sect
}

// GetUserSectInput defines the input for resolving a user's sect
type GetUserSectInput struct {
	UserID string
}

// GetUserSectOutput defines the output for resolving a user's sect
type GetUserSectOutput struct {
	Sect   *entities.Sect
	Member *entities.SectMember
}

// ListMembersInput defines the input for the member roster
type ListMembersInput struct {
	SectID string
}

// RosterEntry is one row of the member roster with its resolved position
type RosterEntry struct {
	Member   entities.SectMember
	Position *entities.SectPosition
}

// ListMembersOutput lists members ordered by position level, then by
// total contribution
type ListMembersOutput struct {
	Members []RosterEntry
}
