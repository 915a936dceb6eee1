// Package sect implements the sect economy engine: founding,
// membership and resource contributions.
package sect

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/mistwood/cultivation-api/internal/entities"
	"github.com/mistwood/cultivation-api/internal/errors"
	"github.com/mistwood/cultivation-api/internal/pkg/clock"
	"github.com/mistwood/cultivation-api/internal/pkg/idgen"
	"github.com/mistwood/cultivation-api/internal/repositories/character"
	sectrepo "github.com/mistwood/cultivation-api/internal/repositories/sect"
	"github.com/mistwood/cultivation-api/internal/storage/tx"
)

// Contribution conversion rates per resource type.
const (
	spiritStoneContributionRate = 1.0
	goldContributionRate        = 0.5
)

// Service defines the interface for sect operations
type Service interface {
	// CreateSect founds a new sect with the caller as sect master
	CreateSect(ctx context.Context, input *CreateSectInput) (*CreateSectOutput, error)

	// ApplyToJoin submits a join application, auto-accepting when the
	// sect allows it
	ApplyToJoin(ctx context.Context, input *ApplyToJoinInput) (*ApplyToJoinOutput, error)

	// LeaveSect removes the caller from their sect
	LeaveSect(ctx context.Context, input *LeaveSectInput) (*LeaveSectOutput, error)

	// Contribute exchanges player resources for sect contribution
	Contribute(ctx context.Context, input *ContributeInput) (*ContributeOutput, error)

	// GetSect retrieves a sect by ID
	GetSect(ctx context.Context, input *GetSectInput) (*GetSectOutput, error)

	// ListSects lists all sects
	ListSects(ctx context.Context, input *ListSectsInput) (*ListSectsOutput, error)

	// GetUserSect resolves the caller's sect and membership
	GetUserSect(ctx context.Context, input *GetUserSectInput) (*GetUserSectOutput, error)

	// ListMembers returns the roster ordered by rank
	ListMembers(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error)
}

// Config holds the dependencies for the sect orchestrator
type Config struct {
	SectRepo      sectrepo.Repository
	CharacterRepo character.Repository
	TxManager     *tx.Manager
	Clock         clock.Clock
	IDGenerator   idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SectRepo == nil {
		vb.RequiredField("SectRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.TxManager == nil {
		vb.RequiredField("TxManager")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	sectRepo      sectrepo.Repository
	characterRepo character.Repository
	txManager     *tx.Manager
	clock         clock.Clock
	idGenerator   idgen.Generator
}

// NewOrchestrator creates a new sect orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		sectRepo:      cfg.SectRepo,
		characterRepo: cfg.CharacterRepo,
		txManager:     cfg.TxManager,
		clock:         cfg.Clock,
		idGenerator:   cfg.IDGenerator,
	}, nil
}

// defaultPositions is the rank ladder every new sect starts with
func (o *orchestrator) defaultPositions() []entities.SectPosition {
	return []entities.SectPosition{
		{
			ID:    o.idGenerator.Generate(),
			Name:  "Sect Master",
			Level: 5,
			Privileges: entities.PositionPrivileges{
				CanRecruit:           true,
				CanExpel:             true,
				CanManageResources:   true,
				CanAssignTasks:       true,
				CanManageFacilities:  true,
				CanDistributeBenefit: true,
			},
			DailyContribution: 0,
			Description:       "Founder of the sect, holds full authority",
		},
		{
			ID:    o.idGenerator.Generate(),
			Name:  "Elder",
			Level: 4,
			Privileges: entities.PositionPrivileges{
				CanRecruit:         true,
				CanExpel:           true,
				CanManageResources: true,
				CanAssignTasks:     true,
			},
			DailyContribution: 20,
			Description:       "Senior member taking part in sect management",
		},
		{
			ID:                o.idGenerator.Generate(),
			Name:              "Inner Disciple",
			Level:             2,
			DailyContribution: 50,
			Description:       "Established sect member",
		},
		{
			ID:                o.idGenerator.Generate(),
			Name:              "Outer Disciple",
			Level:             1,
			DailyContribution: 100,
			Description:       "Junior sect member",
		},
	}
}

func (o *orchestrator) CreateSect(ctx context.Context, input *CreateSectInput) (*CreateSectOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("sect name is required")
	}

	currentOutput, err := o.sectRepo.UserSectID(ctx, sectrepo.UserSectIDInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	if currentOutput.SectID != "" {
		return nil, errors.FailedPrecondition("already a member of another sect, leave it first")
	}

	charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	char := charOutput.Character

	now := o.clock.Now().Unix()
	positions := o.defaultPositions()

	description := input.Description
	if description == "" {
		description = fmt.Sprintf("%s, a newly founded sect", input.Name)
	}

	territory := entities.Territory{Size: 1, Environment: "mountain", ResourceRichness: 3, DangerLevel: 2}
	if input.Territory != nil {
		territory = *input.Territory
	}
	settings := entities.SectSettings{MinLevelToJoin: 1}
	if input.Settings != nil {
		settings = *input.Settings
	}

	newSect := &entities.Sect{
		ID:            o.idGenerator.Generate(),
		Name:          input.Name,
		Description:   description,
		Level:         1,
		FounderUserID: input.UserID,
		Positions:     positions,
		Members: []entities.SectMember{
			{
				UserID:     input.UserID,
				Name:       char.Name,
				PositionID: positions[0].ID,
				Status:     entities.MemberActive,
				JoinedAt:   now,
			},
		},
		Territory: territory,
		Settings:  settings,
		History: []entities.HistoryEntry{
			{
				Event:       "founded",
				Description: fmt.Sprintf("%s founded the sect", char.Name),
				UserID:      input.UserID,
				At:          now,
			},
		},
		CreatedAt: now,
	}

	if _, err := o.sectRepo.Create(ctx, sectrepo.CreateInput{Sect: newSect}); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "sect founded",
		"sect_id", newSect.ID,
		"name", newSect.Name,
		"founder", input.UserID,
	)

	return &CreateSectOutput{Sect: newSect}, nil
}

func (o *orchestrator) ApplyToJoin(ctx context.Context, input *ApplyToJoinInput) (*ApplyToJoinOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}
	if input.SectID == "" {
		return nil, errors.InvalidArgument("sect ID is required")
	}

	getOutput, err := o.sectRepo.Get(ctx, sectrepo.GetInput{ID: input.SectID})
	if err != nil {
		return nil, err
	}
	s := getOutput.Sect

	if s.Member(input.UserID) != nil {
		return nil, errors.AlreadyExists("already a member of this sect")
	}
	if s.PendingApplication(input.UserID) != nil {
		return nil, errors.AlreadyExists("an application to this sect is already pending")
	}

	currentOutput, err := o.sectRepo.UserSectID(ctx, sectrepo.UserSectIDInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	if currentOutput.SectID != "" {
		return nil, errors.FailedPrecondition("already a member of another sect, leave it first")
	}

	charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	char := charOutput.Character

	if char.Level < s.Settings.MinLevelToJoin {
		return nil, errors.FailedPreconditionf(
			"level %d is below the sect minimum of %d", char.Level, s.Settings.MinLevelToJoin)
	}
	if s.Settings.InviteOnly {
		return nil, errors.FailedPrecondition("this sect accepts members by invitation only")
	}

	now := o.clock.Now().Unix()
	message := input.Message
	if message == "" {
		message = "requesting to join the sect"
	}

	application := entities.SectApplication{
		UserID:    input.UserID,
		Username:  char.Name,
		Level:     char.Level,
		Message:   message,
		Status:    entities.ApplicationPending,
		AppliedAt: now,
	}

	if !s.Settings.AutoAcceptMembers {
		s.Applications = append(s.Applications, application)
		if _, err := o.sectRepo.Save(ctx, sectrepo.SaveInput{Sect: s}); err != nil {
			return nil, err
		}
		return &ApplyToJoinOutput{Sect: s, Application: &application}, nil
	}

	application.Status = entities.ApplicationApproved
	s.Applications = append(s.Applications, application)

	lowest := s.LowestPosition()
	if lowest == nil {
		return nil, errors.Internalf("sect %s has no positions", s.ID)
	}

	member := entities.SectMember{
		UserID:     input.UserID,
		Name:       char.Name,
		PositionID: lowest.ID,
		Status:     entities.MemberActive,
		JoinedAt:   now,
	}
	s.Members = append(s.Members, member)

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if err := o.sectRepo.AppendSave(ctx, pipe, s); err != nil {
			return err
		}
		return o.sectRepo.AppendMemberIndex(ctx, pipe, input.UserID, s.ID)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "member auto-accepted",
		"sect_id", s.ID,
		"user_id", input.UserID,
		"position", lowest.Name,
	)

	return &ApplyToJoinOutput{Sect: s, Application: &application, Membership: &member}, nil
}

func (o *orchestrator) LeaveSect(ctx context.Context, input *LeaveSectInput) (*LeaveSectOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	s, member, err := o.userSect(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if s.FounderUserID == input.UserID {
		return nil, errors.FailedPrecondition(
			"the founder cannot leave, transfer leadership or disband the sect first")
	}

	positionName := "no position"
	if p := s.Position(member.PositionID); p != nil {
		positionName = p.Name
	}

	s.RemoveMember(input.UserID)
	s.History = append(s.History, entities.HistoryEntry{
		Event:       "member_left",
		Description: fmt.Sprintf("%s (%s) left the sect", member.Name, positionName),
		UserID:      input.UserID,
		At:          o.clock.Now().Unix(),
	})

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if err := o.sectRepo.AppendSave(ctx, pipe, s); err != nil {
			return err
		}
		return o.sectRepo.AppendRemoveMemberIndex(ctx, pipe, input.UserID)
	})
	if err != nil {
		return nil, err
	}

	return &LeaveSectOutput{SectID: s.ID, SectName: s.Name}, nil
}

func (o *orchestrator) Contribute(ctx context.Context, input *ContributeInput) (*ContributeOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}
	if input.Amount <= 0 {
		return nil, errors.InvalidArgument("amount must be positive")
	}

	var rate float64
	switch input.ResourceType {
	case "spiritStones":
		rate = spiritStoneContributionRate
	case "gold":
		rate = goldContributionRate
	default:
		return nil, errors.InvalidArgumentf("unsupported resource type: %s", input.ResourceType)
	}

	s, member, err := o.userSect(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	char := charOutput.Character

	var balance *int
	switch input.ResourceType {
	case "spiritStones":
		balance = &char.Resources.SpiritStones
	case "gold":
		balance = &char.Resources.Gold
	}
	if *balance < input.Amount {
		return nil, errors.FailedPreconditionf(
			"insufficient %s: have %d, need %d", input.ResourceType, *balance, input.Amount)
	}
	*balance -= input.Amount

	if input.ResourceType == "spiritStones" {
		s.Resources.SpiritStones += input.Amount
	} else {
		credited := false
		for i := range s.Resources.Materials {
			if s.Resources.Materials[i].Type == input.ResourceType {
				s.Resources.Materials[i].Amount += input.Amount
				credited = true
				break
			}
		}
		if !credited {
			s.Resources.Materials = append(s.Resources.Materials, entities.SectMaterial{
				Type:   input.ResourceType,
				Amount: input.Amount,
			})
		}
	}

	gained := int(math.Floor(float64(input.Amount) * rate))
	s.Resources.ContributionPoints += gained
	member.TotalContribution += gained
	member.WeeklyContribution += gained

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if err := o.characterRepo.AppendSave(ctx, pipe, char); err != nil {
			return err
		}
		return o.sectRepo.AppendSave(ctx, pipe, s)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "sect contribution",
		"sect_id", s.ID,
		"user_id", input.UserID,
		"resource", input.ResourceType,
		"amount", input.Amount,
		"contribution", gained,
	)

	return &ContributeOutput{
		ContributionGained: gained,
		Member:             member,
		Sect:               s,
		Character:          char,
	}, nil
}

func (o *orchestrator) GetSect(ctx context.Context, input *GetSectInput) (*GetSectOutput, error) {
	if input == nil || input.SectID == "" {
		return nil, errors.InvalidArgument("sect ID is required")
	}

	getOutput, err := o.sectRepo.Get(ctx, sectrepo.GetInput{ID: input.SectID})
	if err != nil {
		return nil, err
	}

	return &GetSectOutput{Sect: getOutput.Sect}, nil
}

func (o *orchestrator) ListSects(ctx context.Context, _ *ListSectsInput) (*ListSectsOutput, error) {
	listOutput, err := o.sectRepo.List(ctx, sectrepo.ListInput{})
	if err != nil {
		return nil, err
	}

	return &ListSectsOutput{Sects: listOutput.Sects}, nil
}

func (o *orchestrator) GetUserSect(ctx context.Context, input *GetUserSectInput) (*GetUserSectOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	s, member, err := o.userSect(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &GetUserSectOutput{Sect: s, Member: member}, nil
}

func (o *orchestrator) ListMembers(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	if input == nil || input.SectID == "" {
		return nil, errors.InvalidArgument("sect ID is required")
	}

	getOutput, err := o.sectRepo.Get(ctx, sectrepo.GetInput{ID: input.SectID})
	if err != nil {
		return nil, err
	}
	s := getOutput.Sect

	roster := make([]RosterEntry, 0, len(s.Members))
	for _, m := range s.Members {
		roster = append(roster, RosterEntry{Member: m, Position: s.Position(m.PositionID)})
	}
	sort.SliceStable(roster, func(i, j int) bool {
		li, lj := 0, 0
		if roster[i].Position != nil {
			li = roster[i].Position.Level
		}
		if roster[j].Position != nil {
			lj = roster[j].Position.Level
		}
		if li != lj {
			return li > lj
		}
		return roster[i].Member.TotalContribution > roster[j].Member.TotalContribution
	})

	return &ListMembersOutput{Members: roster}, nil
}

// userSect resolves the sect the user belongs to along with their
// membership record
func (o *orchestrator) userSect(ctx context.Context, userID string) (*entities.Sect, *entities.SectMember, error) {
	currentOutput, err := o.sectRepo.UserSectID(ctx, sectrepo.UserSectIDInput{UserID: userID})
	if err != nil {
		return nil, nil, err
	}
	if currentOutput.SectID == "" {
		return nil, nil, errors.NotFound("not a member of any sect")
	}

	getOutput, err := o.sectRepo.Get(ctx, sectrepo.GetInput{ID: currentOutput.SectID})
	if err != nil {
		return nil, nil, err
	}
	s := getOutput.Sect

	member := s.Member(userID)
	if member == nil {
		return nil, nil, errors.Internalf("membership index points at sect %s but no member record exists", s.ID)
	}

	return s, member, nil
}
