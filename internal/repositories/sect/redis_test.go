package sect_test

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mistwood/cultivation-api/internal/entities"
	"github.com/mistwood/cultivation-api/internal/errors"
	redisclient "github.com/mistwood/cultivation-api/internal/redis"
	"github.com/mistwood/cultivation-api/internal/repositories/sect"
	"github.com/mistwood/cultivation-api/internal/storage/tx"
	"github.com/mistwood/cultivation-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	client  redisclient.Client
	cleanup func()
	manager *tx.Manager
	repo    sect.Repository
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.client, s.cleanup = testutils.CreateTestRedisClient(s.T())

	repo, err := sect.NewRedis(&sect.RedisConfig{Client: s.client})
	s.Require().NoError(err)
	s.repo = repo

	manager, err := tx.New(&tx.Config{Client: s.client})
	s.Require().NoError(err)
	s.manager = manager

	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) testSect(id, name, founder string) *entities.Sect {
	return &entities.Sect{
		ID:            id,
		Name:          name,
		Level:         1,
		FounderUserID: founder,
		Positions: []entities.SectPosition{
			{ID: "pos_master", Name: "Sect Master", Level: 5},
			{ID: "pos_outer", Name: "Outer Disciple", Level: 1},
		},
		Members: []entities.SectMember{
			{UserID: founder, PositionID: "pos_master", Status: entities.MemberActive},
		},
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	_, err := s.repo.Create(s.ctx, sect.CreateInput{Sect: s.testSect("sect_a", "Azure Cloud Sect", "user_001")})
	s.Require().NoError(err)

	getOut, err := s.repo.Get(s.ctx, sect.GetInput{ID: "sect_a"})
	s.Require().NoError(err)
	s.Assert().Equal("Azure Cloud Sect", getOut.Sect.Name)
	s.Assert().Len(getOut.Sect.Members, 1)

	// founder is indexed as a member
	userOut, err := s.repo.UserSectID(s.ctx, sect.UserSectIDInput{UserID: "user_001"})
	s.Require().NoError(err)
	s.Assert().Equal("sect_a", userOut.SectID)
}

func (s *RedisRepositoryTestSuite) TestCreateDuplicateName() {
	_, err := s.repo.Create(s.ctx, sect.CreateInput{Sect: s.testSect("sect_a", "Azure Cloud Sect", "user_001")})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, sect.CreateInput{Sect: s.testSect("sect_b", "Azure Cloud Sect", "user_002")})
	s.Assert().True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestList() {
	_, err := s.repo.Create(s.ctx, sect.CreateInput{Sect: s.testSect("sect_a", "Azure Cloud Sect", "user_001")})
	s.Require().NoError(err)
	_, err = s.repo.Create(s.ctx, sect.CreateInput{Sect: s.testSect("sect_b", "Crimson Peak Sect", "user_002")})
	s.Require().NoError(err)

	listOut, err := s.repo.List(s.ctx, sect.ListInput{})
	s.Require().NoError(err)
	s.Assert().Len(listOut.Sects, 2)
}

func (s *RedisRepositoryTestSuite) TestUserSectIDEmpty() {
	out, err := s.repo.UserSectID(s.ctx, sect.UserSectIDInput{UserID: "loner"})
	s.Require().NoError(err)
	s.Assert().Empty(out.SectID)
}

func (s *RedisRepositoryTestSuite) TestMembershipIndexLifecycle() {
	created := s.testSect("sect_a", "Azure Cloud Sect", "user_001")
	_, err := s.repo.Create(s.ctx, sect.CreateInput{Sect: created})
	s.Require().NoError(err)

	// Join: sect doc + member index in one commit
	created.Members = append(created.Members, entities.SectMember{
		UserID: "user_002", PositionID: "pos_outer", Status: entities.MemberActive,
	})
	err = s.manager.WithinTx(s.ctx, func(pipe goredis.Pipeliner) error {
		if err := s.repo.AppendSave(s.ctx, pipe, created); err != nil {
			return err
		}
		return s.repo.AppendMemberIndex(s.ctx, pipe, "user_002", "sect_a")
	})
	s.Require().NoError(err)

	userOut, err := s.repo.UserSectID(s.ctx, sect.UserSectIDInput{UserID: "user_002"})
	s.Require().NoError(err)
	s.Assert().Equal("sect_a", userOut.SectID)

	// Leave: remove member + drop the index entry
	created.RemoveMember("user_002")
	err = s.manager.WithinTx(s.ctx, func(pipe goredis.Pipeliner) error {
		if err := s.repo.AppendSave(s.ctx, pipe, created); err != nil {
			return err
		}
		return s.repo.AppendRemoveMemberIndex(s.ctx, pipe, "user_002")
	})
	s.Require().NoError(err)

	userOut, err = s.repo.UserSectID(s.ctx, sect.UserSectIDInput{UserID: "user_002"})
	s.Require().NoError(err)
	s.Assert().Empty(userOut.SectID)

	getOut, err := s.repo.Get(s.ctx, sect.GetInput{ID: "sect_a"})
	s.Require().NoError(err)
	s.Assert().Nil(getOut.Sect.Member("user_002"))
}
