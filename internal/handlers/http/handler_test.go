package httphandler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/route/param"
	"github.com/stretchr/testify/suite"

	"github.com/mistwood/cultivation-api/internal/catalog"
	"github.com/mistwood/cultivation-api/internal/orchestrators/beast"
	"github.com/mistwood/cultivation-api/internal/orchestrators/character"
	"github.com/mistwood/cultivation-api/internal/orchestrators/progression"
	"github.com/mistwood/cultivation-api/internal/orchestrators/secretrealm"
	"github.com/mistwood/cultivation-api/internal/orchestrators/sect"
	"github.com/mistwood/cultivation-api/internal/pkg/clock"
	"github.com/mistwood/cultivation-api/internal/pkg/idgen"
	"github.com/mistwood/cultivation-api/internal/pkg/rng"
	beastrepo "github.com/mistwood/cultivation-api/internal/repositories/beast"
	charrepo "github.com/mistwood/cultivation-api/internal/repositories/character"
	"github.com/mistwood/cultivation-api/internal/repositories/cultivation"
	"github.com/mistwood/cultivation-api/internal/repositories/realmprogress"
	sectrepo "github.com/mistwood/cultivation-api/internal/repositories/sect"
	"github.com/mistwood/cultivation-api/internal/storage/tx"
	"github.com/mistwood/cultivation-api/internal/testutils"
)

type HandlerTestSuite struct {
	suite.Suite
	cleanup func()
	roller  *rng.Scripted
	handler Handler
	ctx     context.Context
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	fixed := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.roller = &rng.Scripted{Floats: []float64{0.5}}
	roller := s.roller
	cat := catalog.Default()

	charRepo, err := charrepo.NewRedis(&charrepo.RedisConfig{Client: client, Clock: fixed})
	s.Require().NoError(err)
	cultRepo, err := cultivation.NewRedis(&cultivation.RedisConfig{Client: client, Clock: fixed})
	s.Require().NoError(err)
	bRepo, err := beastrepo.NewRedis(&beastrepo.RedisConfig{Client: client, Clock: fixed})
	s.Require().NoError(err)
	sRepo, err := sectrepo.NewRedis(&sectrepo.RedisConfig{Client: client, Clock: fixed})
	s.Require().NoError(err)
	progRepo, err := realmprogress.NewRedis(&realmprogress.RedisConfig{Client: client, Clock: fixed})
	s.Require().NoError(err)

	manager, err := tx.New(&tx.Config{Client: client})
	s.Require().NoError(err)

	chars, err := character.NewOrchestrator(&character.Config{
		CharacterRepo: charRepo,
		Catalog:       cat,
	})
	s.Require().NoError(err)

	prog, err := progression.NewOrchestrator(&progression.Config{
		CharacterRepo:   charRepo,
		CultivationRepo: cultRepo,
		TxManager:       manager,
		Catalog:         cat,
		Clock:           fixed,
		Roller:          roller,
	})
	s.Require().NoError(err)

	beasts, err := beast.NewOrchestrator(&beast.Config{
		BeastRepo:     bRepo,
		CharacterRepo: charRepo,
		TxManager:     manager,
		Catalog:       cat,
		Clock:         fixed,
		Roller:        roller,
		IDGenerator:   idgen.NewPrefixed("beast"),
	})
	s.Require().NoError(err)

	sects, err := sect.NewOrchestrator(&sect.Config{
		SectRepo:      sRepo,
		CharacterRepo: charRepo,
		TxManager:     manager,
		Clock:         fixed,
		IDGenerator:   idgen.NewPrefixed("sect"),
	})
	s.Require().NoError(err)

	realms, err := secretrealm.NewOrchestrator(&secretrealm.Config{
		CharacterRepo: charRepo,
		BeastRepo:     bRepo,
		ProgressRepo:  progRepo,
		TxManager:     manager,
		Catalog:       cat,
		Clock:         fixed,
		Roller:        roller,
	})
	s.Require().NoError(err)

	s.handler = Handler{
		Characters:   chars,
		Progression:  prog,
		Beasts:       beasts,
		Sects:        sects,
		SecretRealms: realms,
	}
	s.ctx = context.Background()
}

func (s *HandlerTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *HandlerTestSuite) request(userID string, body any) *app.RequestContext {
	ctx := &app.RequestContext{}
	if userID != "" {
		ctx.Request.Header.Set(userIDHeader, userID)
	}
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		ctx.Request.SetBody(raw)
	}
	return ctx
}

func (s *HandlerTestSuite) decodeError(ctx *app.RequestContext) (code, message string) {
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(ctx.Response.Body(), &payload))
	return payload.Error.Code, payload.Error.Message
}

func (s *HandlerTestSuite) TestMissingUserHeader() {
	ctx := s.request("", nil)
	s.handler.getCharacter(s.ctx, ctx)

	s.Assert().Equal(http.StatusUnauthorized, ctx.Response.StatusCode())
	code, _ := s.decodeError(ctx)
	s.Assert().Equal("UNAUTHENTICATED", code)
}

func (s *HandlerTestSuite) TestCreateCharacter() {
	ctx := s.request("user_001", createCharacterRequest{Name: "Li Wei"})
	s.handler.createCharacter(s.ctx, ctx)
	s.Require().Equal(http.StatusCreated, ctx.Response.StatusCode())

	var out character.CreateCharacterOutput
	s.Require().NoError(json.Unmarshal(ctx.Response.Body(), &out))
	s.Assert().Equal("Li Wei", out.Character.Name)
	s.Assert().Equal("realm_001", out.Character.RealmID)

	// Second create for the same user conflicts
	ctx = s.request("user_001", createCharacterRequest{Name: "Li Wei"})
	s.handler.createCharacter(s.ctx, ctx)
	s.Assert().Equal(http.StatusConflict, ctx.Response.StatusCode())
}

func (s *HandlerTestSuite) TestGetCharacterNotFound() {
	ctx := s.request("ghost", nil)
	s.handler.getCharacter(s.ctx, ctx)

	s.Assert().Equal(http.StatusNotFound, ctx.Response.StatusCode())
	code, _ := s.decodeError(ctx)
	s.Assert().Equal("NOT_FOUND", code)
}

func (s *HandlerTestSuite) TestInvalidJSONBody() {
	ctx := s.request("user_001", nil)
	ctx.Request.SetBody([]byte("{not json"))
	s.handler.captureBeast(s.ctx, ctx)

	s.Assert().Equal(http.StatusBadRequest, ctx.Response.StatusCode())
	code, _ := s.decodeError(ctx)
	s.Assert().Equal("INVALID_ARGUMENT", code)
}

func (s *HandlerTestSuite) TestCultivationFlow() {
	ctx := s.request("user_001", createCharacterRequest{Name: "Li Wei"})
	s.handler.createCharacter(s.ctx, ctx)
	s.Require().Equal(http.StatusCreated, ctx.Response.StatusCode())

	ctx = s.request("user_001", startCultivationRequest{})
	s.handler.startCultivation(s.ctx, ctx)
	s.Require().Equal(http.StatusOK, ctx.Response.StatusCode())

	// Starting twice is a precondition failure
	ctx = s.request("user_001", startCultivationRequest{})
	s.handler.startCultivation(s.ctx, ctx)
	s.Assert().Equal(http.StatusPreconditionFailed, ctx.Response.StatusCode())

	ctx = s.request("user_001", nil)
	s.handler.cultivationStatus(s.ctx, ctx)
	s.Require().Equal(http.StatusOK, ctx.Response.StatusCode())

	var status progression.GetStatusOutput
	s.Require().NoError(json.Unmarshal(ctx.Response.Body(), &status))
	s.Assert().Equal("cultivating", string(status.Session.Status))
}

func (s *HandlerTestSuite) TestGetBeastByPathParam() {
	ctx := s.request("user_001", createCharacterRequest{Name: "Li Wei"})
	s.handler.createCharacter(s.ctx, ctx)
	s.Require().Equal(http.StatusCreated, ctx.Response.StatusCode())

	// Capture at rate 0.40 (forest habitat match) with the 0.35 roll
	s.roller.Floats = []float64{0.35}
	capCtx := s.request("user_001", captureBeastRequest{TemplateID: "beast_001", Location: "forest"})
	s.handler.captureBeast(s.ctx, capCtx)
	s.Require().Equal(http.StatusOK, capCtx.Response.StatusCode())

	var capOut beast.CaptureBeastOutput
	s.Require().NoError(json.Unmarshal(capCtx.Response.Body(), &capOut))
	s.Require().True(capOut.Success)

	ctx = s.request("user_001", nil)
	ctx.Params = param.Params{{Key: "beastId", Value: capOut.Beast.ID}}
	s.handler.getBeast(s.ctx, ctx)
	s.Require().Equal(http.StatusOK, ctx.Response.StatusCode())

	var getOut beast.GetBeastOutput
	s.Require().NoError(json.Unmarshal(ctx.Response.Body(), &getOut))
	s.Assert().Equal(capOut.Beast.ID, getOut.Beast.ID)
}

func (s *HandlerTestSuite) TestListRealmsPublic() {
	ctx := s.request("", nil)
	s.handler.listRealms(s.ctx, ctx)
	s.Require().Equal(http.StatusOK, ctx.Response.StatusCode())

	var out secretrealm.ListRealmsOutput
	s.Require().NoError(json.Unmarshal(ctx.Response.Body(), &out))
	s.Assert().Len(out.Realms, 2)
}
