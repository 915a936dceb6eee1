// Package httphandler exposes the game engines over HTTP as a thin
// JSON adapter. Identity comes from the X-User-ID header; request
// authentication is handled by middleware upstream of this service.
package httphandler

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/mistwood/cultivation-api/internal/entities"
	"github.com/mistwood/cultivation-api/internal/errors"
	"github.com/mistwood/cultivation-api/internal/orchestrators/beast"
	"github.com/mistwood/cultivation-api/internal/orchestrators/character"
	"github.com/mistwood/cultivation-api/internal/orchestrators/progression"
	"github.com/mistwood/cultivation-api/internal/orchestrators/secretrealm"
	"github.com/mistwood/cultivation-api/internal/orchestrators/sect"
)

const userIDHeader = "X-User-ID"

// Handler routes HTTP requests to the engine services
type Handler struct {
	Characters   character.Service
	Progression  progression.Service
	Beasts       beast.Service
	Sects        sect.Service
	SecretRealms secretrealm.Service
}

// RegisterRoutes attaches all API routes to the server
func (h Handler) RegisterRoutes(s *server.Hertz) {
	chars := s.Group("/api/characters")
	chars.POST("/", h.createCharacter)
	chars.GET("/me", h.getCharacter)

	cultivation := s.Group("/api/cultivation")
	cultivation.POST("/start", h.startCultivation)
	cultivation.POST("/end", h.endCultivation)
	cultivation.GET("/status", h.cultivationStatus)
	cultivation.POST("/breakthrough/attempt", h.attemptBreakthrough)
	cultivation.POST("/breakthrough/complete", h.completeBreakthrough)

	beasts := s.Group("/api/beasts")
	beasts.GET("/mybeasts", h.listBeasts)
	beasts.GET("/mybeasts/:beastId", h.getBeast)
	beasts.GET("/deployed", h.listDeployed)
	beasts.POST("/capture", h.captureBeast)
	beasts.POST("/train", h.trainBeast)
	beasts.POST("/feed", h.feedBeast)
	beasts.POST("/evolve", h.evolveBeast)
	beasts.POST("/rename", h.renameBeast)
	beasts.POST("/deploy", h.deployBeast)
	beasts.DELETE("/undeploy/:beastId", h.undeployBeast)
	beasts.DELETE("/release/:beastId", h.releaseBeast)
	beasts.POST("/pair", h.pairBeasts)
	beasts.POST("/expedition", h.sendExpedition)
	beasts.POST("/expedition/complete/:beastId", h.completeExpedition)

	sects := s.Group("/api/sects")
	sects.GET("/all", h.listSects)
	sects.GET("/user/mysect", h.getUserSect)
	sects.GET("/:sectId", h.getSect)
	sects.GET("/:sectId/members", h.listSectMembers)
	sects.POST("/create", h.createSect)
	sects.POST("/apply", h.applyToJoinSect)
	sects.POST("/leave", h.leaveSect)
	sects.POST("/contribute", h.contributeToSect)

	realms := s.Group("/api/secret-realms")
	realms.GET("/realms", h.listRealms)
	realms.GET("/realms/:realmId", h.getRealm)
	realms.GET("/realms/:realmId/progress", h.realmProgress)
	realms.POST("/enter", h.enterRealm)
	realms.POST("/challenge", h.challengeLevel)
	realms.POST("/claim-rewards", h.claimRealmReward)
}

type createCharacterRequest struct {
	Name string `json:"name"`
}

type startCultivationRequest struct {
	TechniqueID string `json:"technique_id"`
	Location    string `json:"location"`
}

type beastIDRequest struct {
	BeastID string `json:"beast_id"`
}

type captureBeastRequest struct {
	TemplateID string `json:"template_id"`
	Location   string `json:"location"`
}

type trainBeastRequest struct {
	BeastID      string `json:"beast_id"`
	TrainingType string `json:"training_type"`
}

type feedBeastRequest struct {
	BeastID string `json:"beast_id"`
	FoodID  string `json:"food_id"`
}

type renameBeastRequest struct {
	BeastID  string `json:"beast_id"`
	Nickname string `json:"nickname"`
}

type deployBeastRequest struct {
	BeastID  string `json:"beast_id"`
	Position int    `json:"position"`
}

type pairBeastsRequest struct {
	FirstBeastID  string `json:"first_beast_id"`
	SecondBeastID string `json:"second_beast_id"`
}

type sendExpeditionRequest struct {
	BeastID       string `json:"beast_id"`
	Type          string `json:"type"`
	DurationHours int    `json:"duration_hours"`
}

type createSectRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Territory   *entities.Territory    `json:"territory,omitempty"`
	Settings    *entities.SectSettings `json:"settings,omitempty"`
}

type applyToJoinRequest struct {
	SectID  string `json:"sect_id"`
	Message string `json:"message"`
}

type contributeRequest struct {
	ResourceType string `json:"resource_type"`
	Amount       int    `json:"amount"`
}

type realmIDRequest struct {
	RealmID string `json:"realm_id"`
}

type challengeLevelRequest struct {
	RealmID     string   `json:"realm_id"`
	LevelID     string   `json:"level_id"`
	ChallengeID string   `json:"challenge_id"`
	BeastIDs    []string `json:"beast_ids"`
}

func (h Handler) createCharacter(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body createCharacterRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Characters.CreateCharacter(c, &character.CreateCharacterInput{
		UserID: userID,
		Name:   body.Name,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, out)
}

func (h Handler) getCharacter(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Characters.GetCharacter(c, &character.GetCharacterInput{UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) startCultivation(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body startCultivationRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Progression.StartCultivation(c, &progression.StartCultivationInput{
		UserID:      userID,
		TechniqueID: body.TechniqueID,
		Location:    body.Location,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) endCultivation(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Progression.EndCultivation(c, &progression.EndCultivationInput{UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) cultivationStatus(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Progression.GetStatus(c, &progression.GetStatusInput{UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) attemptBreakthrough(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Progression.AttemptBreakthrough(c, &progression.AttemptBreakthroughInput{UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) completeBreakthrough(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Progression.CompleteBreakthrough(c, &progression.CompleteBreakthroughInput{UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) listBeasts(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Beasts.ListBeasts(c, &beast.ListBeastsInput{UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) getBeast(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Beasts.GetBeast(c, &beast.GetBeastInput{
		UserID:  userID,
		BeastID: ctx.Param("beastId"),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) listDeployed(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Beasts.ListDeployed(c, &beast.ListDeployedInput{UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) captureBeast(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body captureBeastRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Beasts.CaptureBeast(c, &beast.CaptureBeastInput{
		UserID:     userID,
		TemplateID: body.TemplateID,
		Location:   body.Location,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) trainBeast(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body trainBeastRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Beasts.TrainBeast(c, &beast.TrainBeastInput{
		UserID:       userID,
		BeastID:      body.BeastID,
		TrainingType: body.TrainingType,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) feedBeast(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body feedBeastRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Beasts.FeedBeast(c, &beast.FeedBeastInput{
		UserID:  userID,
		BeastID: body.BeastID,
		FoodID:  body.FoodID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) evolveBeast(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body beastIDRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Beasts.EvolveBeast(c, &beast.EvolveBeastInput{
		UserID:  userID,
		BeastID: body.BeastID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) renameBeast(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body renameBeastRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Beasts.RenameBeast(c, &beast.RenameBeastInput{
		UserID:   userID,
		BeastID:  body.BeastID,
		Nickname: body.Nickname,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) deployBeast(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body deployBeastRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Beasts.DeployBeast(c, &beast.DeployBeastInput{
		UserID:   userID,
		BeastID:  body.BeastID,
		Position: body.Position,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) undeployBeast(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Beasts.UndeployBeast(c, &beast.UndeployBeastInput{
		UserID:  userID,
		BeastID: ctx.Param("beastId"),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) releaseBeast(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Beasts.ReleaseBeast(c, &beast.ReleaseBeastInput{
		UserID:  userID,
		BeastID: ctx.Param("beastId"),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) pairBeasts(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body pairBeastsRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Beasts.PairBeasts(c, &beast.PairBeastsInput{
		UserID:        userID,
		FirstBeastID:  body.FirstBeastID,
		SecondBeastID: body.SecondBeastID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) sendExpedition(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body sendExpeditionRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Beasts.SendExpedition(c, &beast.SendExpeditionInput{
		UserID:        userID,
		BeastID:       body.BeastID,
		Type:          body.Type,
		DurationHours: body.DurationHours,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) completeExpedition(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Beasts.CompleteExpedition(c, &beast.CompleteExpeditionInput{
		UserID:  userID,
		BeastID: ctx.Param("beastId"),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) listSects(c context.Context, ctx *app.RequestContext) {
	out, err := h.Sects.ListSects(c, &sect.ListSectsInput{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) getSect(c context.Context, ctx *app.RequestContext) {
	out, err := h.Sects.GetSect(c, &sect.GetSectInput{SectID: ctx.Param("sectId")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) listSectMembers(c context.Context, ctx *app.RequestContext) {
	out, err := h.Sects.ListMembers(c, &sect.ListMembersInput{SectID: ctx.Param("sectId")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) getUserSect(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Sects.GetUserSect(c, &sect.GetUserSectInput{UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) createSect(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body createSectRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Sects.CreateSect(c, &sect.CreateSectInput{
		UserID:      userID,
		Name:        body.Name,
		Description: body.Description,
		Territory:   body.Territory,
		Settings:    body.Settings,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, out)
}

func (h Handler) applyToJoinSect(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body applyToJoinRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Sects.ApplyToJoin(c, &sect.ApplyToJoinInput{
		UserID:  userID,
		SectID:  body.SectID,
		Message: body.Message,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) leaveSect(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.Sects.LeaveSect(c, &sect.LeaveSectInput{UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) contributeToSect(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body contributeRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.Sects.Contribute(c, &sect.ContributeInput{
		UserID:       userID,
		ResourceType: body.ResourceType,
		Amount:       body.Amount,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) listRealms(c context.Context, ctx *app.RequestContext) {
	out, err := h.SecretRealms.ListRealms(c, &secretrealm.ListRealmsInput{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) getRealm(c context.Context, ctx *app.RequestContext) {
	out, err := h.SecretRealms.GetRealm(c, &secretrealm.GetRealmInput{RealmID: ctx.Param("realmId")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) realmProgress(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	out, err := h.SecretRealms.GetProgress(c, &secretrealm.GetProgressInput{
		UserID:  userID,
		RealmID: ctx.Param("realmId"),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) enterRealm(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body realmIDRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.SecretRealms.EnterRealm(c, &secretrealm.EnterRealmInput{
		UserID:  userID,
		RealmID: body.RealmID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) challengeLevel(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body challengeLevelRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.SecretRealms.ChallengeLevel(c, &secretrealm.ChallengeLevelInput{
		UserID:      userID,
		RealmID:     body.RealmID,
		LevelID:     body.LevelID,
		ChallengeID: body.ChallengeID,
		BeastIDs:    body.BeastIDs,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) claimRealmReward(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body realmIDRequest
	if !decodeJSON(ctx, &body) {
		return
	}

	out, err := h.SecretRealms.ClaimRealmReward(c, &secretrealm.ClaimRealmRewardInput{
		UserID:  userID,
		RealmID: body.RealmID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

// requireUser reads the identity header, replying 401 when it is absent
func requireUser(ctx *app.RequestContext) (string, bool) {
	userID := strings.TrimSpace(string(ctx.GetHeader(userIDHeader)))
	if userID == "" {
		writeErrorBody(ctx, consts.StatusUnauthorized, errors.CodeUnauthenticated.String(), "missing X-User-ID header")
		return "", false
	}
	return userID, true
}

func decodeJSON(ctx *app.RequestContext, out any) bool {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, out); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, errors.CodeInvalidArgument.String(), "invalid json")
		return false
	}
	return true
}

func writeError(ctx *app.RequestContext, err error) {
	code := errors.GetCode(err)
	writeErrorBody(ctx, code.HTTPStatus(), code.String(), err.Error())
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
