package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/Hatchie-47/LoLPanion/internal/domain/alerting"
	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
	"github.com/Hatchie-47/LoLPanion/internal/domain/positioning"
	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
	"github.com/Hatchie-47/LoLPanion/internal/usecase"
)

type Handler struct {
	tracker    *usecase.TrackerService
	tagService *usecase.TagService
	logger     *slog.Logger
	validator  *validator.Validate
}

func NewHandler(
	tracker *usecase.TrackerService,
	tagService *usecase.TagService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		tracker:    tracker,
		tagService: tagService,
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetActiveMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetActiveMatch")
	defer span.End()

	snapshot, ok := h.tracker.Snapshot()
	if !ok {
		writeSuccess(ctx, w, http.StatusOK, activeMatchDTO{State: string(usecase.StateIdle)})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, trackedMatchToDTO(ctx, snapshot))
}

func (h *Handler) GetHomeSummoner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHomeSummoner")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, homeSummonerDTO{SummonerID: h.tracker.HomeSummonerID()})
}

func (h *Handler) SetHomeSummoner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetHomeSummoner")
	defer span.End()

	var req setSummonerRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	resolved, err := h.tracker.SetHomeByRiotID(ctx, req.GameName, req.TagLine)
	if err != nil {
		h.logger.WarnContext(ctx, "set home summoner failed",
			"riot_id", req.GameName+"#"+req.TagLine, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, homeSummonerDTO{
		SummonerID:    resolved.ID,
		PUUID:         resolved.PUUID,
		Name:          resolved.Name,
		TagLine:       resolved.TagLine,
		ProfileIconID: resolved.ProfileIconID,
		Level:         resolved.Level,
	})
}

func (h *Handler) ListSummonerTags(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSummonerTags")
	defer span.End()

	summonerID := strings.TrimSpace(r.PathValue("summonerID"))
	tags, err := h.tagService.ListBySummoner(ctx, summonerID)
	if err != nil {
		h.logger.WarnContext(ctx, "list tags failed", "summoner_id", summonerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tagDTO, 0, len(tags))
	for _, t := range tags {
		items = append(items, tagToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AddSummonerTag(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddSummonerTag")
	defer span.End()

	summonerID := strings.TrimSpace(r.PathValue("summonerID"))
	var req addTagRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.tagService.Add(ctx, summonerID, req.Kind, req.Severity, req.Note)
	if err != nil {
		h.logger.WarnContext(ctx, "add tag failed", "summoner_id", summonerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tagToDTO(created))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type setSummonerRequest struct {
	GameName string `json:"gameName" validate:"required,min=3,max=16"`
	TagLine  string `json:"tagLine" validate:"required,min=2,max=5"`
}

type homeSummonerDTO struct {
	SummonerID    string `json:"summonerId"`
	PUUID         string `json:"puuid,omitempty"`
	Name          string `json:"name,omitempty"`
	TagLine       string `json:"tagLine,omitempty"`
	ProfileIconID int    `json:"profileIconId,omitempty"`
	Level         int    `json:"level,omitempty"`
}

type addTagRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=INTER FLAMER TILTER UNDERPERFORMER OVERPERFORMER ONETRICK"`
	Severity string `json:"severity" validate:"required,oneof=HIGH MEDIUM LOW"`
	Note     string `json:"note" validate:"max=500"`
}

type tagDTO struct {
	ID           int64  `json:"id"`
	SummonerID   string `json:"summonerId"`
	Kind         string `json:"kind"`
	Severity     string `json:"severity"`
	Note         string `json:"note"`
	CreatedAtUTC string `json:"createdAtUtc"`
}

type activeMatchDTO struct {
	State           string           `json:"state"`
	MatchID         string           `json:"matchId,omitempty"`
	QueueID         int64            `json:"queueId,omitempty"`
	StartedAtUTC    string           `json:"startedAtUtc,omitempty"`
	DurationSeconds int64            `json:"durationSeconds,omitempty"`
	RedWon          *bool            `json:"redWon,omitempty"`
	Participants    []participantDTO `json:"participants,omitempty"`
}

type participantDTO struct {
	SummonerID     string     `json:"summonerId"`
	Name           string     `json:"name"`
	TagLine        string     `json:"tagLine,omitempty"`
	Team           string     `json:"team"`
	Position       string     `json:"position,omitempty"`
	Role           string     `json:"role,omitempty"`
	ChampionID     int64      `json:"championId"`
	SpellID1       int64      `json:"spellId1"`
	SpellID2       int64      `json:"spellId2"`
	PrimaryStyle   int64      `json:"primaryStyle,omitempty"`
	SecondaryStyle int64      `json:"secondaryStyle,omitempty"`
	RuneIDs        []int64    `json:"runeIds,omitempty"`
	StatRuneIDs    []int64    `json:"statRuneIds,omitempty"`
	MasteryPoints  *int64     `json:"masteryPoints,omitempty"`
	Bot            bool       `json:"bot,omitempty"`
	HasHistory     bool       `json:"hasHistory"`
	Tags           []tagDTO   `json:"tags,omitempty"`
	Alerts         []alertDTO `json:"alerts,omitempty"`
	Stats          *statsDTO  `json:"stats,omitempty"`
}

type alertDTO struct {
	Label    string `json:"label"`
	Detail   string `json:"detail"`
	Priority int    `json:"priority"`
	Color    string `json:"color"`
}

type statsDTO struct {
	Kills   int    `json:"kills"`
	Deaths  int    `json:"deaths"`
	Assists int    `json:"assists"`
	Items   []int  `json:"items"`
	Trinket int    `json:"trinket"`
	Gold    int    `json:"gold"`
	CS      int    `json:"cs"`
}

func trackedMatchToDTO(ctx context.Context, snapshot usecase.TrackedMatch) activeMatchDTO {
	_, span := startSpan(ctx, "httpapi.trackedMatchToDTO")
	defer span.End()

	out := activeMatchDTO{
		State:           string(snapshot.State),
		MatchID:         snapshot.Match.ID,
		QueueID:         snapshot.Match.QueueID,
		DurationSeconds: int64(snapshot.Match.Duration / time.Second),
		RedWon:          snapshot.Match.RedWon,
	}
	if snapshot.Match.StartTime != nil {
		out.StartedAtUTC = snapshot.Match.StartTime.UTC().Format(time.RFC3339)
	}

	slotByIndex := make(map[int]positioning.Slot, len(snapshot.Positions))
	for slot, idx := range snapshot.Positions {
		slotByIndex[idx] = slot
	}

	out.Participants = make([]participantDTO, 0, len(snapshot.Match.Participants))
	for i, p := range snapshot.Match.Participants {
		dto := participantToDTO(p)
		if slot, ok := slotByIndex[i]; ok {
			dto.Position = slot.String()
		}
		out.Participants = append(out.Participants, dto)
	}

	return out
}

func participantToDTO(p match.Participant) participantDTO {
	team := "blue"
	if p.TeamRed {
		team = "red"
	}

	dto := participantDTO{
		SummonerID:     p.SummonerID,
		Name:           p.Name,
		TagLine:        p.TagLine,
		Team:           team,
		Role:           string(p.Role),
		ChampionID:     p.ChampionID,
		SpellID1:       p.SpellID1,
		SpellID2:       p.SpellID2,
		PrimaryStyle:   p.PrimaryStyle,
		SecondaryStyle: p.SecondaryStyle,
		RuneIDs:        append([]int64(nil), p.RuneIDs...),
		StatRuneIDs:    append([]int64(nil), p.StatRuneIDs...),
		MasteryPoints:  p.MasteryPoints,
		Bot:            p.Bot,
		HasHistory:     p.HasHistory,
	}

	if len(p.Tags) > 0 {
		dto.Tags = make([]tagDTO, 0, len(p.Tags))
		for _, t := range p.Tags {
			dto.Tags = append(dto.Tags, tagToDTO(t))
		}
	}
	if len(p.Alerts) > 0 {
		dto.Alerts = make([]alertDTO, 0, len(p.Alerts))
		for _, a := range p.Alerts {
			dto.Alerts = append(dto.Alerts, alertToDTO(a))
		}
	}
	if p.Stats != nil {
		dto.Stats = &statsDTO{
			Kills:   p.Stats.Kills,
			Deaths:  p.Stats.Deaths,
			Assists: p.Stats.Assists,
			Items:   append([]int(nil), p.Stats.Items[:]...),
			Trinket: p.Stats.Trinket,
			Gold:    p.Stats.Gold,
			CS:      p.Stats.CS,
		}
	}

	return dto
}

func tagToDTO(t tag.Tag) tagDTO {
	return tagDTO{
		ID:           t.ID,
		SummonerID:   t.SummonerID,
		Kind:         string(t.Kind),
		Severity:     string(t.Severity),
		Note:         t.Note,
		CreatedAtUTC: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func alertToDTO(a alerting.Alert) alertDTO {
	return alertDTO{
		Label:    a.Label,
		Detail:   a.Detail,
		Priority: a.Priority,
		Color:    a.Color,
	}
}
