package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
	"github.com/Hatchie-47/LoLPanion/internal/domain/summoner"
	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
	"github.com/Hatchie-47/LoLPanion/internal/platform/cache"
	"github.com/Hatchie-47/LoLPanion/internal/platform/logging"
)

const (
	defaultHistorySize    = 10
	defaultHistoryWorkers = 4
)

// ParticipantUpdate is the outcome of one participant's enrichment pass.
// A false OK flag means the fetch failed and the caller must leave the
// participant's existing data untouched and retry next cycle.
type ParticipantUpdate struct {
	SummonerID string
	Profile    *summoner.Summoner
	Mastery    *int64
	Tags       []tag.Tag
	ProfileOK  bool
	History    []match.HistoryEntry
	HistoryOK  bool
}

// EnrichmentService pulls everything beyond the bare roster into participant
// records, tolerating that any individual upstream call can fail.
type EnrichmentService struct {
	provider       MatchProvider
	tagRepo        tag.Repository
	summonerRepo   summoner.Repository
	matchRepo      match.Repository
	profiles       *cache.Store
	historySize    int
	historyWorkers int
	logger         *logging.Logger
}

func NewEnrichmentService(
	provider MatchProvider,
	tagRepo tag.Repository,
	summonerRepo summoner.Repository,
	matchRepo match.Repository,
	profiles *cache.Store,
	historySize int,
	logger *logging.Logger,
) *EnrichmentService {
	if historySize < 1 {
		historySize = defaultHistorySize
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &EnrichmentService{
		provider:       provider,
		tagRepo:        tagRepo,
		summonerRepo:   summonerRepo,
		matchRepo:      matchRepo,
		profiles:       profiles,
		historySize:    historySize,
		historyWorkers: defaultHistoryWorkers,
		logger:         logger,
	}
}

// EnrichParticipants runs the profile/tags/mastery and history fan-out for
// the selected participants. Every launched fetch is observed (success or
// failure) before the function returns, so the caller can announce the cycle
// atomically.
func (s *EnrichmentService) EnrichParticipants(
	ctx context.Context,
	participants []match.Participant,
	needProfile func(match.Participant) bool,
	needHistory func(match.Participant) bool,
) []ParticipantUpdate {
	ctx, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.EnrichParticipants")
	defer span.End()

	updates := make([]ParticipantUpdate, len(participants))
	workers := pool.New().WithContext(ctx)

	for i := range participants {
		i := i
		p := participants[i]
		doProfile := needProfile == nil || needProfile(p)
		doHistory := needHistory == nil || needHistory(p)
		updates[i] = ParticipantUpdate{SummonerID: p.SummonerID}
		if !doProfile && !doHistory {
			continue
		}

		workers.Go(func(ctx context.Context) error {
			updates[i] = s.enrichOne(ctx, p, doProfile, doHistory)
			return nil
		})
	}

	_ = workers.Wait()
	return updates
}

func (s *EnrichmentService) enrichOne(ctx context.Context, p match.Participant, doProfile, doHistory bool) ParticipantUpdate {
	update := ParticipantUpdate{SummonerID: p.SummonerID}

	if doProfile {
		s.fetchParticipantDetail(ctx, p, &update)
	}
	if doHistory {
		if p.Bot {
			// Same as the profile pass: a bot has no provider identity,
			// so its history counts as done rather than failing forever.
			update.HistoryOK = true
		} else if entries, err := s.fetchRecentHistory(ctx, p.PUUID); err != nil {
			s.logger.WarnContext(ctx, "history fetch incomplete, discarding partial result",
				"summoner_id", p.SummonerID, "error", err)
		} else {
			update.History = entries
			update.HistoryOK = true
		}
	}

	return update
}

// fetchParticipantDetail loads profile fields, durable tags and champion
// mastery. Bots have no provider identity and are skipped whole.
func (s *EnrichmentService) fetchParticipantDetail(ctx context.Context, p match.Participant, update *ParticipantUpdate) {
	if p.Bot {
		update.ProfileOK = true
		return
	}

	profile, err := s.loadProfile(ctx, p.SummonerID)
	if err != nil {
		s.logger.WarnContext(ctx, "summoner profile fetch failed",
			"summoner_id", p.SummonerID, "error", err)
		return
	}

	tags, err := s.tagRepo.ListBySummoner(ctx, p.SummonerID)
	if err != nil {
		s.logger.WarnContext(ctx, "tag lookup failed",
			"summoner_id", p.SummonerID, "error", err)
		return
	}

	update.Profile = &profile
	update.Tags = tags
	update.ProfileOK = true

	if p.PUUID == "" || p.ChampionID <= 0 {
		return
	}
	points, err := s.provider.ChampionMasteryPoints(ctx, p.PUUID, p.ChampionID)
	if err != nil {
		// Mastery is decorative; a miss does not fail the profile pass.
		s.logger.DebugContext(ctx, "champion mastery fetch failed",
			"summoner_id", p.SummonerID, "champion_id", p.ChampionID, "error", err)
		return
	}
	update.Mastery = &points
}

func (s *EnrichmentService) loadProfile(ctx context.Context, summonerID string) (summoner.Summoner, error) {
	if s.profiles == nil {
		return s.provider.SummonerProfile(ctx, summonerID)
	}

	value, err := s.profiles.GetOrLoad(ctx, "profile:"+summonerID, func(ctx context.Context) (any, error) {
		return s.provider.SummonerProfile(ctx, summonerID)
	})
	if err != nil {
		return summoner.Summoner{}, err
	}

	profile, ok := value.(summoner.Summoner)
	if !ok {
		return summoner.Summoner{}, fmt.Errorf("unexpected cached profile type %T", value)
	}
	return profile, nil
}

// fetchRecentHistory aggregates the summoner's last ranked games. The result
// only counts once every constituent fetch succeeded; a partial set is
// discarded so win-rate and streak statistics are never skewed by an
// incomplete sample.
func (s *EnrichmentService) fetchRecentHistory(ctx context.Context, puuid string) ([]match.HistoryEntry, error) {
	if puuid == "" {
		return nil, fmt.Errorf("%w: puuid is required for history", ErrInvalidInput)
	}

	ids, err := s.provider.RecentRankedMatchIDs(ctx, puuid, s.historySize)
	if err != nil {
		return nil, fmt.Errorf("list recent match ids: %w", err)
	}
	if len(ids) == 0 {
		return []match.HistoryEntry{}, nil
	}

	entries := make([]match.HistoryEntry, len(ids))
	errs := make([]error, len(ids))

	workers, err := ants.NewPool(s.historyWorkers)
	if err != nil {
		return nil, fmt.Errorf("create history worker pool: %w", err)
	}
	defer workers.Release()

	var wg sync.WaitGroup
	for i, id := range ids {
		i, id := i, id
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			entries[i], errs[i] = s.fetchHistoryEntry(ctx, id, puuid)
		}); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit history fetch: %w", err)
		}
	}
	wg.Wait()

	for i, fetchErr := range errs {
		if fetchErr != nil {
			return nil, fmt.Errorf("fetch history match %s: %w", ids[i], fetchErr)
		}
	}

	return entries, nil
}

func (s *EnrichmentService) fetchHistoryEntry(ctx context.Context, matchID, puuid string) (match.HistoryEntry, error) {
	detail, err := s.provider.MatchDetail(ctx, matchID)
	if err != nil {
		return match.HistoryEntry{}, err
	}

	for _, p := range detail.Participants {
		if p.PUUID != puuid {
			continue
		}
		return match.HistoryEntry{
			MatchID: detail.ID,
			Own:     p,
			RedWon:  detail.RedWon,
		}, nil
	}

	return match.HistoryEntry{}, fmt.Errorf("summoner missing from match %s", matchID)
}

// MatchDetail fetches the authoritative post-game record, all-or-nothing.
func (s *EnrichmentService) MatchDetail(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.MatchDetail")
	defer span.End()

	return s.provider.MatchDetail(ctx, matchID)
}

// MatchTimeline fetches the raw timeline payload, all-or-nothing.
func (s *EnrichmentService) MatchTimeline(ctx context.Context, matchID string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.MatchTimeline")
	defer span.End()

	return s.provider.MatchTimeline(ctx, matchID)
}

// PersistStartTime writes the refined start timestamp through to storage.
// Idempotent; safe to repeat on every poll until it succeeds.
func (s *EnrichmentService) PersistStartTime(ctx context.Context, matchID string, start time.Time) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.PersistStartTime")
	defer span.End()

	return s.matchRepo.UpdateStartTime(ctx, matchID, start)
}

// SaveSummoner upserts a single summoner record outside the match chain.
func (s *EnrichmentService) SaveSummoner(ctx context.Context, record summoner.Summoner) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.SaveSummoner")
	defer span.End()

	if err := s.summonerRepo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("upsert summoner %s: %w", record.ID, err)
	}
	return nil
}

// SaveMatch runs the idempotent upsert chain for a match and its
// participants. The error is reported to the caller, never escalated into
// the polling loop.
func (s *EnrichmentService) SaveMatch(ctx context.Context, m match.Match) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.SaveMatch")
	defer span.End()

	rowID, err := s.matchRepo.Upsert(ctx, m)
	if err != nil {
		return fmt.Errorf("upsert match %s: %w", m.ID, err)
	}

	for _, p := range m.Participants {
		if p.Bot {
			continue
		}
		record := summoner.Summoner{
			ID:      p.SummonerID,
			PUUID:   p.PUUID,
			Name:    p.Name,
			TagLine: p.TagLine,
		}
		if err := s.summonerRepo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("upsert summoner %s: %w", p.SummonerID, err)
		}
	}

	if err := s.matchRepo.UpsertParticipants(ctx, rowID, m.Participants); err != nil {
		return fmt.Errorf("upsert participants for match %s: %w", m.ID, err)
	}

	return nil
}
