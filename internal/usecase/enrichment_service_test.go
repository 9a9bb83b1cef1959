package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
	"github.com/Hatchie-47/LoLPanion/internal/domain/summoner"
	"github.com/Hatchie-47/LoLPanion/internal/infrastructure/repository/memory"
	"github.com/Hatchie-47/LoLPanion/internal/platform/cache"
	"github.com/Hatchie-47/LoLPanion/internal/platform/logging"
)

func newEnricher(provider MatchProvider, profiles *cache.Store) *EnrichmentService {
	return NewEnrichmentService(
		provider,
		memory.NewTagRepository(),
		memory.NewSummonerRepository(),
		memory.NewMatchRepository(),
		profiles,
		3,
		logging.NewNop(),
	)
}

func historyDetail(matchID, puuid string, teamRed, redWon bool) match.Match {
	won := redWon
	return match.Match{
		ID:       matchID,
		QueueID:  420,
		Duration: 28 * time.Minute,
		RedWon:   &won,
		Participants: []match.Participant{
			{SummonerID: "sum-" + puuid, PUUID: puuid, TeamRed: teamRed},
		},
	}
}

func TestEnrichParticipants_HistoryIsAllOrNothing(t *testing.T) {
	provider := &providerStub{}
	enricher := newEnricher(provider, nil)

	participant := match.Participant{SummonerID: "sum-1", PUUID: "puuid-1"}
	provider.idsFn = func(context.Context, string, int) ([]string, error) {
		return []string{"EUW1_1", "EUW1_2", "EUW1_3"}, nil
	}
	provider.detailFn = func(_ context.Context, matchID string) (match.Match, error) {
		if matchID == "EUW1_2" {
			return match.Match{}, ErrDependencyUnavailable
		}
		return historyDetail(matchID, "puuid-1", false, false), nil
	}

	updates := enricher.EnrichParticipants(t.Context(), []match.Participant{participant}, nil, nil)
	if len(updates) != 1 {
		t.Fatalf("expected one update, got %d", len(updates))
	}
	if updates[0].HistoryOK {
		t.Fatal("a partially fetched history must be discarded whole")
	}
	if updates[0].History != nil {
		t.Fatalf("expected no history entries, got %d", len(updates[0].History))
	}
	if !updates[0].ProfileOK {
		t.Fatal("the profile pass must not be dragged down by the history failure")
	}

	// The flaky match recovers; the next cycle gets the full sample.
	provider.detailFn = func(_ context.Context, matchID string) (match.Match, error) {
		return historyDetail(matchID, "puuid-1", false, false), nil
	}

	updates = enricher.EnrichParticipants(t.Context(), []match.Participant{participant}, nil, nil)
	if !updates[0].HistoryOK {
		t.Fatal("expected a complete history on the retry")
	}
	if len(updates[0].History) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(updates[0].History))
	}
	for _, entry := range updates[0].History {
		won, resolved := entry.Won()
		if !resolved || !won {
			t.Fatalf("blue-side player of a blue win: won=%v resolved=%v", won, resolved)
		}
	}
}

func TestEnrichParticipants_BotsSkipProviderLookups(t *testing.T) {
	provider := &providerStub{}
	var profileCalls atomic.Int64
	provider.profileFn = func(context.Context, string) (summoner.Summoner, error) {
		profileCalls.Add(1)
		return summoner.Summoner{}, nil
	}
	enricher := newEnricher(provider, nil)

	bot := match.Participant{Bot: true, ChampionID: 1}
	updates := enricher.EnrichParticipants(t.Context(), []match.Participant{bot},
		nil,
		func(match.Participant) bool { return false },
	)

	if !updates[0].ProfileOK {
		t.Fatal("a bot's profile pass counts as done")
	}
	if profileCalls.Load() != 0 {
		t.Fatal("bots have no provider identity to look up")
	}
}

func TestEnrichParticipants_BotsCountAsHistoryComplete(t *testing.T) {
	provider := &providerStub{}
	var idCalls atomic.Int64
	provider.idsFn = func(context.Context, string, int) ([]string, error) {
		idCalls.Add(1)
		return nil, nil
	}
	enricher := newEnricher(provider, nil)

	bot := match.Participant{Bot: true, ChampionID: 31}
	updates := enricher.EnrichParticipants(t.Context(), []match.Participant{bot}, nil, nil)

	if !updates[0].HistoryOK {
		t.Fatal("a bot's history pass counts as done, not retried forever")
	}
	if len(updates[0].History) != 0 {
		t.Fatalf("expected an empty history for a bot, got %d entries", len(updates[0].History))
	}
	if idCalls.Load() != 0 {
		t.Fatal("bots must not hit the match id endpoint")
	}
}

func TestEnrichParticipants_ProfileFailureIsIsolated(t *testing.T) {
	provider := &providerStub{}
	provider.profileFn = func(context.Context, string) (summoner.Summoner, error) {
		return summoner.Summoner{}, ErrDependencyUnavailable
	}
	enricher := newEnricher(provider, nil)

	participant := match.Participant{SummonerID: "sum-1", PUUID: "puuid-1"}
	updates := enricher.EnrichParticipants(t.Context(), []match.Participant{participant}, nil, nil)

	if updates[0].ProfileOK {
		t.Fatal("a failed profile fetch must not count as done")
	}
	if !updates[0].HistoryOK {
		t.Fatal("the history pass runs independently of the profile failure")
	}
}

func TestEnrichParticipants_MasteryMissIsTolerated(t *testing.T) {
	provider := &providerStub{}
	provider.masteryFn = func(context.Context, string, int64) (int64, error) {
		return 0, ErrNotFound
	}
	enricher := newEnricher(provider, nil)

	participant := match.Participant{SummonerID: "sum-1", PUUID: "puuid-1", ChampionID: 103}
	updates := enricher.EnrichParticipants(t.Context(), []match.Participant{participant},
		nil,
		func(match.Participant) bool { return false },
	)

	if !updates[0].ProfileOK {
		t.Fatal("a mastery miss must not fail the profile pass")
	}
	if updates[0].Mastery != nil {
		t.Fatalf("expected no mastery points, got %d", *updates[0].Mastery)
	}
}

func TestLoadProfile_UsesCache(t *testing.T) {
	provider := &providerStub{}
	var profileCalls atomic.Int64
	provider.profileFn = func(_ context.Context, summonerID string) (summoner.Summoner, error) {
		profileCalls.Add(1)
		return summoner.Summoner{ID: summonerID, Name: "Cached"}, nil
	}
	enricher := newEnricher(provider, cache.NewStore(time.Minute))

	participant := match.Participant{SummonerID: "sum-1", PUUID: "puuid-1"}
	skipHistory := func(match.Participant) bool { return false }

	for i := 0; i < 2; i++ {
		updates := enricher.EnrichParticipants(t.Context(), []match.Participant{participant}, nil, skipHistory)
		if !updates[0].ProfileOK {
			t.Fatalf("pass %d: expected the profile pass to succeed", i)
		}
		if updates[0].Profile == nil || updates[0].Profile.Name != "Cached" {
			t.Fatalf("pass %d: unexpected profile %+v", i, updates[0].Profile)
		}
	}

	if calls := profileCalls.Load(); calls != 1 {
		t.Fatalf("expected a single upstream profile fetch, got %d", calls)
	}
}

type failingMatchRepo struct {
	*memory.MatchRepository
	failUpsert       bool
	failParticipants bool
}

func (r *failingMatchRepo) Upsert(ctx context.Context, m match.Match) (int64, error) {
	if r.failUpsert {
		return 0, errors.New("connection reset")
	}
	return r.MatchRepository.Upsert(ctx, m)
}

func (r *failingMatchRepo) UpsertParticipants(ctx context.Context, matchRowID int64, participants []match.Participant) error {
	if r.failParticipants {
		return errors.New("disk full")
	}
	return r.MatchRepository.UpsertParticipants(ctx, matchRowID, participants)
}

func TestSaveMatch_ReportsPersistenceFailure(t *testing.T) {
	repo := &failingMatchRepo{MatchRepository: memory.NewMatchRepository(), failParticipants: true}
	enricher := NewEnrichmentService(
		&providerStub{},
		memory.NewTagRepository(),
		memory.NewSummonerRepository(),
		repo,
		nil,
		3,
		logging.NewNop(),
	)

	m := match.Match{
		ID:      "EUW1_500",
		QueueID: 420,
		Participants: []match.Participant{
			{SummonerID: "sum-1", PUUID: "puuid-1"},
		},
	}
	if err := enricher.SaveMatch(t.Context(), m); err == nil {
		t.Fatal("expected the participant upsert failure surfaced")
	}

	repo.failParticipants = false
	if err := enricher.SaveMatch(t.Context(), m); err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
}

func TestFetchRecentHistory_RequiresPUUID(t *testing.T) {
	enricher := newEnricher(&providerStub{}, nil)

	_, err := enricher.fetchRecentHistory(t.Context(), "")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
