package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
	"github.com/Hatchie-47/LoLPanion/internal/domain/summoner"
	summonermock "github.com/Hatchie-47/LoLPanion/internal/mocks/domain/summoner"
	"github.com/Hatchie-47/LoLPanion/internal/infrastructure/repository/memory"
	"github.com/Hatchie-47/LoLPanion/internal/platform/logging"
)

func TestSaveMatch_UpsertsEveryHumanSummonerUsingMockery(t *testing.T) {
	t.Parallel()

	summonerRepo := summonermock.NewRepository(t)
	enricher := NewEnrichmentService(
		&providerStub{},
		memory.NewTagRepository(),
		summonerRepo,
		memory.NewMatchRepository(),
		nil,
		3,
		logging.NewNop(),
	)

	m := match.Match{
		ID:      "EUW1_600",
		QueueID: 420,
		Participants: []match.Participant{
			{SummonerID: "sum-1", PUUID: "puuid-1", Name: "One", TagLine: "EUW"},
			{Bot: true, ChampionID: 1},
			{SummonerID: "sum-2", PUUID: "puuid-2", Name: "Two", TagLine: "EUW"},
		},
	}

	summonerRepo.
		On("Upsert", mock.Anything, summoner.Summoner{ID: "sum-1", PUUID: "puuid-1", Name: "One", TagLine: "EUW"}).
		Return(nil).
		Once()
	summonerRepo.
		On("Upsert", mock.Anything, summoner.Summoner{ID: "sum-2", PUUID: "puuid-2", Name: "Two", TagLine: "EUW"}).
		Return(nil).
		Once()

	if err := enricher.SaveMatch(context.Background(), m); err != nil {
		t.Fatalf("save match: %v", err)
	}
}

func TestSaveMatch_SummonerFailureStopsChainUsingMockery(t *testing.T) {
	t.Parallel()

	summonerRepo := summonermock.NewRepository(t)
	enricher := NewEnrichmentService(
		&providerStub{},
		memory.NewTagRepository(),
		summonerRepo,
		memory.NewMatchRepository(),
		nil,
		3,
		logging.NewNop(),
	)

	m := match.Match{
		ID:      "EUW1_601",
		QueueID: 420,
		Participants: []match.Participant{
			{SummonerID: "sum-1", PUUID: "puuid-1"},
		},
	}

	summonerRepo.
		On("Upsert", mock.Anything, mock.AnythingOfType("summoner.Summoner")).
		Return(errors.New("constraint violation")).
		Once()

	if err := enricher.SaveMatch(context.Background(), m); err == nil {
		t.Fatal("expected the summoner upsert failure surfaced")
	}
}
