package memory

import (
	"testing"
	"time"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
	"github.com/Hatchie-47/LoLPanion/internal/domain/summoner"
)

func summonerFixture() summoner.Summoner {
	return summoner.Summoner{
		ID:            "sum-1",
		PUUID:         "puuid-1",
		Name:          "Hatchie",
		TagLine:       "4747",
		ProfileIconID: 4568,
		Level:         412,
	}
}

func TestMatchRepositoryUpsert_MergesInsteadOfClobbering(t *testing.T) {
	repo := NewMatchRepository()

	startAt := time.Date(2026, 4, 2, 20, 31, 0, 0, time.UTC)
	redWon := true
	full := match.Match{
		ID:        "EUW1_1",
		QueueID:   420,
		StartTime: &startAt,
		Duration:  30 * time.Minute,
		RedWon:    &redWon,
		Timeline:  []byte("{}"),
	}

	rowID, err := repo.Upsert(t.Context(), full)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// A later save without the optional fields must not erase them.
	sparse := match.Match{ID: "EUW1_1", QueueID: 420, Duration: 5 * time.Minute}
	againID, err := repo.Upsert(t.Context(), sparse)
	if err != nil {
		t.Fatalf("repeat upsert: %v", err)
	}
	if againID != rowID {
		t.Fatalf("expected a stable row id, got %d then %d", rowID, againID)
	}

	stored, _, ok := repo.Get("EUW1_1")
	if !ok {
		t.Fatal("expected the match stored")
	}
	if stored.StartTime == nil || !stored.StartTime.Equal(startAt) {
		t.Fatalf("start time clobbered: %v", stored.StartTime)
	}
	if stored.RedWon == nil || !*stored.RedWon {
		t.Fatal("outcome clobbered")
	}
	if stored.Timeline == nil {
		t.Fatal("timeline clobbered")
	}
	if stored.Duration != 30*time.Minute {
		t.Fatalf("duration regressed to %v", stored.Duration)
	}
}

func TestMatchRepositoryUpsertParticipants_ReplacesRoster(t *testing.T) {
	repo := NewMatchRepository()

	rowID, err := repo.Upsert(t.Context(), match.Match{ID: "EUW1_2", QueueID: 420})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	first := []match.Participant{{SummonerID: "sum-1"}}
	if err := repo.UpsertParticipants(t.Context(), rowID, first); err != nil {
		t.Fatalf("upsert participants: %v", err)
	}

	second := []match.Participant{{SummonerID: "sum-1"}, {SummonerID: "sum-2"}}
	if err := repo.UpsertParticipants(t.Context(), rowID, second); err != nil {
		t.Fatalf("repeat upsert participants: %v", err)
	}

	_, participants, _ := repo.Get("EUW1_2")
	if len(participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(participants))
	}
}

func TestSummonerRepositoryUpsert_KeepsKnownFields(t *testing.T) {
	repo := NewSummonerRepository()

	if err := repo.Upsert(t.Context(), summonerFixture()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// A roster-only record carries just the id.
	if err := repo.Upsert(t.Context(), summoner.Summoner{ID: "sum-1"}); err != nil {
		t.Fatalf("sparse upsert: %v", err)
	}

	stored, ok := repo.Get("sum-1")
	if !ok {
		t.Fatal("expected the summoner stored")
	}
	if stored.Name != "Hatchie" || stored.PUUID != "puuid-1" {
		t.Fatalf("profile fields clobbered: %+v", stored)
	}
	if stored.Level != 412 {
		t.Fatalf("level regressed to %d", stored.Level)
	}
}
