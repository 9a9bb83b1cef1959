package match

import (
	"testing"
	"time"
)

func TestResolveOutcome_RemakeCutoff(t *testing.T) {
	m := Match{Duration: RemakeCutoff - time.Second}
	m.ResolveOutcome(true)
	if m.RedWon != nil {
		t.Fatalf("a remake must not carry an outcome, got %v", *m.RedWon)
	}

	m = Match{Duration: RemakeCutoff}
	m.ResolveOutcome(true)
	if m.RedWon == nil || !*m.RedWon {
		t.Fatal("a full-length match must resolve its outcome")
	}
}

func TestResolveOutcome_ClearsStaleOutcome(t *testing.T) {
	redWon := true
	m := Match{Duration: 3 * time.Minute, RedWon: &redWon}
	m.ResolveOutcome(false)
	if m.RedWon != nil {
		t.Fatal("resolving a remake must clear any stale outcome")
	}
}

func TestHistoryEntryWon(t *testing.T) {
	redWon := true
	entry := HistoryEntry{Own: Participant{TeamRed: true}, RedWon: &redWon}
	won, resolved := entry.Won()
	if !resolved || !won {
		t.Fatalf("red-side player of a red win: won=%v resolved=%v", won, resolved)
	}

	entry.Own.TeamRed = false
	won, resolved = entry.Won()
	if !resolved || won {
		t.Fatalf("blue-side player of a red win: won=%v resolved=%v", won, resolved)
	}

	entry.RedWon = nil
	if _, resolved = entry.Won(); resolved {
		t.Fatal("an unresolved match must not report an outcome")
	}
}

func TestResults_SkipsUnresolvedEntries(t *testing.T) {
	redWon := true
	entries := []HistoryEntry{
		{Own: Participant{TeamRed: true}, RedWon: &redWon},
		{Own: Participant{TeamRed: false}},
		{Own: Participant{TeamRed: false}, RedWon: &redWon},
	}

	results := Results(entries)
	if len(results) != 2 {
		t.Fatalf("expected 2 resolved results, got %d", len(results))
	}
	if !results[0] || results[1] {
		t.Fatalf("unexpected results: %v", results)
	}
}

func TestParticipantBySummoner(t *testing.T) {
	m := Match{Participants: []Participant{
		{SummonerID: "sum-1"},
		{SummonerID: "sum-2"},
	}}

	p := m.ParticipantBySummoner("sum-2")
	if p == nil {
		t.Fatal("expected participant sum-2")
	}
	p.Name = "renamed"
	if m.Participants[1].Name != "renamed" {
		t.Fatal("expected a pointer into the roster slice")
	}

	if m.ParticipantBySummoner("sum-3") != nil {
		t.Fatal("expected nil for an unknown summoner")
	}
}
