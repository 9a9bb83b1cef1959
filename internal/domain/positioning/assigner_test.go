package positioning

import (
	"testing"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
)

func fullRoster() []match.Participant {
	return []match.Participant{
		{SummonerID: "b-top", Role: match.RoleTop},
		{SummonerID: "b-jgl", Role: match.RoleJungle},
		{SummonerID: "b-mid", Role: match.RoleMid},
		{SummonerID: "b-bot", Role: match.RoleBot},
		{SummonerID: "b-sup", Role: match.RoleSupport},
		{SummonerID: "r-top", Role: match.RoleTop, TeamRed: true},
		{SummonerID: "r-jgl", Role: match.RoleJungle, TeamRed: true},
		{SummonerID: "r-mid", Role: match.RoleMid, TeamRed: true},
		{SummonerID: "r-bot", Role: match.RoleBot, TeamRed: true},
		{SummonerID: "r-sup", Role: match.RoleSupport, TeamRed: true},
	}
}

func TestAssign_DeclaredRolesClaimCanonicalSlots(t *testing.T) {
	participants := fullRoster()
	assignment := Assign(participants)

	if len(assignment) != 10 {
		t.Fatalf("expected all 10 slots filled, got %d", len(assignment))
	}

	want := map[Slot]string{
		{TeamRed: false, Index: 1}: "b-top",
		{TeamRed: false, Index: 2}: "b-jgl",
		{TeamRed: false, Index: 3}: "b-mid",
		{TeamRed: false, Index: 4}: "b-bot",
		{TeamRed: false, Index: 5}: "b-sup",
		{TeamRed: true, Index: 1}:  "r-top",
		{TeamRed: true, Index: 2}:  "r-jgl",
		{TeamRed: true, Index: 3}:  "r-mid",
		{TeamRed: true, Index: 4}:  "r-bot",
		{TeamRed: true, Index: 5}:  "r-sup",
	}
	for slot, wantID := range want {
		idx, ok := assignment[slot]
		if !ok {
			t.Fatalf("slot %s unassigned", slot)
		}
		if participants[idx].SummonerID != wantID {
			t.Fatalf("slot %s: expected %s, got %s", slot, wantID, participants[idx].SummonerID)
		}
	}
}

func TestAssign_IsBijective(t *testing.T) {
	assignment := Assign(fullRoster())

	seen := make(map[int]Slot, len(assignment))
	for slot, idx := range assignment {
		if prior, dup := seen[idx]; dup {
			t.Fatalf("participant %d assigned to both %s and %s", idx, prior, slot)
		}
		seen[idx] = slot
	}
}

func TestAssign_DuplicateRoleFirstSeenWins(t *testing.T) {
	participants := []match.Participant{
		{SummonerID: "first-mid", Role: match.RoleMid},
		{SummonerID: "second-mid", Role: match.RoleMid},
		{SummonerID: "top", Role: match.RoleTop},
	}

	assignment := Assign(participants)

	if got := participants[assignment[Slot{Index: 3}]].SummonerID; got != "first-mid" {
		t.Fatalf("expected first-mid in the mid slot, got %s", got)
	}
	// The displaced duplicate falls into the lowest still-empty slot, which
	// is jungle once top and mid are taken.
	if got := participants[assignment[Slot{Index: 2}]].SummonerID; got != "second-mid" {
		t.Fatalf("expected second-mid in the jungle slot, got %s", got)
	}
	if got := participants[assignment[Slot{Index: 1}]].SummonerID; got != "top" {
		t.Fatalf("expected top in the top slot, got %s", got)
	}
}

func TestAssign_UnknownRolesFillInEncounterOrder(t *testing.T) {
	participants := []match.Participant{
		{SummonerID: "a"},
		{SummonerID: "b", Role: match.RoleJungle},
		{SummonerID: "c"},
		{SummonerID: "d"},
	}

	assignment := Assign(participants)

	want := map[Slot]string{
		{Index: 1}: "a",
		{Index: 2}: "b",
		{Index: 3}: "c",
		{Index: 4}: "d",
	}
	for slot, wantID := range want {
		idx, ok := assignment[slot]
		if !ok {
			t.Fatalf("slot %s unassigned", slot)
		}
		if participants[idx].SummonerID != wantID {
			t.Fatalf("slot %s: expected %s, got %s", slot, wantID, participants[idx].SummonerID)
		}
	}
}

func TestAssign_StableUnderReinvocation(t *testing.T) {
	participants := fullRoster()
	participants[2].Role = match.RoleUnknown
	participants[7].Role = match.RoleUnknown

	first := Assign(participants)
	second := Assign(participants)

	if len(first) != len(second) {
		t.Fatalf("assignment size changed between runs: %d vs %d", len(first), len(second))
	}
	for slot, idx := range first {
		if second[slot] != idx {
			t.Fatalf("slot %s moved between runs: %d vs %d", slot, idx, second[slot])
		}
	}
}

func TestSlotString(t *testing.T) {
	if got := (Slot{Index: 3}).String(); got != "blue_3" {
		t.Fatalf("expected blue_3, got %s", got)
	}
	if got := (Slot{TeamRed: true, Index: 1}).String(); got != "red_1" {
		t.Fatalf("expected red_1, got %s", got)
	}
}
