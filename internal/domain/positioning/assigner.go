package positioning

import (
	"fmt"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
)

// SlotsPerTeam is fixed by the game: one slot per canonical role.
const SlotsPerTeam = 5

// Slot is one of the ten canonical display positions. Index runs 1..5 and
// corresponds to TOP, JUNGLE, MID, BOT, SUPPORT in that order.
type Slot struct {
	TeamRed bool
	Index   int
}

func (s Slot) String() string {
	team := "blue"
	if s.TeamRed {
		team = "red"
	}
	return fmt.Sprintf("%s_%d", team, s.Index)
}

// Assignment maps slots to indexes into the participant slice it was built
// from. Slots without a participant are absent.
type Assignment map[Slot]int

var roleSlotIndex = map[match.Role]int{
	match.RoleTop:     1,
	match.RoleJungle:  2,
	match.RoleMid:     3,
	match.RoleBot:     4,
	match.RoleSupport: 5,
}

// Assign places every participant into a team slot. Participants with a
// declared role claim their canonical slot first-seen-wins; everyone else
// fills the lowest still-empty slot of their team in encounter order.
// The result is deterministic for a fixed input ordering and stable under
// re-invocation.
func Assign(participants []match.Participant) Assignment {
	out := make(Assignment, len(participants))

	for _, red := range []bool{false, true} {
		taken := [SlotsPerTeam + 1]bool{}
		unmatched := make([]int, 0, SlotsPerTeam)

		for i, p := range participants {
			if p.TeamRed != red {
				continue
			}
			idx, known := roleSlotIndex[p.Role]
			if known && !taken[idx] {
				taken[idx] = true
				out[Slot{TeamRed: red, Index: idx}] = i
				continue
			}
			unmatched = append(unmatched, i)
		}

		next := 1
		for _, i := range unmatched {
			for next <= SlotsPerTeam && taken[next] {
				next++
			}
			if next > SlotsPerTeam {
				break
			}
			taken[next] = true
			out[Slot{TeamRed: red, Index: next}] = i
		}
	}

	return out
}
