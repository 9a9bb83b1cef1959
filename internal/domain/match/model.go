package match

import (
	"time"

	"github.com/Hatchie-47/LoLPanion/internal/domain/alerting"
	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
)

// RemakeCutoff is the minimum duration before a winner may be resolved.
// Shorter games are remakes and never carry an outcome.
const RemakeCutoff = 15 * time.Minute

type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMid     Role = "MID"
	RoleBot     Role = "BOT"
	RoleSupport Role = "SUPPORT"
	RoleUnknown Role = ""
)

// Match is one game of the tracked summoner, identified by the provider's
// platform-qualified match id (for example "EUW1_7011223344").
type Match struct {
	ID           string
	QueueID      int64
	StartTime    *time.Time
	Duration     time.Duration
	RedWon       *bool
	Participants []Participant
	Timeline     []byte
}

// Stats is the post-game block, present only once match detail arrived.
type Stats struct {
	Kills   int
	Deaths  int
	Assists int
	Items   [6]int
	Trinket int
	Gold    int
	CS      int
}

// Participant is exclusively owned by its Match.
type Participant struct {
	SummonerID    string
	PUUID         string
	Name          string
	TagLine       string
	TeamRed       bool
	Role          Role
	ChampionID    int64
	SpellID1      int64
	SpellID2      int64
	PrimaryStyle  int64
	SecondaryStyle int64
	RuneIDs       []int64
	StatRuneIDs   []int64
	MasteryPoints *int64
	Bot           bool
	Stats         *Stats
	Tags          []tag.Tag
	Alerts        []alerting.Alert
	HasHistory    bool
}

// HistoryEntry is one past ranked game reduced to a single summoner's own
// participant record plus the match's resolved outcome.
type HistoryEntry struct {
	MatchID string
	Own     Participant
	RedWon  *bool
}

// Won reports whether the summoner won, and whether the outcome is resolved
// at all. Remakes and still-unprocessed games report resolved=false.
func (e HistoryEntry) Won() (won, resolved bool) {
	if e.RedWon == nil {
		return false, false
	}
	return *e.RedWon == e.Own.TeamRed, true
}

// Results reduces history entries to resolved outcomes, preserving order.
func Results(entries []HistoryEntry) []bool {
	out := make([]bool, 0, len(entries))
	for _, e := range entries {
		won, resolved := e.Won()
		if !resolved {
			continue
		}
		out = append(out, won)
	}
	return out
}

// ResolveOutcome records the winning side, unless the match is too short to
// have one.
func (m *Match) ResolveOutcome(redWon bool) {
	if m.Duration < RemakeCutoff {
		m.RedWon = nil
		return
	}
	m.RedWon = &redWon
}

// ParticipantBySummoner returns a pointer into the participant slice, or nil.
func (m *Match) ParticipantBySummoner(summonerID string) *Participant {
	for i := range m.Participants {
		if m.Participants[i].SummonerID == summonerID {
			return &m.Participants[i]
		}
	}
	return nil
}

// ParticipantIDs lists the summoner ids in roster order.
func (m *Match) ParticipantIDs() []string {
	out := make([]string, 0, len(m.Participants))
	for _, p := range m.Participants {
		out = append(out, p.SummonerID)
	}
	return out
}
