package riot

import (
	"fmt"
	"strings"
	"time"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
)

// Spectator v4 wire shapes.

type currentGameInfo struct {
	GameID            int64                    `json:"gameId"`
	GameQueueConfigID int64                    `json:"gameQueueConfigId"`
	GameStartTime     int64                    `json:"gameStartTime"`
	GameLength        int64                    `json:"gameLength"`
	PlatformID        string                   `json:"platformId"`
	Participants      []currentGameParticipant `json:"participants"`
}

type currentGameParticipant struct {
	TeamID        int64            `json:"teamId"`
	Spell1ID      int64            `json:"spell1Id"`
	Spell2ID      int64            `json:"spell2Id"`
	ChampionID    int64            `json:"championId"`
	ProfileIconID int64            `json:"profileIconId"`
	RiotID        string           `json:"riotId"`
	Bot           bool             `json:"bot"`
	SummonerID    string           `json:"summonerId"`
	PUUID         string           `json:"puuid"`
	Perks         currentGamePerks `json:"perks"`
}

type currentGamePerks struct {
	PerkIDs      []int64 `json:"perkIds"`
	PerkStyle    int64   `json:"perkStyle"`
	PerkSubStyle int64   `json:"perkSubStyle"`
}

// Match v5 wire shapes.

type matchEnvelope struct {
	Metadata matchMetadata `json:"metadata"`
	Info     matchInfo     `json:"info"`
}

type matchMetadata struct {
	MatchID string `json:"matchId"`
}

type matchInfo struct {
	GameDuration       int64              `json:"gameDuration"`
	GameStartTimestamp int64              `json:"gameStartTimestamp"`
	QueueID            int64              `json:"queueId"`
	Teams              []matchTeam        `json:"teams"`
	Participants       []matchParticipant `json:"participants"`
}

type matchTeam struct {
	TeamID int64 `json:"teamId"`
	Win    bool  `json:"win"`
}

type matchParticipant struct {
	PUUID             string     `json:"puuid"`
	SummonerID        string     `json:"summonerId"`
	SummonerName      string     `json:"summonerName"`
	RiotIDGameName    string     `json:"riotIdGameName"`
	RiotIDTagline     string     `json:"riotIdTagline"`
	TeamID            int64      `json:"teamId"`
	TeamPosition      string     `json:"teamPosition"`
	ChampionID        int64      `json:"championId"`
	Summoner1ID       int64      `json:"summoner1Id"`
	Summoner2ID       int64      `json:"summoner2Id"`
	Perks             matchPerks `json:"perks"`
	Kills             int        `json:"kills"`
	Deaths            int        `json:"deaths"`
	Assists           int        `json:"assists"`
	Item0             int        `json:"item0"`
	Item1             int        `json:"item1"`
	Item2             int        `json:"item2"`
	Item3             int        `json:"item3"`
	Item4             int        `json:"item4"`
	Item5             int        `json:"item5"`
	Item6             int        `json:"item6"`
	GoldEarned        int        `json:"goldEarned"`
	TotalMinionsKilled int       `json:"totalMinionsKilled"`
	NeutralMinionsKilled int     `json:"neutralMinionsKilled"`
}

type matchPerks struct {
	StatPerks matchStatPerks   `json:"statPerks"`
	Styles    []matchPerkStyle `json:"styles"`
}

type matchStatPerks struct {
	Defense int64 `json:"defense"`
	Flex    int64 `json:"flex"`
	Offense int64 `json:"offense"`
}

type matchPerkStyle struct {
	Description string               `json:"description"`
	Style       int64                `json:"style"`
	Selections  []matchPerkSelection `json:"selections"`
}

type matchPerkSelection struct {
	Perk int64 `json:"perk"`
}

// Summoner v4 / account v1 / mastery v4 wire shapes.

type summonerDTO struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	RevisionDate  int64  `json:"revisionDate"`
	SummonerLevel int    `json:"summonerLevel"`
}

type accountDTO struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type championMasteryDTO struct {
	ChampionID     int64 `json:"championId"`
	ChampionPoints int64 `json:"championPoints"`
}

const redTeamID = 200

var positionRole = map[string]match.Role{
	"TOP":     match.RoleTop,
	"JUNGLE":  match.RoleJungle,
	"MIDDLE":  match.RoleMid,
	"BOTTOM":  match.RoleBot,
	"UTILITY": match.RoleSupport,
}

func (g currentGameInfo) toDomain() match.Match {
	m := match.Match{
		ID:       fmt.Sprintf("%s_%d", strings.ToUpper(strings.TrimSpace(g.PlatformID)), g.GameID),
		QueueID:  g.GameQueueConfigID,
		Duration: time.Duration(g.GameLength) * time.Second,
	}
	if g.GameStartTime > 0 {
		start := time.UnixMilli(g.GameStartTime).UTC()
		m.StartTime = &start
	}

	m.Participants = make([]match.Participant, 0, len(g.Participants))
	for _, p := range g.Participants {
		name, tagLine := splitRiotID(p.RiotID)
		runes, statRunes := splitPerkIDs(p.Perks.PerkIDs)
		m.Participants = append(m.Participants, match.Participant{
			SummonerID:     p.SummonerID,
			PUUID:          p.PUUID,
			Name:           name,
			TagLine:        tagLine,
			TeamRed:        p.TeamID == redTeamID,
			Role:           match.RoleUnknown,
			ChampionID:     p.ChampionID,
			SpellID1:       p.Spell1ID,
			SpellID2:       p.Spell2ID,
			PrimaryStyle:   p.Perks.PerkStyle,
			SecondaryStyle: p.Perks.PerkSubStyle,
			RuneIDs:        runes,
			StatRuneIDs:    statRunes,
			Bot:            p.Bot,
		})
	}

	return m
}

func (e matchEnvelope) toDomain() match.Match {
	m := match.Match{
		ID:       e.Metadata.MatchID,
		QueueID:  e.Info.QueueID,
		Duration: time.Duration(e.Info.GameDuration) * time.Second,
	}
	if e.Info.GameStartTimestamp > 0 {
		start := time.UnixMilli(e.Info.GameStartTimestamp).UTC()
		m.StartTime = &start
	}
	for _, team := range e.Info.Teams {
		if team.TeamID == redTeamID {
			m.ResolveOutcome(team.Win)
			break
		}
	}

	m.Participants = make([]match.Participant, 0, len(e.Info.Participants))
	for _, p := range e.Info.Participants {
		runes, statRunes, primary, secondary := flattenPerks(p.Perks)
		name := p.RiotIDGameName
		if name == "" {
			name = p.SummonerName
		}
		m.Participants = append(m.Participants, match.Participant{
			SummonerID:     p.SummonerID,
			PUUID:          p.PUUID,
			Name:           name,
			TagLine:        p.RiotIDTagline,
			TeamRed:        p.TeamID == redTeamID,
			Role:           positionRole[strings.ToUpper(strings.TrimSpace(p.TeamPosition))],
			ChampionID:     p.ChampionID,
			SpellID1:       p.Summoner1ID,
			SpellID2:       p.Summoner2ID,
			PrimaryStyle:   primary,
			SecondaryStyle: secondary,
			RuneIDs:        runes,
			StatRuneIDs:    statRunes,
			Stats: &match.Stats{
				Kills:   p.Kills,
				Deaths:  p.Deaths,
				Assists: p.Assists,
				Items:   [6]int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5},
				Trinket: p.Item6,
				Gold:    p.GoldEarned,
				CS:      p.TotalMinionsKilled + p.NeutralMinionsKilled,
			},
		})
	}

	return m
}

// splitPerkIDs separates the spectator perk list into the six rune
// selections and the three stat shards.
func splitPerkIDs(ids []int64) (runes, statRunes []int64) {
	if len(ids) <= 6 {
		return append([]int64(nil), ids...), nil
	}
	return append([]int64(nil), ids[:6]...), append([]int64(nil), ids[6:]...)
}

func flattenPerks(perks matchPerks) (runes, statRunes []int64, primary, secondary int64) {
	for _, style := range perks.Styles {
		switch strings.ToLower(style.Description) {
		case "primarystyle":
			primary = style.Style
		case "substyle":
			secondary = style.Style
		}
		for _, sel := range style.Selections {
			runes = append(runes, sel.Perk)
		}
	}
	statRunes = []int64{perks.StatPerks.Defense, perks.StatPerks.Flex, perks.StatPerks.Offense}
	return runes, statRunes, primary, secondary
}

func splitRiotID(riotID string) (name, tagLine string) {
	parts := strings.SplitN(riotID, "#", 2)
	name = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		tagLine = strings.TrimSpace(parts[1])
	}
	return name, tagLine
}
