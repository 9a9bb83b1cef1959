package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type matchTableModel struct {
	ID              int64          `db:"id"`
	ProviderMatchID string         `db:"provider_match_id"`
	QueueID         int64          `db:"queue_id"`
	StartTime       sql.NullTime   `db:"start_time"`
	DurationSeconds int64          `db:"duration_seconds"`
	RedWon          sql.NullBool   `db:"red_won"`
	Timeline        []byte         `db:"timeline"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	ProviderMatchID string     `db:"provider_match_id"`
	QueueID         int64      `db:"queue_id"`
	StartTime       *time.Time `db:"start_time"`
	DurationSeconds int64      `db:"duration_seconds"`
	RedWon          *bool      `db:"red_won"`
	Timeline        []byte     `db:"timeline"`
}

type participantInsertModel struct {
	MatchID        int64         `db:"match_id"`
	ParticipantKey string        `db:"participant_key"`
	SummonerID     string        `db:"summoner_id"`
	PUUID          string        `db:"puuid"`
	Name           string        `db:"name"`
	TagLine        string        `db:"tag_line"`
	TeamRed        bool          `db:"team_red"`
	Role           string        `db:"role"`
	ChampionID     int64         `db:"champion_id"`
	SpellID1       int64         `db:"spell_id_1"`
	SpellID2       int64         `db:"spell_id_2"`
	PrimaryStyle   int64         `db:"primary_style"`
	SecondaryStyle int64         `db:"secondary_style"`
	RuneIDs        pq.Int64Array `db:"rune_ids"`
	StatRuneIDs    pq.Int64Array `db:"stat_rune_ids"`
	MasteryPoints  *int64        `db:"mastery_points"`
	Bot            bool          `db:"is_bot"`
	Kills          *int          `db:"kills"`
	Deaths         *int          `db:"deaths"`
	Assists        *int          `db:"assists"`
	ItemIDs        pq.Int64Array `db:"item_ids"`
	TrinketID      *int          `db:"trinket_id"`
	Gold           *int          `db:"gold"`
	CS             *int          `db:"cs"`
}
