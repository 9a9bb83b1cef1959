package postgres

import "time"

type summonerInsertModel struct {
	SummonerID    string     `db:"summoner_id"`
	PUUID         string     `db:"puuid"`
	Name          string     `db:"name"`
	TagLine       string     `db:"tag_line"`
	ProfileIconID int        `db:"profile_icon_id"`
	Level         int        `db:"level"`
	RevisionDate  *time.Time `db:"revision_date"`
}
