package postgres

import "time"

type tagTableModel struct {
	ID         int64     `db:"id"`
	SummonerID string    `db:"summoner_id"`
	Kind       string    `db:"kind"`
	Severity   string    `db:"severity"`
	Note       string    `db:"note"`
	CreatedAt  time.Time `db:"created_at"`
}

type tagInsertModel struct {
	SummonerID string    `db:"summoner_id"`
	Kind       string    `db:"kind"`
	Severity   string    `db:"severity"`
	Note       string    `db:"note"`
	CreatedAt  time.Time `db:"created_at"`
}
