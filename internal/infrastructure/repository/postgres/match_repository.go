package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
	qb "github.com/Hatchie-47/LoLPanion/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert writes the match row keyed by the provider's match id and returns
// the internal row id. Repeating the call with the same match is safe; NULL
// start times and timelines never overwrite previously stored values.
func (r *MatchRepository) Upsert(ctx context.Context, m match.Match) (int64, error) {
	insertModel := matchInsertModel{
		ProviderMatchID: m.ID,
		QueueID:         m.QueueID,
		StartTime:       m.StartTime,
		DurationSeconds: int64(m.Duration / time.Second),
		RedWon:          m.RedWon,
		Timeline:        m.Timeline,
	}
	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (provider_match_id)
DO UPDATE SET
    queue_id = EXCLUDED.queue_id,
    start_time = COALESCE(EXCLUDED.start_time, matches.start_time),
    duration_seconds = GREATEST(EXCLUDED.duration_seconds, matches.duration_seconds),
    red_won = COALESCE(EXCLUDED.red_won, matches.red_won),
    timeline = COALESCE(EXCLUDED.timeline, matches.timeline),
    updated_at = NOW()
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert match query: %w", err)
	}

	var rowID int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&rowID); err != nil {
		return 0, fmt.Errorf("upsert match %s: %w", m.ID, err)
	}

	return rowID, nil
}

func (r *MatchRepository) UpdateStartTime(ctx context.Context, providerMatchID string, start time.Time) error {
	query, args, err := qb.Update("matches").
		Set("start_time", start).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("provider_match_id", providerMatchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match start time query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update start time match %s: %w", providerMatchID, err)
	}

	return nil
}

func (r *MatchRepository) UpsertParticipants(ctx context.Context, matchRowID int64, participants []match.Participant) error {
	if len(participants) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert participants: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range participants {
		insertModel := participantInsertModel{
			MatchID:        matchRowID,
			ParticipantKey: participantKey(p),
			SummonerID:     p.SummonerID,
			PUUID:          p.PUUID,
			Name:           p.Name,
			TagLine:        p.TagLine,
			TeamRed:        p.TeamRed,
			Role:           string(p.Role),
			ChampionID:     p.ChampionID,
			SpellID1:       p.SpellID1,
			SpellID2:       p.SpellID2,
			PrimaryStyle:   p.PrimaryStyle,
			SecondaryStyle: p.SecondaryStyle,
			RuneIDs:        pq.Int64Array(p.RuneIDs),
			StatRuneIDs:    pq.Int64Array(p.StatRuneIDs),
			MasteryPoints:  p.MasteryPoints,
			Bot:            p.Bot,
		}
		if p.Stats != nil {
			items := make(pq.Int64Array, 0, len(p.Stats.Items))
			for _, item := range p.Stats.Items {
				items = append(items, int64(item))
			}
			insertModel.Kills = intPtr(p.Stats.Kills)
			insertModel.Deaths = intPtr(p.Stats.Deaths)
			insertModel.Assists = intPtr(p.Stats.Assists)
			insertModel.ItemIDs = items
			insertModel.TrinketID = intPtr(p.Stats.Trinket)
			insertModel.Gold = intPtr(p.Stats.Gold)
			insertModel.CS = intPtr(p.Stats.CS)
		}

		query, args, err := qb.InsertModel("participants", insertModel, `ON CONFLICT (match_id, participant_key)
DO UPDATE SET
    summoner_id = EXCLUDED.summoner_id,
    puuid = EXCLUDED.puuid,
    name = EXCLUDED.name,
    tag_line = EXCLUDED.tag_line,
    team_red = EXCLUDED.team_red,
    role = EXCLUDED.role,
    champion_id = EXCLUDED.champion_id,
    spell_id_1 = EXCLUDED.spell_id_1,
    spell_id_2 = EXCLUDED.spell_id_2,
    primary_style = EXCLUDED.primary_style,
    secondary_style = EXCLUDED.secondary_style,
    rune_ids = EXCLUDED.rune_ids,
    stat_rune_ids = EXCLUDED.stat_rune_ids,
    mastery_points = COALESCE(EXCLUDED.mastery_points, participants.mastery_points),
    is_bot = EXCLUDED.is_bot,
    kills = COALESCE(EXCLUDED.kills, participants.kills),
    deaths = COALESCE(EXCLUDED.deaths, participants.deaths),
    assists = COALESCE(EXCLUDED.assists, participants.assists),
    item_ids = COALESCE(EXCLUDED.item_ids, participants.item_ids),
    trinket_id = COALESCE(EXCLUDED.trinket_id, participants.trinket_id),
    gold = COALESCE(EXCLUDED.gold, participants.gold),
    cs = COALESCE(EXCLUDED.cs, participants.cs),
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert participant query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert participant key=%s: %w", participantKey(p), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert participants tx: %w", err)
	}
	return nil
}

// participantKey keeps bot entries distinct within a match; bots carry no
// summoner id so the champion and side stand in for one.
func participantKey(p match.Participant) string {
	if p.SummonerID != "" {
		return p.SummonerID
	}
	side := "blue"
	if p.TeamRed {
		side = "red"
	}
	return fmt.Sprintf("bot:%s:%d", side, p.ChampionID)
}

func intPtr(v int) *int {
	return &v
}
