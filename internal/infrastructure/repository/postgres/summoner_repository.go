package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Hatchie-47/LoLPanion/internal/domain/summoner"
	qb "github.com/Hatchie-47/LoLPanion/internal/platform/querybuilder"
)

type SummonerRepository struct {
	db *sqlx.DB
}

func NewSummonerRepository(db *sqlx.DB) *SummonerRepository {
	return &SummonerRepository{db: db}
}

// Upsert writes the summoner keyed by the provider's encrypted id. Empty
// incoming name fields never erase previously stored ones; the spectator
// roster often carries less identity than the account endpoint does.
func (r *SummonerRepository) Upsert(ctx context.Context, s summoner.Summoner) error {
	insertModel := summonerInsertModel{
		SummonerID:    s.ID,
		PUUID:         s.PUUID,
		Name:          s.Name,
		TagLine:       s.TagLine,
		ProfileIconID: s.ProfileIconID,
		Level:         s.Level,
	}
	if !s.RevisionDate.IsZero() {
		revision := s.RevisionDate
		insertModel.RevisionDate = &revision
	}

	query, args, err := qb.InsertModel("summoners", insertModel, `ON CONFLICT (summoner_id)
DO UPDATE SET
    puuid = COALESCE(NULLIF(EXCLUDED.puuid, ''), summoners.puuid),
    name = COALESCE(NULLIF(EXCLUDED.name, ''), summoners.name),
    tag_line = COALESCE(NULLIF(EXCLUDED.tag_line, ''), summoners.tag_line),
    profile_icon_id = CASE WHEN EXCLUDED.profile_icon_id > 0 THEN EXCLUDED.profile_icon_id ELSE summoners.profile_icon_id END,
    level = GREATEST(EXCLUDED.level, summoners.level),
    revision_date = COALESCE(EXCLUDED.revision_date, summoners.revision_date),
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert summoner query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert summoner %s: %w", s.ID, err)
	}

	return nil
}
