package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
	qb "github.com/Hatchie-47/LoLPanion/internal/platform/querybuilder"
)

type TagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) ListBySummoner(ctx context.Context, summonerID string) ([]tag.Tag, error) {
	query, args, err := qb.Select("*").From("tags").
		Where(qb.Eq("summoner_id", summonerID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tags query: %w", err)
	}

	var rows []tagTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tags summoner=%s: %w", summonerID, err)
	}

	out := make([]tag.Tag, 0, len(rows))
	for _, row := range rows {
		out = append(out, tag.Tag{
			ID:         row.ID,
			SummonerID: row.SummonerID,
			Kind:       tag.Kind(row.Kind),
			Severity:   tag.Severity(row.Severity),
			Note:       row.Note,
			CreatedAt:  row.CreatedAt,
		})
	}

	return out, nil
}

func (r *TagRepository) Insert(ctx context.Context, t tag.Tag) (int64, error) {
	insertModel := tagInsertModel{
		SummonerID: t.SummonerID,
		Kind:       string(t.Kind),
		Severity:   string(t.Severity),
		Note:       t.Note,
		CreatedAt:  t.CreatedAt,
	}
	query, args, err := qb.InsertModel("tags", insertModel, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert tag query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert tag summoner=%s: %w", t.SummonerID, err)
	}

	return id, nil
}
