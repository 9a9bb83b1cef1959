package cache

import (
	"context"

	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
	basecache "github.com/Hatchie-47/LoLPanion/internal/platform/cache"
)

// TagRepository is a read-through decorator. Tags are read once per
// enrichment pass for every participant, so the list is cached and
// invalidated on insert.
type TagRepository struct {
	next  tag.Repository
	cache *basecache.Store
}

func NewTagRepository(next tag.Repository, cache *basecache.Store) *TagRepository {
	return &TagRepository{next: next, cache: cache}
}

func (r *TagRepository) ListBySummoner(ctx context.Context, summonerID string) ([]tag.Tag, error) {
	key := tagListKey(summonerID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySummoner(ctx, summonerID)
		if err != nil {
			return nil, err
		}
		return append([]tag.Tag(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]tag.Tag)
	return append([]tag.Tag(nil), items...), nil
}

func (r *TagRepository) Insert(ctx context.Context, t tag.Tag) (int64, error) {
	id, err := r.next.Insert(ctx, t)
	if err != nil {
		return 0, err
	}
	r.cache.Delete(ctx, tagListKey(t.SummonerID))
	return id, nil
}

func tagListKey(summonerID string) string {
	return "tag:list:summoner:" + summonerID
}
