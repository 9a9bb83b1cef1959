package memory

import (
	"context"
	"sync"

	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
)

type TagRepository struct {
	mu         sync.RWMutex
	nextID     int64
	bySummoner map[string][]tag.Tag
}

func NewTagRepository() *TagRepository {
	return &TagRepository{bySummoner: make(map[string][]tag.Tag)}
}

func (r *TagRepository) ListBySummoner(_ context.Context, summonerID string) ([]tag.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := r.bySummoner[summonerID]
	out := make([]tag.Tag, 0, len(tags))
	out = append(out, tags...)

	return out, nil
}

func (r *TagRepository) Insert(_ context.Context, t tag.Tag) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t.ID = r.nextID
	r.bySummoner[t.SummonerID] = append(r.bySummoner[t.SummonerID], t)

	return t.ID, nil
}
