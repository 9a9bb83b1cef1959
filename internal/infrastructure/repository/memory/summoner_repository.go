package memory

import (
	"context"
	"sync"

	"github.com/Hatchie-47/LoLPanion/internal/domain/summoner"
)

type SummonerRepository struct {
	mu   sync.RWMutex
	byID map[string]summoner.Summoner
}

func NewSummonerRepository() *SummonerRepository {
	return &SummonerRepository{byID: make(map[string]summoner.Summoner)}
}

func (r *SummonerRepository) Upsert(_ context.Context, s summoner.Summoner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[s.ID]
	if !ok {
		r.byID[s.ID] = s
		return nil
	}

	if s.PUUID == "" {
		s.PUUID = existing.PUUID
	}
	if s.Name == "" {
		s.Name = existing.Name
	}
	if s.TagLine == "" {
		s.TagLine = existing.TagLine
	}
	if s.ProfileIconID <= 0 {
		s.ProfileIconID = existing.ProfileIconID
	}
	if s.Level < existing.Level {
		s.Level = existing.Level
	}
	if s.RevisionDate.IsZero() {
		s.RevisionDate = existing.RevisionDate
	}
	r.byID[s.ID] = s

	return nil
}

func (r *SummonerRepository) Get(summonerID string) (summoner.Summoner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[summonerID]
	return s, ok
}
