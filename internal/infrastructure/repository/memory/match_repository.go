package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
)

type storedMatch struct {
	rowID        int64
	m            match.Match
	participants []match.Participant
}

// MatchRepository keeps tracked matches in process memory. It backs local
// development when no database URL is configured.
type MatchRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[string]*storedMatch
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{byID: make(map[string]*storedMatch)}
}

func (r *MatchRepository) Upsert(_ context.Context, m match.Match) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[m.ID]
	if !ok {
		r.nextID++
		existing = &storedMatch{rowID: r.nextID}
		r.byID[m.ID] = existing
	}

	merged := m
	if merged.StartTime == nil {
		merged.StartTime = existing.m.StartTime
	}
	if merged.RedWon == nil {
		merged.RedWon = existing.m.RedWon
	}
	if merged.Timeline == nil {
		merged.Timeline = existing.m.Timeline
	}
	if merged.Duration < existing.m.Duration {
		merged.Duration = existing.m.Duration
	}
	existing.m = merged

	return existing.rowID, nil
}

func (r *MatchRepository) UpdateStartTime(_ context.Context, providerMatchID string, start time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[providerMatchID]; ok {
		value := start
		existing.m.StartTime = &value
	}

	return nil
}

func (r *MatchRepository) UpsertParticipants(_ context.Context, matchRowID int64, participants []match.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.byID {
		if stored.rowID != matchRowID {
			continue
		}
		stored.participants = append([]match.Participant(nil), participants...)
		return nil
	}

	return nil
}

// Get returns the stored match and its participants, for tests and seeding.
func (r *MatchRepository) Get(providerMatchID string) (match.Match, []match.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[providerMatchID]
	if !ok {
		return match.Match{}, nil, false
	}
	return stored.m, append([]match.Participant(nil), stored.participants...), true
}
