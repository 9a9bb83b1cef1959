package match

import (
	"context"
	"time"
)

// Repository persists matches and their participants. Upserts are idempotent
// keyed by the provider match id, so repeating a save after a partial failure
// is safe.
type Repository interface {
	Upsert(ctx context.Context, m Match) (int64, error)
	UpdateStartTime(ctx context.Context, providerMatchID string, start time.Time) error
	UpsertParticipants(ctx context.Context, matchRowID int64, participants []Participant) error
}
