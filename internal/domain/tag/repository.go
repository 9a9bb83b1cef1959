package tag

import "context"

type Repository interface {
	ListBySummoner(ctx context.Context, summonerID string) ([]Tag, error)
	Insert(ctx context.Context, t Tag) (int64, error)
}
