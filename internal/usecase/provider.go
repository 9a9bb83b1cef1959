package usecase

import (
	"context"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
	"github.com/Hatchie-47/LoLPanion/internal/domain/summoner"
)

// MatchProvider is the read-only upstream match data source. Every call may
// fail with ErrDependencyUnavailable (transient, retry next cycle) or
// ErrNotFound, which is a valid semantic result and not a failure: no game in
// progress for ActiveMatch, post-game processing not finished for
// MatchDetail and MatchTimeline.
type MatchProvider interface {
	ActiveMatch(ctx context.Context, summonerID string) (match.Match, error)
	ResolveRiotID(ctx context.Context, gameName, tagLine string) (summoner.Summoner, error)
	MatchDetail(ctx context.Context, matchID string) (match.Match, error)
	MatchTimeline(ctx context.Context, matchID string) ([]byte, error)
	RecentRankedMatchIDs(ctx context.Context, puuid string, count int) ([]string, error)
	SummonerProfile(ctx context.Context, summonerID string) (summoner.Summoner, error)
	ChampionMasteryPoints(ctx context.Context, puuid string, championID int64) (int64, error)
}
