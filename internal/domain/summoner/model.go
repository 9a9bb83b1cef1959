package summoner

import "time"

// Summoner is the durable identity of a player, keyed by the provider's
// encrypted summoner id. PUUID is the cross-region identifier used by the
// match history endpoints.
type Summoner struct {
	ID            string
	PUUID         string
	Name          string
	TagLine       string
	ProfileIconID int
	Level         int
	RevisionDate  time.Time
}
