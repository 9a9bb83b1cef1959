package riot

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
	"github.com/Hatchie-47/LoLPanion/internal/platform/logging"
	"github.com/Hatchie-47/LoLPanion/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		PlatformBaseURL: server.URL,
		RegionalBaseURL: server.URL,
		APIKey:          "RGAPI-test-key",
		Timeout:         2 * time.Second,
		Logger:          logging.NewNop(),
	})
	return client, server
}

func TestActiveMatch_MapsSpectatorPayload(t *testing.T) {
	t.Parallel()

	var gotPath, gotToken string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Riot-Token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"gameId": 7001234567,
			"gameQueueConfigId": 420,
			"gameStartTime": 1700000000000,
			"gameLength": 312,
			"platformId": "euw1",
			"participants": [
				{
					"teamId": 100,
					"spell1Id": 4,
					"spell2Id": 14,
					"championId": 236,
					"riotId": "Hatchie#4747",
					"summonerId": "sum-1",
					"puuid": "puuid-1",
					"perks": {"perkIds": [8005,9111,9104,8014,8009,8017,5008,5008,5002], "perkStyle": 8000, "perkSubStyle": 8200}
				},
				{
					"teamId": 200,
					"championId": 517,
					"bot": true,
					"summonerId": "",
					"riotId": ""
				}
			]
		}`))
	}))

	got, err := client.ActiveMatch(context.Background(), "sum-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/lol/spectator/v4/active-games/by-summoner/sum-1" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotToken != "RGAPI-test-key" {
		t.Fatalf("expected api key header, got=%q", gotToken)
	}
	if got.ID != "EUW1_7001234567" {
		t.Fatalf("expected match id EUW1_7001234567, got=%s", got.ID)
	}
	if got.QueueID != 420 {
		t.Fatalf("expected queue 420, got=%d", got.QueueID)
	}
	if got.StartTime == nil || got.StartTime.UnixMilli() != 1700000000000 {
		t.Fatalf("unexpected start time: %v", got.StartTime)
	}
	if got.Duration != 312*time.Second {
		t.Fatalf("unexpected duration: %v", got.Duration)
	}
	if len(got.Participants) != 2 {
		t.Fatalf("expected two participants, got=%d", len(got.Participants))
	}

	first := got.Participants[0]
	if first.TeamRed {
		t.Fatalf("team 100 must map to blue")
	}
	if first.Name != "Hatchie" || first.TagLine != "4747" {
		t.Fatalf("unexpected riot id split: %q / %q", first.Name, first.TagLine)
	}
	if len(first.RuneIDs) != 6 || len(first.StatRuneIDs) != 3 {
		t.Fatalf("expected 6 runes and 3 stat runes, got=%d/%d", len(first.RuneIDs), len(first.StatRuneIDs))
	}
	if first.PrimaryStyle != 8000 || first.SecondaryStyle != 8200 {
		t.Fatalf("unexpected styles: %d/%d", first.PrimaryStyle, first.SecondaryStyle)
	}
	if first.Role != match.RoleUnknown {
		t.Fatalf("spectator roster must not carry positions, got=%q", first.Role)
	}

	second := got.Participants[1]
	if !second.TeamRed || !second.Bot {
		t.Fatalf("expected red-side bot, got team_red=%v bot=%v", second.TeamRed, second.Bot)
	}
}

func TestResolveRiotID_CombinesAccountAndSummoner(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/riot/account/v1/accounts/by-riot-id/Hatchie/4747":
			_, _ = w.Write([]byte(`{"puuid":"puuid-1","gameName":"Hatchie","tagLine":"4747"}`))
		case "/lol/summoner/v4/summoners/by-puuid/puuid-1":
			_, _ = w.Write([]byte(`{"id":"sum-1","puuid":"puuid-1","profileIconId":4568,"revisionDate":1700000000000,"summonerLevel":412}`))
		default:
			http.NotFound(w, r)
		}
	}))

	got, err := client.ResolveRiotID(context.Background(), "Hatchie", "4747")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "sum-1" || got.PUUID != "puuid-1" {
		t.Fatalf("unexpected identity: %+v", got)
	}
	if got.Name != "Hatchie" || got.TagLine != "4747" {
		t.Fatalf("expected the canonical riot id carried over, got %q#%q", got.Name, got.TagLine)
	}
	if got.Level != 412 || got.ProfileIconID != 4568 {
		t.Fatalf("unexpected summoner fields: %+v", got)
	}
}

func TestResolveRiotID_UnknownAccount(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":{"message":"Data not found","status_code":404}}`, http.StatusNotFound)
	}))

	_, err := client.ResolveRiotID(context.Background(), "Nobody", "0000")
	if !stderrors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got=%v", err)
	}
}

func TestActiveMatch_NotFoundWhenNoGameInProgress(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":{"message":"Data not found","status_code":404}}`, http.StatusNotFound)
	}))

	_, err := client.ActiveMatch(context.Background(), "sum-1")
	if !stderrors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got=%v", err)
	}
}

func TestMatchDetail_ResolvesOutcomeAndPositions(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"metadata": {"matchId": "EUW1_7001234567"},
			"info": {
				"gameDuration": 1845,
				"gameStartTimestamp": 1700000000000,
				"queueId": 420,
				"teams": [{"teamId": 100, "win": false}, {"teamId": 200, "win": true}],
				"participants": [
					{
						"puuid": "puuid-1",
						"summonerId": "sum-1",
						"riotIdGameName": "Hatchie",
						"riotIdTagline": "4747",
						"teamId": 200,
						"teamPosition": "UTILITY",
						"championId": 412,
						"summoner1Id": 4,
						"summoner2Id": 14,
						"kills": 2, "deaths": 5, "assists": 21,
						"item0": 3864, "item1": 3190, "item2": 3117, "item3": 3222, "item4": 0, "item5": 0, "item6": 3364,
						"goldEarned": 8120,
						"totalMinionsKilled": 30,
						"neutralMinionsKilled": 4,
						"perks": {
							"statPerks": {"defense": 5002, "flex": 5008, "offense": 5008},
							"styles": [
								{"description": "primaryStyle", "style": 8400, "selections": [{"perk": 8465}, {"perk": 8463}, {"perk": 8444}, {"perk": 8453}]},
								{"description": "subStyle", "style": 8300, "selections": [{"perk": 8345}, {"perk": 8347}]}
							]
						}
					}
				]
			}
		}`))
	}))

	got, err := client.MatchDetail(context.Background(), "EUW1_7001234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "EUW1_7001234567" {
		t.Fatalf("unexpected match id: %s", got.ID)
	}
	if got.RedWon == nil || !*got.RedWon {
		t.Fatalf("expected red win, got=%v", got.RedWon)
	}

	p := got.Participants[0]
	if p.Role != match.RoleSupport {
		t.Fatalf("expected UTILITY to map to support, got=%q", p.Role)
	}
	if p.PrimaryStyle != 8400 || p.SecondaryStyle != 8300 {
		t.Fatalf("unexpected styles: %d/%d", p.PrimaryStyle, p.SecondaryStyle)
	}
	if len(p.RuneIDs) != 6 {
		t.Fatalf("expected 6 runes, got=%d", len(p.RuneIDs))
	}
	if p.Stats == nil {
		t.Fatalf("expected post-game stats")
	}
	if p.Stats.CS != 34 {
		t.Fatalf("expected cs=34, got=%d", p.Stats.CS)
	}
	if p.Stats.Trinket != 3364 {
		t.Fatalf("expected trinket item, got=%d", p.Stats.Trinket)
	}
}

func TestMatchDetail_RemakeHasNoOutcome(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"metadata": {"matchId": "EUW1_7009999999"},
			"info": {
				"gameDuration": 212,
				"queueId": 420,
				"teams": [{"teamId": 100, "win": true}, {"teamId": 200, "win": false}],
				"participants": []
			}
		}`))
	}))

	got, err := client.MatchDetail(context.Background(), "EUW1_7009999999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RedWon != nil {
		t.Fatalf("remake must have no outcome, got=%v", *got.RedWon)
	}
}

func TestExecuteRequest_RetriesRetryableStatuses(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			http.Error(w, "upstream hiccup", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`["EUW1_1","EUW1_2"]`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		PlatformBaseURL: server.URL,
		RegionalBaseURL: server.URL,
		MaxRetries:      3,
		Timeout:         2 * time.Second,
		Logger:          logging.NewNop(),
	})

	ids, err := client.RecentRankedMatchIDs(context.Background(), "puuid-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts.Load() != 3 {
		t.Fatalf("expected 3 attempts, got=%d", attempts.Load())
	}
	if len(ids) != 2 || ids[0] != "EUW1_1" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestRecentRankedMatchIDs_SetsRankedFilter(t *testing.T) {
	t.Parallel()

	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))

	if _, err := client.RecentRankedMatchIDs(context.Background(), "puuid-1", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "count=10&type=ranked" {
		t.Fatalf("unexpected query: %s", gotQuery)
	}
}

func TestChampionMasteryPoints_MissingRecordMeansZero(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	points, err := client.ChampionMasteryPoints(context.Background(), "puuid-1", 236)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points != 0 {
		t.Fatalf("expected zero points, got=%d", points)
	}
}

func TestDoJSON_MalformedPayloadIsTransient(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"metadata":`))
	}))

	_, err := client.MatchDetail(context.Background(), "EUW1_1")
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if !stderrors.Is(err, errRiotTransient) {
		t.Fatalf("expected transient classification, got=%v", err)
	}
}
