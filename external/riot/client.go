package riot

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
	"github.com/Hatchie-47/LoLPanion/internal/domain/summoner"
	"github.com/Hatchie-47/LoLPanion/internal/platform/logging"
	"github.com/Hatchie-47/LoLPanion/internal/platform/resilience"
	"github.com/Hatchie-47/LoLPanion/internal/usecase"
)

const (
	defaultPlatform    = "euw1"
	defaultRegion      = "europe"
	platformURLPattern = "https://%s.api.riotgames.com"
	apiKeyHeader       = "X-Riot-Token"
	rankedMatchType    = "ranked"
)

var errRiotTransient = crerr.New("riot transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	// Platform is the platform routing value for spectator, summoner and
	// mastery endpoints, e.g. "euw1" or "na1".
	Platform string
	// Region is the regional routing value for match-v5 and account-v1
	// endpoints, e.g. "europe" or "americas".
	Region string
	// PlatformBaseURL and RegionalBaseURL override the routing hosts when
	// set; Platform and Region are ignored for an overridden host.
	PlatformBaseURL string
	RegionalBaseURL string
	APIKey          string
	Timeout         time.Duration
	MaxRetries      int
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	platformURL    string
	regionalURL    string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	platform := strings.ToLower(strings.TrimSpace(cfg.Platform))
	if platform == "" {
		platform = defaultPlatform
	}
	region := strings.ToLower(strings.TrimSpace(cfg.Region))
	if region == "" {
		region = defaultRegion
	}
	platformURL := strings.TrimRight(strings.TrimSpace(cfg.PlatformBaseURL), "/")
	if platformURL == "" {
		platformURL = fmt.Sprintf(platformURLPattern, platform)
	}
	regionalURL := strings.TrimRight(strings.TrimSpace(cfg.RegionalBaseURL), "/")
	if regionalURL == "" {
		regionalURL = fmt.Sprintf(platformURLPattern, region)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		platformURL:    platformURL,
		regionalURL:    regionalURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker).Enabled,
	}
}

// ActiveMatch returns the summoner's current game. ErrNotFound means no game
// is in progress, which is the common case and not a failure.
func (c *Client) ActiveMatch(ctx context.Context, summonerID string) (match.Match, error) {
	if strings.TrimSpace(summonerID) == "" {
		return match.Match{}, fmt.Errorf("%w: summoner id is required", usecase.ErrInvalidInput)
	}

	var game currentGameInfo
	path := "/lol/spectator/v4/active-games/by-summoner/" + url.PathEscape(summonerID)
	if _, err := c.doJSON(ctx, c.platformURL, path, nil, &game); err != nil {
		return match.Match{}, fmt.Errorf("fetch active game summoner_id=%s: %w", summonerID, err)
	}

	return game.toDomain(), nil
}

// MatchDetail returns the authoritative post-game record. ErrNotFound means
// post-game processing has not published the match yet.
func (c *Client) MatchDetail(ctx context.Context, matchID string) (match.Match, error) {
	if strings.TrimSpace(matchID) == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	var envelope matchEnvelope
	path := "/lol/match/v5/matches/" + url.PathEscape(matchID)
	if _, err := c.doJSON(ctx, c.regionalURL, path, nil, &envelope); err != nil {
		return match.Match{}, fmt.Errorf("fetch match detail match_id=%s: %w", matchID, err)
	}

	return envelope.toDomain(), nil
}

// MatchTimeline returns the raw timeline document without reshaping it. The
// payload is stored verbatim and only ever served back out whole.
func (c *Client) MatchTimeline(ctx context.Context, matchID string) ([]byte, error) {
	if strings.TrimSpace(matchID) == "" {
		return nil, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	path := "/lol/match/v5/matches/" + url.PathEscape(matchID) + "/timeline"
	raw, err := c.doJSON(ctx, c.regionalURL, path, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch match timeline match_id=%s: %w", matchID, err)
	}

	return raw, nil
}

func (c *Client) RecentRankedMatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	if strings.TrimSpace(puuid) == "" {
		return nil, fmt.Errorf("%w: puuid is required", usecase.ErrInvalidInput)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be greater than zero", usecase.ErrInvalidInput)
	}

	var ids []string
	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(puuid) + "/ids"
	query := map[string]string{
		"type":  rankedMatchType,
		"count": strconv.Itoa(count),
	}
	if _, err := c.doJSON(ctx, c.regionalURL, path, query, &ids); err != nil {
		return nil, fmt.Errorf("list ranked match ids puuid=%s: %w", puuid, err)
	}

	return ids, nil
}

// ResolveRiotID looks up the account behind a riot id and the summoner record
// behind its puuid, yielding the full identity for the tracked-account switch.
func (c *Client) ResolveRiotID(ctx context.Context, gameName, tagLine string) (summoner.Summoner, error) {
	gameName = strings.TrimSpace(gameName)
	tagLine = strings.TrimSpace(tagLine)
	if gameName == "" || tagLine == "" {
		return summoner.Summoner{}, fmt.Errorf("%w: game name and tag line are required", usecase.ErrInvalidInput)
	}

	var account accountDTO
	accountPath := "/riot/account/v1/accounts/by-riot-id/" + url.PathEscape(gameName) + "/" + url.PathEscape(tagLine)
	if _, err := c.doJSON(ctx, c.regionalURL, accountPath, nil, &account); err != nil {
		return summoner.Summoner{}, fmt.Errorf("resolve riot id %s#%s: %w", gameName, tagLine, err)
	}

	var dto summonerDTO
	path := "/lol/summoner/v4/summoners/by-puuid/" + url.PathEscape(account.PUUID)
	if _, err := c.doJSON(ctx, c.platformURL, path, nil, &dto); err != nil {
		return summoner.Summoner{}, fmt.Errorf("fetch summoner puuid=%s: %w", account.PUUID, err)
	}

	profile := summoner.Summoner{
		ID:            dto.ID,
		PUUID:         dto.PUUID,
		Name:          strings.TrimSpace(account.GameName),
		TagLine:       strings.TrimSpace(account.TagLine),
		ProfileIconID: dto.ProfileIconID,
		Level:         dto.SummonerLevel,
	}
	if dto.RevisionDate > 0 {
		profile.RevisionDate = time.UnixMilli(dto.RevisionDate).UTC()
	}

	return profile, nil
}

// SummonerProfile combines summoner-v4 core fields with the account-v1 riot
// id. A missing account record leaves the name fields empty rather than
// failing the profile.
func (c *Client) SummonerProfile(ctx context.Context, summonerID string) (summoner.Summoner, error) {
	if strings.TrimSpace(summonerID) == "" {
		return summoner.Summoner{}, fmt.Errorf("%w: summoner id is required", usecase.ErrInvalidInput)
	}

	var dto summonerDTO
	path := "/lol/summoner/v4/summoners/" + url.PathEscape(summonerID)
	if _, err := c.doJSON(ctx, c.platformURL, path, nil, &dto); err != nil {
		return summoner.Summoner{}, fmt.Errorf("fetch summoner summoner_id=%s: %w", summonerID, err)
	}

	profile := summoner.Summoner{
		ID:            dto.ID,
		PUUID:         dto.PUUID,
		ProfileIconID: dto.ProfileIconID,
		Level:         dto.SummonerLevel,
	}
	if dto.RevisionDate > 0 {
		profile.RevisionDate = time.UnixMilli(dto.RevisionDate).UTC()
	}

	if dto.PUUID != "" {
		var account accountDTO
		accountPath := "/riot/account/v1/accounts/by-puuid/" + url.PathEscape(dto.PUUID)
		if _, err := c.doJSON(ctx, c.regionalURL, accountPath, nil, &account); err != nil {
			if !stderrors.Is(err, usecase.ErrNotFound) {
				return summoner.Summoner{}, fmt.Errorf("fetch account puuid=%s: %w", dto.PUUID, err)
			}
		} else {
			profile.Name = strings.TrimSpace(account.GameName)
			profile.TagLine = strings.TrimSpace(account.TagLine)
		}
	}

	return profile, nil
}

// ChampionMasteryPoints returns the summoner's mastery points on a champion.
// No mastery record means zero points, not an error.
func (c *Client) ChampionMasteryPoints(ctx context.Context, puuid string, championID int64) (int64, error) {
	if strings.TrimSpace(puuid) == "" {
		return 0, fmt.Errorf("%w: puuid is required", usecase.ErrInvalidInput)
	}
	if championID <= 0 {
		return 0, fmt.Errorf("%w: champion id must be greater than zero", usecase.ErrInvalidInput)
	}

	var dto championMasteryDTO
	path := "/lol/champion-mastery/v4/champion-masteries/by-puuid/" + url.PathEscape(puuid) +
		"/by-champion/" + strconv.FormatInt(championID, 10)
	if _, err := c.doJSON(ctx, c.platformURL, path, nil, &dto); err != nil {
		if stderrors.Is(err, usecase.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("fetch champion mastery puuid=%s champion_id=%d: %w", puuid, championID, err)
	}

	return dto.ChampionPoints, nil
}

func (c *Client) doJSON(ctx context.Context, baseURL, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "riot circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := fullURL
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isRiotCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if target != nil {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("%w: decode provider payload: %v", errRiotTransient, err)
		}
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set(apiKeyHeader, c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errRiotTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errRiotTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if resp.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%w: provider status=404", usecase.ErrNotFound)
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errRiotTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "riot request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return value
}

func isRiotCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errRiotTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
