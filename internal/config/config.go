package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Hatchie-47/LoLPanion/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	DBURL                      string
	DBDisablePreparedBinary    bool
	CacheEnabled               bool
	CacheTTL                   time.Duration
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	RiotAPIKey                 string
	RiotPlatform               string
	RiotRegion                 string
	RiotTimeout                time.Duration
	RiotMaxRetries             int
	RiotCircuitEnabled         bool
	RiotCircuitFailureCount    int
	RiotCircuitOpenTimeout     time.Duration
	RiotCircuitHalfOpenMaxReq  int
	HomeSummonerID             string
	RankedQueueIDs             []int64
	HistorySize                int
	PollLiveInterval           time.Duration
	PollIdleInterval           time.Duration
	LogLevel                   logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	riotTimeout, err := time.ParseDuration(getEnv("RIOT_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_TIMEOUT: %w", err)
	}
	if riotTimeout <= 0 {
		return Config{}, fmt.Errorf("RIOT_TIMEOUT must be > 0")
	}
	riotMaxRetries, err := getEnvAsInt("RIOT_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_MAX_RETRIES: %w", err)
	}
	if riotMaxRetries < 0 {
		return Config{}, fmt.Errorf("RIOT_MAX_RETRIES must be >= 0")
	}
	riotCircuitEnabled, err := strconv.ParseBool(getEnv("RIOT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_ENABLED: %w", err)
	}
	riotCircuitFailureCount, err := getEnvAsInt("RIOT_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if riotCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("RIOT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	riotCircuitOpenTimeout, err := time.ParseDuration(getEnv("RIOT_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if riotCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("RIOT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	riotCircuitHalfOpenMaxReq, err := getEnvAsInt("RIOT_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if riotCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("RIOT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	rankedQueueIDs, err := parseQueueIDs(getEnv("RANKED_QUEUE_IDS", "420,440"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKED_QUEUE_IDS: %w", err)
	}
	if len(rankedQueueIDs) == 0 {
		return Config{}, fmt.Errorf("RANKED_QUEUE_IDS cannot be empty")
	}

	historySize, err := getEnvAsInt("HISTORY_SIZE", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse HISTORY_SIZE: %w", err)
	}
	if historySize < 1 {
		return Config{}, fmt.Errorf("HISTORY_SIZE must be >= 1")
	}

	pollLiveInterval, err := time.ParseDuration(getEnv("POLL_LIVE_INTERVAL", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_LIVE_INTERVAL: %w", err)
	}
	if pollLiveInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_LIVE_INTERVAL must be > 0")
	}
	pollIdleInterval, err := time.ParseDuration(getEnv("POLL_IDLE_INTERVAL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_IDLE_INTERVAL: %w", err)
	}
	if pollIdleInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_IDLE_INTERVAL must be > 0")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "lolpanion"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:    true,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		RiotAPIKey:                 strings.TrimSpace(getEnv("RIOT_API_KEY", "")),
		RiotPlatform:               strings.ToLower(strings.TrimSpace(getEnv("RIOT_PLATFORM", "euw1"))),
		RiotRegion:                 strings.ToLower(strings.TrimSpace(getEnv("RIOT_REGION", "europe"))),
		RiotTimeout:                riotTimeout,
		RiotMaxRetries:             riotMaxRetries,
		RiotCircuitEnabled:         riotCircuitEnabled,
		RiotCircuitFailureCount:    riotCircuitFailureCount,
		RiotCircuitOpenTimeout:     riotCircuitOpenTimeout,
		RiotCircuitHalfOpenMaxReq:  riotCircuitHalfOpenMaxReq,
		HomeSummonerID:             strings.TrimSpace(getEnv("HOME_SUMMONER_ID", "")),
		RankedQueueIDs:             rankedQueueIDs,
		HistorySize:                historySize,
		PollLiveInterval:           pollLiveInterval,
		PollIdleInterval:           pollIdleInterval,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.RiotAPIKey == "" {
		return Config{}, fmt.Errorf("RIOT_API_KEY is required")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseQueueIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		value, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid queue id %q: %w", item, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("queue id must be > 0, got %q", item)
		}
		out = append(out, value)
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
