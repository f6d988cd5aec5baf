package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Local flat files (ticker cache, exports)
	DataDir string

	// Ticker selection
	Selector SelectorConfig

	// External APIs
	Yahoo YahooConfig

	// Optional infrastructure
	Database DatabaseConfig
	Redis    RedisConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// SelectorConfig holds the ticker selection and validation cache options
type SelectorConfig struct {
	MaxTickers      int           // 최종 선택 종목 수
	FreshnessWindow time.Duration // 캐시 유효 기간
	LiquidityFloor  float64       // 최소 평균 거래량
	Currency        string        // 기대 통화 코드
	HistoryDays     int           // 검증용 최근 이력 일수 (3..30)
	CacheFile       string        // 검증 결과 CSV 파일명 (DataDir 기준)
	CacheEmpty      bool          // 빈 선택 결과도 캐시할지 여부
	ListsFile       string        // fallback/alternates YAML (선택)
}

// YahooConfig holds Yahoo Finance endpoints and client limits
type YahooConfig struct {
	QueryURL      string
	WebURL        string
	IndexSymbol   string
	Timeout       time.Duration
	RatePerSecond float64
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:    getEnv("PORT", "8501"),
		Env:     getEnv("ENV", "development"),
		DataDir: getEnv("DATA_DIR", "data"),

		Selector: SelectorConfig{
			MaxTickers:      getEnvAsInt("TICKER_MAX", 15),
			FreshnessWindow: time.Duration(getEnvAsInt("TICKER_FRESHNESS_DAYS", 7)) * 24 * time.Hour,
			LiquidityFloor:  getEnvAsFloat("TICKER_LIQUIDITY_FLOOR", 100000),
			Currency:        strings.ToUpper(getEnv("TICKER_CURRENCY", "BRL")),
			HistoryDays:     getEnvAsInt("TICKER_HISTORY_DAYS", 5),
			CacheFile:       getEnv("TICKER_CACHE_FILE", "top_15_tickers_validados.csv"),
			CacheEmpty:      getEnvAsBool("TICKER_CACHE_EMPTY", false),
			ListsFile:       getEnv("TICKER_LISTS_FILE", ""),
		},

		Yahoo: YahooConfig{
			QueryURL:      getEnv("YAHOO_QUERY_URL", "https://query1.finance.yahoo.com"),
			WebURL:        getEnv("YAHOO_WEB_URL", "https://finance.yahoo.com"),
			IndexSymbol:   getEnv("YAHOO_INDEX_SYMBOL", "^BVSP"),
			Timeout:       getEnvAsDuration("YAHOO_TIMEOUT", "15s"),
			RatePerSecond: getEnvAsFloat("YAHOO_RATE_PER_SECOND", 4),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Selector.MaxTickers <= 0 {
		return fmt.Errorf("TICKER_MAX must be positive, got %d", c.Selector.MaxTickers)
	}

	if c.Selector.FreshnessWindow <= 0 {
		return fmt.Errorf("TICKER_FRESHNESS_DAYS must be positive")
	}

	if c.Selector.HistoryDays < 3 || c.Selector.HistoryDays > 30 {
		return fmt.Errorf("TICKER_HISTORY_DAYS must be between 3 and 30, got %d", c.Selector.HistoryDays)
	}

	if c.Selector.LiquidityFloor < 0 {
		return fmt.Errorf("TICKER_LIQUIDITY_FLOOR must not be negative")
	}

	if len(c.Selector.Currency) != 3 {
		return fmt.Errorf("TICKER_CURRENCY must be a 3-letter code, got %q", c.Selector.Currency)
	}

	if c.Yahoo.RatePerSecond <= 0 {
		return fmt.Errorf("YAHOO_RATE_PER_SECOND must be positive")
	}

	return nil
}

// TickerCachePath returns the full path of the validated ticker file
func (c *Config) TickerCachePath() string {
	return filepath.Join(c.DataDir, c.Selector.CacheFile)
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
