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
// ⭐ SSOT: 全ての環境変数はここでのみ読む
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Target market: "JP" or "US"
	Market string

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// SMTP (daily report mail, optional)
	SMTP SMTPConfig

	// News sources
	News NewsConfig

	// Scoring
	Weights   Weights
	Sentiment SentimentConfig

	// Universe and exceptions
	Universe        []string
	HoldingTickers  []string // tickers whose P/E signal text is suppressed
	TopN            int
	AnalysisWorkers int

	// Logging
	LogLevel  string
	LogFormat string
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

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// SMTPConfig holds outgoing mail configuration
type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	Recipient string
}

// IsConfigured reports whether mail delivery can be attempted
func (s SMTPConfig) IsConfigured() bool {
	return s.Host != "" && s.User != "" && s.Password != "" && s.Recipient != ""
}

// NewsConfig holds news source API keys and search keywords.
// 未設定のソースはスキップされる。
type NewsConfig struct {
	NewsAPIKey   string
	NewsDataKey  string
	MarketauxKey string
	Keywords     []string
}

var defaultNewsKeywordsJP = []string{"株価", "日経平均", "決算", "日銀", "東証"}
var defaultNewsKeywordsUS = []string{"stocks", "earnings", "fed", "nasdaq", "s&p 500"}

// Weights defines the factor weights for the total score.
// 合計は1.0であること。Load()で正規化される。
type Weights struct {
	Sentiment   float64
	Technical   float64
	Fundamental float64
	Macro       float64
	Risk        float64
}

// DefaultWeights returns the default factor weights
func DefaultWeights() Weights {
	return Weights{
		Sentiment:   0.25,
		Technical:   0.30,
		Fundamental: 0.25,
		Macro:       0.10,
		Risk:        0.10,
	}
	// Total: 100%
}

// Sum returns the sum of all weights
func (w Weights) Sum() float64 {
	return w.Sentiment + w.Technical + w.Fundamental + w.Macro + w.Risk
}

// Normalized returns a copy scaled so the weights sum to 1.0.
// A zero sum falls back to the defaults.
func (w Weights) Normalized() Weights {
	total := w.Sum()
	if total == 0 {
		return DefaultWeights()
	}
	return Weights{
		Sentiment:   w.Sentiment / total,
		Technical:   w.Technical / total,
		Fundamental: w.Fundamental / total,
		Macro:       w.Macro / total,
		Risk:        w.Risk / total,
	}
}

// SentimentConfig holds sentiment aggregation parameters
type SentimentConfig struct {
	WindowDays  int
	DecayFactor float64 // 時間減衰係数 (0,1)
}

// JP universe: Nikkei 225 core names plus semiconductor names
var defaultUniverseJP = []string{
	"7203.T", "6758.T", "6861.T", "9984.T", "6501.T",
	"8306.T", "7974.T", "6902.T", "4063.T", "9433.T",
	"6098.T", "4568.T", "8035.T", "6594.T", "7741.T",
	"4519.T", "6367.T", "9432.T", "2914.T", "6954.T",
	"6857.T", "6723.T", "6146.T", "7735.T", "6920.T",
}

var defaultUniverseUS = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA",
	"AMD", "INTC", "CRM", "ORCL", "ADBE",
	"JPM", "BAC", "V", "MA", "GS", "MS",
	"WMT", "COST", "KO", "PEP", "MCD", "DIS", "NKE",
	"JNJ", "LLY", "PFE", "UNH",
	"XOM", "CVX", "GE", "BA", "CAT",
}

// Load reads configuration from environment variables
// ⭐ SSOT: os.Getenv() を呼ぶのはこの関数だけ
func Load() (*Config, error) {
	loadEnvFile()

	market := strings.ToUpper(getEnv("MARKET", "JP"))

	cfg := &Config{
		Port:   getEnv("PORT", "8091"),
		Env:    getEnv("ENV", "development"),
		Market: market,

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
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

		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_HOST", ""),
			Port:      getEnvAsInt("SMTP_PORT", 587),
			User:      getEnv("SMTP_USER", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			Recipient: getEnv("SMTP_RECIPIENT", getEnv("SMTP_USER", "")),
		},

		News: NewsConfig{
			NewsAPIKey:   getEnv("NEWSAPI_KEY", ""),
			NewsDataKey:  getEnv("NEWSDATA_KEY", ""),
			MarketauxKey: getEnv("MARKETAUX_KEY", ""),
			Keywords:     getEnvAsList("NEWS_KEYWORDS", nil),
		},

		Weights: Weights{
			Sentiment:   getEnvAsFloat("WEIGHT_SENTIMENT", 0.25),
			Technical:   getEnvAsFloat("WEIGHT_TECHNICAL", 0.30),
			Fundamental: getEnvAsFloat("WEIGHT_FUNDAMENTAL", 0.25),
			Macro:       getEnvAsFloat("WEIGHT_MACRO", 0.10),
			Risk:        getEnvAsFloat("WEIGHT_RISK", 0.10),
		},

		Sentiment: SentimentConfig{
			WindowDays:  getEnvAsInt("SENTIMENT_WINDOW_DAYS", 7),
			DecayFactor: getEnvAsFloat("SENTIMENT_DECAY_FACTOR", 0.9),
		},

		Universe:        getEnvAsList("UNIVERSE", nil),
		HoldingTickers:  getEnvAsList("HOLDING_COMPANY_TICKERS", []string{"9984.T"}),
		TopN:            getEnvAsInt("TOP_N_RECOMMENDATIONS", 10),
		AnalysisWorkers: getEnvAsInt("ANALYSIS_WORKERS", 4),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if len(cfg.Universe) == 0 {
		if market == "US" {
			cfg.Universe = defaultUniverseUS
		} else {
			cfg.Universe = defaultUniverseJP
		}
	}

	if len(cfg.News.Keywords) == 0 {
		if market == "US" {
			cfg.News.Keywords = defaultNewsKeywordsUS
		} else {
			cfg.News.Keywords = defaultNewsKeywordsJP
		}
	}

	// Configured weights that do not sum to 1.0 are normalized here, once,
	// so the scorer downstream combines them as-is.
	if sum := cfg.Weights.Sum(); sum < 0.99 || sum > 1.01 {
		cfg.Weights = cfg.Weights.Normalized()
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Market != "JP" && c.Market != "US" {
		return fmt.Errorf("MARKET must be JP or US")
	}

	if c.Sentiment.DecayFactor <= 0 || c.Sentiment.DecayFactor >= 1 {
		return fmt.Errorf("SENTIMENT_DECAY_FACTOR must be in (0, 1)")
	}

	if c.Sentiment.WindowDays <= 0 {
		return fmt.Errorf("SENTIMENT_WINDOW_DAYS must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

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

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
