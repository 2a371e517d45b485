package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Summary store drivers
const (
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"
	StoreMongo     = "mongo"
	StoreMemory    = "memory"
)

type Config struct {
	Port             string        `env:"PORT" envDefault:"8080"`
	JWTSecret        string        `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" envDefault:"168h"`
	CookieSecure     bool          `env:"COOKIE_SECURE" envDefault:"false"`
	AllowedOrigins   []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// Accounts live in postgres; an empty DATABASE_URL keeps them in memory.
	DatabaseURL string `env:"DATABASE_URL"`

	SummaryStore        string `env:"SUMMARY_STORE" envDefault:"postgres"`
	FirebaseCredentials string `env:"FIREBASE_CREDENTIALS"`
	FirebaseProjectID   string `env:"FIREBASE_PROJECT_ID"`
	FirestoreCollection string `env:"FIRESTORE_COLLECTION" envDefault:"summaries"`
	FirebaseAuth        bool   `env:"FIREBASE_AUTH" envDefault:"false"`
	MongoURI            string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase       string `env:"MONGO_DATABASE" envDefault:"summarizer"`

	AIProvider      string `env:"AI_PROVIDER" envDefault:"gemini"`
	GeminiApiKey    string `env:"GEMINI_API_KEY"`
	GeminiModel     string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	OllamaBaseURL   string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaModel     string `env:"OLLAMA_MODEL" envDefault:"llama3"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIModel     string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-haiku-latest"`

	RedisURL           string `env:"REDIS_URL"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`

	GoogleProjectID   string `env:"GOOGLE_PROJECT_ID"`
	PubSubTopic       string `env:"PUBSUB_TOPIC"`
	GoogleCredentials string `env:"GOOGLE_CREDENTIALS"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the cross-field requirements env tags cannot express.
func (c *Config) Validate() error {
	switch c.SummaryStore {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s summary store", StorePostgres)
		}
	case StoreFirestore:
		if c.FirebaseProjectID == "" && c.FirebaseCredentials == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID or FIREBASE_CREDENTIALS is required for the %s summary store", StoreFirestore)
		}
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown SUMMARY_STORE %q", c.SummaryStore)
	}

	if c.JWTAccessExpiry <= 0 || c.JWTRefreshExpiry <= 0 {
		return fmt.Errorf("token expiries must be positive")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

// UsesFirebase reports whether any component needs a Firebase app.
func (c *Config) UsesFirebase() bool {
	return c.SummaryStore == StoreFirestore || c.FirebaseAuth
}
