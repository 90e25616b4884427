package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig carries everything the server needs from the environment. A
// local .env file is honored when present; system env vars win.
type AppConfig struct {
	Addr         string
	Debug        bool
	MessagingURL string

	Auth        AuthConfig
	Persistence PersistenceConfig
}

// AuthConfig satisfies the workhive.Config interface
type AuthConfig struct {
	SigningKey      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
	Audience        []string
	ContextKey      string
	AuthScheme      string
	TokenLookup     string
}

func (a AuthConfig) GetSigningKey() string { return a.SigningKey }
func (a AuthConfig) GetAccessTokenTTL() time.Duration { return a.AccessTokenTTL }
func (a AuthConfig) GetRefreshTokenTTL() time.Duration { return a.RefreshTokenTTL }
func (a AuthConfig) GetIssuer() string { return a.Issuer }
func (a AuthConfig) GetAudience() []string { return a.Audience }
func (a AuthConfig) GetContextKey() string { return a.ContextKey }
func (a AuthConfig) GetAuthScheme() string { return a.AuthScheme }
func (a AuthConfig) GetTokenLookup() string { return a.TokenLookup }

// PersistenceConfig is handed to the persistence client
type PersistenceConfig struct {
	Debug                 bool
	DSN                   string
	PingTimeoutExpression string
}

func (p PersistenceConfig) GetDebug() bool { return p.Debug }
func (p PersistenceConfig) GetDSN() string { return p.DSN }
func (p PersistenceConfig) GetDriver() string { return "sqlite" }
func (p PersistenceConfig) GetServer() string { return p.DSN }
func (p PersistenceConfig) GetOtelIdentifier() string { return "" }

func (p PersistenceConfig) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		log.Fatalf("unable to parse time: expr %s", p.PingTimeoutExpression)
	}
	return dur
}

func LoadConfig() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on system env vars")
	}

	accessTTL, err := time.ParseDuration(getEnv("AUTH_ACCESS_TOKEN_TTL", "15m"))
	if err != nil {
		log.Fatalf("invalid AUTH_ACCESS_TOKEN_TTL: %v", err)
	}

	refreshTTL, err := time.ParseDuration(getEnv("AUTH_REFRESH_TOKEN_TTL", "168h"))
	if err != nil {
		log.Fatalf("invalid AUTH_REFRESH_TOKEN_TTL: %v", err)
	}

	signingKey := os.Getenv("AUTH_SIGNING_KEY")
	if signingKey == "" {
		log.Fatal("AUTH_SIGNING_KEY is required")
	}

	debug, _ := strconv.ParseBool(getEnv("APP_DEBUG", "false"))

	return AppConfig{
		Addr:         getEnv("APP_ADDR", ":8580"),
		Debug:        debug,
		MessagingURL: getEnv("MESSAGING_URL", "http://localhost:4001"),
		Auth: AuthConfig{
			SigningKey:      signingKey,
			AccessTokenTTL:  accessTTL,
			RefreshTokenTTL: refreshTTL,
			Issuer:          getEnv("AUTH_ISSUER", "workhive"),
			Audience:        splitCSV(getEnv("AUTH_AUDIENCE", "workhive-clients")),
			ContextKey:      getEnv("AUTH_CONTEXT_KEY", "user"),
			AuthScheme:      getEnv("AUTH_SCHEME", "Bearer"),
			TokenLookup:     getEnv("AUTH_TOKEN_LOOKUP", "header:Authorization"),
		},
		Persistence: PersistenceConfig{
			Debug:                 debug,
			DSN:                   getEnv("DATABASE_DSN", "file::memory:?cache=shared"),
			PingTimeoutExpression: getEnv("DATABASE_PING_TIMEOUT", "5s"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
