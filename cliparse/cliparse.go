package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	AdminPassword string
	JWTSecret     string
	VoterSalt     string

	// Voting status polling
	StatusSourceURL string
	PollInterval    time.Duration

	// Results cache
	RedisURL        string
	ResultsCacheTTL time.Duration
}

// LoadEnvFile loads KEY=value pairs from path into the environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("carshow", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.StatusSourceURL, "status-url", "", "Remote voting schedule URL (default: local database)")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", 0, "Voting status poll interval")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for the results cache (default: in-memory)")
	fs.DurationVar(&cfg.ResultsCacheTTL, "results-ttl", 0, "Results cache TTL")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Admin password (prefer env)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Admin session signing secret (prefer env)")
	fs.StringVar(&cfg.VoterSalt, "voter-salt", "", "Voter IP hash salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.StatusSourceURL == "" {
		cfg.StatusSourceURL = os.Getenv("STATUS_SOURCE_URL")
	}

	var err error
	if cfg.PollInterval, err = durationEnv(cfg.PollInterval, "STATUS_POLL_INTERVAL", 30*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if cfg.ResultsCacheTTL, err = durationEnv(cfg.ResultsCacheTTL, "RESULTS_CACHE_TTL", 15*time.Second); err != nil {
		return Config{}, err
	}

	// Secrets - MUST be provided
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD required")
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.VoterSalt == "" {
		cfg.VoterSalt = os.Getenv("VOTER_SALT")
	}
	if cfg.VoterSalt == "" {
		return Config{}, errors.New("VOTER_SALT required")
	}

	return cfg, nil
}

func durationEnv(current time.Duration, key string, def time.Duration) (time.Duration, error) {
	if current > 0 {
		return current, nil
	}
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}
