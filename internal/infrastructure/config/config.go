package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Question banks
	BanksDir     string // directory holding one JSON bank per subject
	SubjectsFile string // YAML subject catalog, optional

	// Statistics
	StatsDriver string // json | sqlite | postgres
	StatsPath   string // JSON document path, or sqlite file when STATS_DSN is empty
	StatsDSN    string

	// Sessions
	DefaultDuration   time.Duration
	RandomSampleSize  int
	SweepSchedule     string // cron spec, e.g. "@every 30s"
	SessionRetention  time.Duration
	ImmediateFeedback bool

	CORSOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:     getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout:   getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		BanksDir:          getenvDefault("BANKS_DIR", "./data/banks"),
		SubjectsFile:      getenvDefault("SUBJECTS_FILE", "./config/subjects.yaml"),
		StatsDriver:       getenvDefault("STATS_DRIVER", "json"),
		StatsPath:         getenvDefault("STATS_PATH", "stats.json"),
		StatsDSN:          os.Getenv("STATS_DSN"),
		DefaultDuration:   time.Duration(getInt("DEFAULT_DURATION_MIN", 30)) * time.Minute,
		RandomSampleSize:  getInt("RANDOM_SAMPLE_SIZE", 25),
		SweepSchedule:     getenvDefault("SWEEP_SCHEDULE", "@every 30s"),
		SessionRetention:  getDuration("SESSION_RETENTION", 2*time.Hour),
		ImmediateFeedback: getBool("IMMEDIATE_FEEDBACK", false),
		CORSOrigins:       getList("CORS_ORIGINS", []string{"*"}),
	}
}

func getDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}

func getBool(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid boolean: %v", k, v, err)
	}
	return b
}

func getList(k string, fallback []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
