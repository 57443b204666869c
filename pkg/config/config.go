package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerPort  string
	Environment string
	CORSOrigins []string

	FirebaseProject     string
	FirebaseDatabaseURL string
	ServiceAccountJSON  string
	ServiceAccountPath  string

	StoreBackend   string
	AuthVerifier   string
	TokenClockSkew time.Duration

	BlobBackend   string
	StorageBucket string
	PfpBucket     string
	S3Endpoint    string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	ImageMaxKB    int

	AuditBackend string

	AdminUIDs []string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	RateLimitRPS        float64
	RateLimitBurst      int
	PriceLimitPerMinute int
}

type adminFile struct {
	Admins []string `yaml:"admins"`
}

func Load() (*Config, error) {
	// A missing .env is fine; the environment may come from elsewhere.
	_ = godotenv.Load()

	skew, err := getEnvAsDuration("TOKEN_CLOCK_SKEW", 10*time.Second)
	if err != nil {
		return nil, err
	}
	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "5001"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),

		FirebaseProject:     getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseDatabaseURL: getEnv("FIREBASE_DATABASE_URL", ""),
		ServiceAccountJSON:  getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath:  getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),

		StoreBackend:   getEnv("STORE_BACKEND", "rtdb"),
		AuthVerifier:   getEnv("AUTH_VERIFIER", "firebase"),
		TokenClockSkew: skew,

		BlobBackend:   getEnv("BLOB_BACKEND", "gcs"),
		StorageBucket: getEnv("STORAGE_BUCKET", "listing-images"),
		PfpBucket:     getEnv("PFP_BUCKET", "pfp-images"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3Region:      getEnv("S3_REGION", "auto"),
		S3AccessKey:   getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),
		ImageMaxKB:    int(getEnvAsInt64("IMAGE_MAX_KB", 10)),

		AuditBackend: getEnv("AUDIT_BACKEND", "firestore"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4.1-nano"),

		RateLimitRPS:        rps,
		RateLimitBurst:      int(getEnvAsInt64("RATE_LIMIT_BURST", 40)),
		PriceLimitPerMinute: int(getEnvAsInt64("PRICE_LIMIT_PER_MINUTE", 6)),
	}

	admins, err := LoadAdmins(getEnv("ADMIN_UIDS", ""), getEnv("ADMIN_FILE", ""))
	if err != nil {
		return nil, err
	}
	config.AdminUIDs = admins

	return config, nil
}

// IsDevelopment reports whether in-process fallbacks may be used.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadAdmins merges the comma-separated list with the optional YAML file
// (`admins: [uid, ...]`). Duplicates and blanks are dropped.
func LoadAdmins(list, path string) ([]string, error) {
	ids := splitList(list)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", path, err)
		}
		var f adminFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("unable to parse %s: %w", path, err)
		}
		ids = append(ids, f.Admins...)
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
