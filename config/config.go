package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// LedgerColumns is the fixed ledger header
var LedgerColumns = []string{"NUMERO_DA_FATURA", "DATA_DA_FATURA", "URL_DA_FATURA"}

// Config represents the application configuration
type Config struct {
	// Target site
	TargetURL string

	// Directory layout
	BaseDir        string
	ResultsDir     string
	ImagesRootDir  string
	ErrorImagesDir string
	LogsDir        string

	// Browser configuration
	ElementWait time.Duration
	NextWait    time.Duration
	Headless    bool
	BrowserBin  string

	// Asset fetcher
	HTTPTimeout time.Duration

	// Redis configuration (run reports, optional)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Memcache configuration (run lock, optional)
	MemcacheAddr string
	RunLockTTL   time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	baseDir := getEnv("ROBOT_BASE_DIR", cwd)

	elementWait, _ := strconv.Atoi(getEnv("ROBOT_ELEMENT_WAIT_SECONDS", "60"))
	nextWait, _ := strconv.Atoi(getEnv("ROBOT_NEXT_WAIT_SECONDS", "1"))
	httpTimeout, _ := strconv.Atoi(getEnv("ROBOT_HTTP_TIMEOUT_SECONDS", "30"))
	headless, _ := strconv.ParseBool(getEnv("ROBOT_HEADLESS", "true"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))
	lockTTL, _ := strconv.Atoi(getEnv("RUN_LOCK_TTL_SECONDS", "3600"))

	imagesRoot := filepath.Join(baseDir, "IMGS")

	return &Config{
		TargetURL:            getEnv("ROBOT_TARGET_URL", "https://rpachallengeocr.azurewebsites.net/"),
		BaseDir:              baseDir,
		ResultsDir:           filepath.Join(baseDir, "RESULTS"),
		ImagesRootDir:        imagesRoot,
		ErrorImagesDir:       filepath.Join(imagesRoot, "ERRORS"),
		LogsDir:              filepath.Join(baseDir, "LOGS"),
		ElementWait:          time.Duration(elementWait) * time.Second,
		NextWait:             time.Duration(nextWait) * time.Second,
		Headless:             headless,
		BrowserBin:           os.Getenv("ROBOT_BROWSER_BIN"),
		HTTPTimeout:          time.Duration(httpTimeout) * time.Second,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "robot:runs"),
		RedisStreamMaxLength: redisMaxLen,
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		RunLockTTL:           time.Duration(lockTTL) * time.Second,
		Environment:          getEnv("ROBOT_ENVIRONMENT", "development"),
	}
}

// ImagesDir returns the per-run images directory for the given run stamp
func (c *Config) ImagesDir(runStamp string) string {
	return filepath.Join(c.ImagesRootDir, runStamp)
}

// Validate checks the configuration for values the robot cannot run with
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return fmt.Errorf("target URL is required")
	}
	u, err := url.Parse(c.TargetURL)
	if err != nil {
		return fmt.Errorf("invalid target URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("target URL must be http or https, got %q", u.Scheme)
	}
	if c.ElementWait <= 0 {
		return fmt.Errorf("element wait must be positive")
	}
	if c.NextWait <= 0 {
		return fmt.Errorf("next wait must be positive")
	}
	if c.NextWait >= c.ElementWait {
		return fmt.Errorf("next wait (%s) must be shorter than element wait (%s)", c.NextWait, c.ElementWait)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	return nil
}

// IsProduction reports whether the robot runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
