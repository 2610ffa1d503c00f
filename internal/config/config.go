package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL            string `json:"api_base_url"`
	FramesPerSecond       int    `json:"frames_per_second"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	ExportDir             string `json:"export_dir,omitempty"`
	LogLevel              string `json:"log_level"` // "debug", "info", "warn", "error"
	ResumePosition        bool   `json:"resume_position"`
}

func DefaultConfig() Config {
	return Config{
		APIBaseURL:            "http://localhost:3000/api",
		FramesPerSecond:       25,
		RequestTimeoutSeconds: 15,
		LogLevel:              "info",
		ResumePosition:        true,
	}
}

// RequestTimeout is the per-request bound applied by the API client.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// FPS returns the frame rate used for timecode validation.
func (c Config) FPS() int {
	if c.FramesPerSecond <= 0 {
		return 25
	}
	return c.FramesPerSecond
}

// ExportPath returns the directory chapter exports are written to.
func (c Config) ExportPath() string {
	if c.ExportDir != "" {
		return c.ExportDir
	}
	return "."
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, "asrec")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, fallback, "asrec")
}

func ConfigDir() string { return xdgDir("XDG_CONFIG_HOME", ".config") }

// StateDir holds the log file.
func StateDir() string { return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state")) }

// DataDir holds the edit journal.
func DataDir() string { return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")) }

// Path returns the location of config.json.
func Path() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load reads config.json over the defaults, then applies .env and ASREC_*
// environment overrides. A missing or malformed file yields the defaults.
func Load() Config {
	cfg := DefaultConfig()
	if data, err := os.ReadFile(Path()); err == nil {
		_ = json.Unmarshal(data, &cfg) // ignore errors; fall back to defaults
	}
	_ = godotenv.Load() // .env is optional
	applyEnv(&cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ASREC_API_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimRight(v, "/")
	}
	if n, ok := envInt("ASREC_FPS"); ok {
		cfg.FramesPerSecond = n
	}
	if n, ok := envInt("ASREC_TIMEOUT"); ok {
		cfg.RequestTimeoutSeconds = n
	}
	if v := os.Getenv("ASREC_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("ASREC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(), data, 0o644)
}
