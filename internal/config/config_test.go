package config

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// isolate points every XDG dir at a temp dir and clears ASREC_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"ASREC_API_URL", "ASREC_FPS", "ASREC_TIMEOUT", "ASREC_EXPORT_DIR", "ASREC_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.FramesPerSecond != 25 {
		t.Errorf("frames_per_second = %d, want 25", cfg.FramesPerSecond)
	}
	if cfg.RequestTimeout() != 15*time.Second {
		t.Errorf("timeout = %v, want 15s", cfg.RequestTimeout())
	}
	if !cfg.ResumePosition {
		t.Error("resume_position should default to true")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.APIBaseURL = "https://dubbing.example.com/api"
	cfg.FramesPerSecond = 24
	cfg.ExportDir = "/tmp/exports"

	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "asrec", "config.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded := Load()
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("got %+v, want %+v", loaded, cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	isolate(t)

	cfg := Load()
	expected := DefaultConfig()
	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf("got %+v, want defaults %+v", cfg, expected)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	dir := isolate(t)

	configDir := filepath.Join(dir, "asrec")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte("not json"), 0o644)

	cfg := Load()
	expected := DefaultConfig()
	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf("malformed json: got %+v, want defaults", cfg)
	}
}

func TestLoad_PartialJSON(t *testing.T) {
	dir := isolate(t)

	configDir := filepath.Join(dir, "asrec")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"frames_per_second": 30}`), 0o644)

	cfg := Load()
	if cfg.FramesPerSecond != 30 {
		t.Errorf("frames_per_second = %d, want 30", cfg.FramesPerSecond)
	}
	if cfg.RequestTimeoutSeconds != 15 {
		t.Errorf("request_timeout_seconds = %d, want 15 (default preserved)", cfg.RequestTimeoutSeconds)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("ASREC_API_URL", "http://backend:3000/api/")
	t.Setenv("ASREC_FPS", "24")
	t.Setenv("ASREC_TIMEOUT", "nope")
	t.Setenv("ASREC_LOG_LEVEL", "DEBUG")

	cfg := Load()
	if cfg.APIBaseURL != "http://backend:3000/api" {
		t.Errorf("api_base_url = %q", cfg.APIBaseURL)
	}
	if cfg.FPS() != 24 {
		t.Errorf("fps = %d", cfg.FPS())
	}
	if cfg.RequestTimeoutSeconds != 15 {
		t.Errorf("invalid ASREC_TIMEOUT should be ignored, got %d", cfg.RequestTimeoutSeconds)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
}

func TestDirs_XDG(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		got, want string
	}{
		{ConfigDir(), filepath.Join(dir, "asrec")},
		{StateDir(), filepath.Join(dir, "state", "asrec")},
		{DataDir(), filepath.Join(dir, "data", "asrec")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("dir = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestSave_JSONFormat(t *testing.T) {
	dir := isolate(t)

	Save(DefaultConfig())

	data, _ := os.ReadFile(filepath.Join(dir, "asrec", "config.json"))

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("saved config is not valid JSON: %v", err)
	}
	if _, ok := parsed["api_base_url"]; !ok {
		t.Error("api_base_url missing from saved config")
	}
}

func TestSession_RoundTrip(t *testing.T) {
	dir := isolate(t)

	if s, err := LoadSession(); err != nil || s != nil {
		t.Fatalf("fresh LoadSession = %+v, %v", s, err)
	}

	in := Session{
		Username: "operator",
		BaseURL:  "http://localhost:3000/api",
		Cookies:  CookiesFrom([]*http.Cookie{{Name: "session", Value: "tok-1"}}),
	}
	if err := SaveSession(in); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(dir, "asrec", "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("session file mode = %v, want 0600", info.Mode().Perm())
	}

	out, err := LoadSession()
	if err != nil || out == nil {
		t.Fatalf("LoadSession = %+v, %v", out, err)
	}
	cookies := out.HTTPCookies()
	if out.Username != "operator" || len(cookies) != 1 || cookies[0].Value != "tok-1" {
		t.Errorf("session = %+v", out)
	}

	if err := ClearSession(); err != nil {
		t.Fatal(err)
	}
	if err := ClearSession(); err != nil {
		t.Errorf("second clear: %v", err)
	}
	if s, _ := LoadSession(); s != nil {
		t.Error("session should be gone")
	}
}

func TestSession_SkipsExpiredCookies(t *testing.T) {
	s := &Session{Cookies: []Cookie{
		{Name: "old", Value: "x", Expires: time.Now().Add(-time.Hour)},
		{Name: "session", Value: "y"},
	}}
	got := s.HTTPCookies()
	if len(got) != 1 || got[0].Name != "session" {
		t.Errorf("cookies = %+v", got)
	}
	var nilSession *Session
	if nilSession.HTTPCookies() != nil {
		t.Error("nil session has no cookies")
	}
}
