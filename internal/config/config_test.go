package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/engine/skeleton"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	// Test book defaults
	if cfg.Book.Segments != 30 {
		t.Errorf("expected 30 segments, got %d", cfg.Book.Segments)
	}
	if len(cfg.Book.Pictures) != 10 {
		t.Errorf("expected 10 pictures, got %d", len(cfg.Book.Pictures))
	}
	if cfg.Book.Route != "/about" {
		t.Errorf("expected route /about, got %s", cfg.Book.Route)
	}

	// Test timing defaults
	if cfg.Settle.Fast != 50*time.Millisecond || cfg.Settle.Slow != 150*time.Millisecond {
		t.Errorf("expected 50ms/150ms stepping, got %v/%v", cfg.Settle.Fast, cfg.Settle.Slow)
	}
	if cfg.Animation.TurnDuration != 400*time.Millisecond {
		t.Errorf("expected turn duration 400ms, got %v", cfg.Animation.TurnDuration)
	}

	if !cfg.Audio.Enabled || cfg.Audio.Volume != 0.8 {
		t.Errorf("expected audio on at 0.8, got %+v", cfg.Audio)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestBookSettings(t *testing.T) {
	cfg := Default()
	cfg.Book.StartPage = 42
	s := cfg.BookSettings()

	if len(s.Pages) != 6 {
		t.Fatalf("expected 6 leaves, got %d", len(s.Pages))
	}
	if s.Pages[0].Front != "book-cover" || s.Pages[5].Back != "book-back" {
		t.Errorf("unexpected covers: %+v ... %+v", s.Pages[0], s.Pages[5])
	}
	if s.StartPage != 6 {
		t.Errorf("start page should clamp to 6, got %d", s.StartPage)
	}
	if s.Leaf != book.DefaultLeafSpec() {
		t.Errorf("leaf spec = %+v", s.Leaf)
	}
	if s.Tuning != book.DefaultTuning() {
		t.Errorf("tuning = %+v", s.Tuning)
	}
	if _, err := book.New(s); err != nil {
		t.Errorf("settings should build a book: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"zero segments", func(c *Config) { c.Book.Segments = 0 }, skeleton.ErrInvalidSegments},
		{"flat leaf", func(c *Config) { c.Book.Depth = 0 }, skeleton.ErrInvalidSegments},
		{"no pages", func(c *Config) {
			c.Book.Cover, c.Book.BackCover, c.Book.Pictures = "", "", nil
		}, book.ErrNoLeaves},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	cfg := Default()
	cfg.Book.HitRegion = book.Region{UMin: 0.3, UMax: 0.1, VMin: 0, VMax: 1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for inverted hit region")
	}

	cfg = Default()
	cfg.Audio.Volume = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for volume above 1")
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

book:
  segments: 12
  pictures: [a, b, c]
  hit_region:
    u_min: 0.1
    u_max: 0.2
    v_min: 0.3
    v_max: 0.4
  surfaces:
    - leaf: 1
      side: back
      color: "#ffeedd"
      plain: true

animation:
  turn_duration: 250ms

settle:
  fast: 20ms
  slow: 80ms

audio:
  enabled: false
  volume: 0.5

logging:
  level: "debug"
  log_file: "folio.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}

	if cfg.Book.Segments != 12 {
		t.Errorf("expected 12 segments, got %d", cfg.Book.Segments)
	}
	if len(cfg.Book.Pictures) != 3 {
		t.Errorf("expected 3 pictures, got %v", cfg.Book.Pictures)
	}
	if cfg.Book.Width != 1.28 {
		t.Errorf("unset width should keep default 1.28, got %v", cfg.Book.Width)
	}
	want := book.Region{UMin: 0.1, UMax: 0.2, VMin: 0.3, VMax: 0.4}
	if cfg.Book.HitRegion != want {
		t.Errorf("expected hit region %+v, got %+v", want, cfg.Book.HitRegion)
	}
	if len(cfg.Book.Surfaces) != 1 || !cfg.Book.Surfaces[0].Plain || cfg.Book.Surfaces[0].Color != "#ffeedd" {
		t.Errorf("unexpected surfaces %+v", cfg.Book.Surfaces)
	}

	if cfg.Animation.TurnDuration != 250*time.Millisecond {
		t.Errorf("expected turn duration 250ms, got %v", cfg.Animation.TurnDuration)
	}
	if cfg.Settle.Fast != 20*time.Millisecond || cfg.Settle.Slow != 80*time.Millisecond {
		t.Errorf("expected 20ms/80ms, got %v/%v", cfg.Settle.Fast, cfg.Settle.Slow)
	}

	if cfg.Audio.Enabled || cfg.Audio.Volume != 0.5 {
		t.Errorf("expected muted audio at 0.5, got %+v", cfg.Audio)
	}
	if cfg.Audio.FlipSound != "audios/page-flip.wav" {
		t.Errorf("unset flip sound should keep default, got %s", cfg.Audio.FlipSound)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "folio.log" {
		t.Errorf("expected log file 'folio.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("book:\n  segments: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); !errors.Is(err, skeleton.ErrInvalidSegments) {
		t.Errorf("LoadFile() = %v, want ErrInvalidSegments", err)
	}

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile(\"\") = %v", err)
	}
	if cfg.Graphics.Width != 1280 {
		t.Errorf("empty path should give defaults, got width %d", cfg.Graphics.Width)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Isolate from any user config
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "page flag",
			setup: func() {
				*flagPage = 3
			},
			verify: func(cfg *Config) {
				if cfg.Book.StartPage != 3 {
					t.Errorf("expected start page 3, got %d", cfg.Book.StartPage)
				}
			},
			teardown: func() {
				*flagPage = -1
			},
		},
		{
			name: "textures flag",
			setup: func() {
				*flagTextures = "/srv/pages"
			},
			verify: func(cfg *Config) {
				if cfg.Assets.Dir != "/srv/pages" {
					t.Errorf("expected textures dir /srv/pages, got %s", cfg.Assets.Dir)
				}
			},
			teardown: func() {
				*flagTextures = ""
			},
		},
		{
			name: "mute flag",
			setup: func() {
				*flagMute = true
			},
			verify: func(cfg *Config) {
				if cfg.Audio.Enabled {
					t.Error("expected audio disabled with mute flag")
				}
			},
			teardown: func() {
				*flagMute = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	// Create and modify config
	cfg := Default()
	cfg.Graphics.Width = 1920
	cfg.Book.Pictures = []string{"one", "two"}
	cfg.Settle.Slow = 200 * time.Millisecond
	cfg.Logging.Level = "warn"

	// Save
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	// Load into fresh config
	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	// Verify values match
	if loaded.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", loaded.Graphics.Width)
	}
	if len(loaded.Book.Pictures) != 2 || loaded.Book.Pictures[1] != "two" {
		t.Errorf("expected pictures [one two], got %v", loaded.Book.Pictures)
	}
	if loaded.Settle.Slow != 200*time.Millisecond {
		t.Errorf("expected slow delay 200ms, got %v", loaded.Settle.Slow)
	}
	if loaded.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", loaded.Logging.Level)
	}
}

func TestLoadPriority(t *testing.T) {
	// Create config file with specific values
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}
