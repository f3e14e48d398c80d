package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// TestLoadMissingFileUsesDefaults verifies a missing file is not fatal
func TestLoadMissingFileUsesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	if !errors.Is(err, ErrDefaults) {
		t.Fatalf("Load() = %v, want ErrDefaults", err)
	}
	s, err := Sim()
	if err != nil {
		t.Fatalf("Sim() error = %v", err)
	}
	if s.Sim.TickRate != 40 {
		t.Errorf("tickRate = %d, want 40", s.Sim.TickRate)
	}
	if s.API.Address != "localhost:8080" {
		t.Errorf("api.address = %q", s.API.Address)
	}
	if !s.Viewer.Enabled || s.Audio.Enabled {
		t.Errorf("viewer/audio = %v/%v, want true/false", s.Viewer.Enabled, s.Audio.Enabled)
	}
}

// TestLoadOverridesDefaults verifies nested keys from the file win over defaults
func TestLoadOverridesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	body := `{
		"logLevel": "debug",
		"sim": {"seed": 7, "tickRate": 20, "ticks": 500},
		"sound": {"channels": 3, "viewport": {"width": 640, "zoom": 2}},
		"db": {"enabled": true, "sqlitePath": "results.db"}
	}`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := Load(dir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s, err := Sim()
	if err != nil {
		t.Fatalf("Sim() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"logLevel", s.LogLevel, "debug"},
		{"seed", s.Sim.Seed, uint64(7)},
		{"tickRate", s.Sim.TickRate, 20},
		{"ticks", s.Sim.Ticks, uint32(500)},
		{"channels", s.Sound.Channels, 3},
		{"width", s.Sound.Viewport.Width, int32(640)},
		{"height default", s.Sound.Viewport.Height, int32(540)},
		{"zoom", s.Sound.Viewport.Zoom, uint8(2)},
		{"db enabled", s.DB.Enabled, true},
		{"sqlite path", s.DB.SqlitePath, "results.db"},
		{"influx bucket default", s.Influx.Bucket, "rides"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

// TestSimRejectsZeroTickRate verifies a zero tick rate is refused
func TestSimRejectsZeroTickRate(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("sim.tickRate", 0)
	if _, err := Sim(); err == nil {
		t.Fatal("Sim() accepted tickRate 0")
	}
}
