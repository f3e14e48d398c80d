// Package config loads the ridesim configuration file through viper
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the config directory
const FileName = "ridesim.cfg.json"

// ErrDefaults is returned by Load when no file was found and only defaults apply
var ErrDefaults = errors.New("config file not found, using defaults")

// Settings is the typed view of the configuration
type Settings struct {
	LogLevel string `mapstructure:"logLevel"`
	LogsDir  string `mapstructure:"logsDir"`

	Sim     SimConfig     `mapstructure:"sim"`
	Sound   SoundConfig   `mapstructure:"sound"`
	API     APIConfig     `mapstructure:"api"`
	DB      DBConfig      `mapstructure:"db"`
	Influx  InfluxConfig  `mapstructure:"influx"`
	Graylog GraylogConfig `mapstructure:"graylog"`
	Viewer  Toggle        `mapstructure:"viewer"`
	Audio   Toggle        `mapstructure:"audio"`
}

// SimConfig controls the tick loop
type SimConfig struct {
	Seed uint64 `mapstructure:"seed"`
	// TickRate is in ticks per second
	TickRate int `mapstructure:"tickRate"`
	// Ticks stops the loop after this many ticks, 0 runs until interrupted
	Ticks uint32 `mapstructure:"ticks"`
}

type SoundConfig struct {
	Channels int            `mapstructure:"channels"`
	Viewport ViewportConfig `mapstructure:"viewport"`
}

type ViewportConfig struct {
	X      int32 `mapstructure:"x"`
	Y      int32 `mapstructure:"y"`
	Width  int32 `mapstructure:"width"`
	Height int32 `mapstructure:"height"`
	Zoom   uint8 `mapstructure:"zoom"`
}

type APIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// DBConfig selects the test result store, Postgres first then SQLite
type DBConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	Database   string `mapstructure:"database"`
	SqlitePath string `mapstructure:"sqlitePath"`
}

type InfluxConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Protocol string `mapstructure:"protocol"`
	Token    string `mapstructure:"token"`
	Org      string `mapstructure:"org"`
	Bucket   string `mapstructure:"bucket"`
}

type GraylogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type Toggle struct {
	Enabled bool `mapstructure:"enabled"`
}

// SetDefaults registers every default value
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./ridesimlogs")

	viper.SetDefault("sim.seed", 0x2545F491)
	viper.SetDefault("sim.tickRate", 40)
	viper.SetDefault("sim.ticks", 0)

	viper.SetDefault("sound.channels", 0)
	viper.SetDefault("sound.viewport.x", -480)
	viper.SetDefault("sound.viewport.y", -120)
	viper.SetDefault("sound.viewport.width", 960)
	viper.SetDefault("sound.viewport.height", 540)
	viper.SetDefault("sound.viewport.zoom", 0)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.address", "localhost:8080")

	viper.SetDefault("db.enabled", false)
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "ridesim")
	viper.SetDefault("db.sqlitePath", "")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "ridesim")
	viper.SetDefault("influx.bucket", "rides")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("viewer.enabled", true)
	viper.SetDefault("audio.enabled", false)
}

// Load reads configuration from the JSON file in configDir and sets default values
// A missing file is reported as ErrDefaults, any other read failure is returned wrapped.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return ErrDefaults
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Sim returns the whole configuration as Settings
func Sim() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decoding config: %w", err)
	}
	if s.Sim.TickRate <= 0 {
		return s, fmt.Errorf("sim.tickRate must be positive, got %d", s.Sim.TickRate)
	}
	return s, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
