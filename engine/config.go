package engine

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// OuterConfig is the envelope document: a kind selector plus the free-form
// definition that is re-decoded into the typed config below.
type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// Config holds the engine's runtime knobs. Zero values are filled with
// defaults by Validate; a config that survives Validate is fatal-error free
// by construction, everything downstream may assume it.
type Config struct {
	// Threads is the worker count N. Defaults to the core count.
	Threads int `mapstructure:"threads"`
	// StaticSize is the tile edge length; must be a power of two, at least 2. 4 is
	// optimal, 2 and 8 are acceptable.
	StaticSize uint32 `mapstructure:"staticSize"`
	// ChunkSize is the round-robin block length of the resolution phase.
	ChunkSize int `mapstructure:"chunkSize"`
	// NumChunks sets the initial arena/alive capacity in chunk multiples.
	NumChunks int `mapstructure:"numChunks"`
	// Origin anchors the pattern in world coordinates; keep near 2^30 so
	// squared-coordinate hashing stays well distributed.
	Origin uint32 `mapstructure:"origin"`
	// Pattern is a catalogue name or literal RLE text.
	Pattern string `mapstructure:"pattern"`
	// Rate caps generations per second, in [1, 16384].
	Rate int `mapstructure:"rate"`
	// DisplayStride is s: the engine computes every generation but renders
	// only one in 2^s.
	DisplayStride int `mapstructure:"displayStride"`
	// ViewRows/ViewCols size the rendered window, excluding the status row.
	ViewRows int `mapstructure:"viewRows"`
	ViewCols int `mapstructure:"viewCols"`
	// Sensitivity is the autotracking scope tg in [1, 11]; larger tightens
	// the region of interest.
	Sensitivity int `mapstructure:"sensitivity"`
	// WindowRate dampens view recentring, in [1, 64].
	WindowRate int `mapstructure:"windowRate"`
	// Autotrack enables centre-of-activity tracking at startup.
	Autotrack bool `mapstructure:"autotrack"`
}

const (
	MinRate        = 1
	MaxRate        = 16384
	MinWindowRate  = 1
	MaxWindowRate  = 64
	MinSensitivity = 1
	MaxSensitivity = 11
)

// FromYaml loads a config from the given file. The document is read as an
// outer kind/def envelope via viper, then the def payload is re-marshalled
// and decoded into the typed Config.
func FromYaml(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	var err error
	if err = vp.ReadInConfig(); err != nil {
		return nil, err
	}

	outer := &OuterConfig{}
	if err = vp.Unmarshal(outer); err != nil {
		return nil, err
	}

	var def []byte
	if def, err = yaml.Marshal(outer.Def); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err = yaml.Unmarshal(def, cfg); err != nil {
		return nil, err
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fills defaults and rejects fatal configurations: a zero worker
// count can default, but a non-power-of-two tile size or an empty pattern
// cannot be repaired and aborts startup.
func (cfg *Config) Validate() error {
	if cfg.Threads < 0 {
		return fmt.Errorf("config: threads must be positive, got %d", cfg.Threads)
	}
	if cfg.Threads == 0 {
		cfg.Threads = runtime.NumCPU()
	}
	if cfg.StaticSize == 0 {
		cfg.StaticSize = 4
	}
	if cfg.StaticSize < 2 || cfg.StaticSize&(cfg.StaticSize-1) != 0 {
		return fmt.Errorf("config: staticSize must be a power of two >= 2, got %d", cfg.StaticSize)
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.NumChunks <= 0 {
		cfg.NumChunks = 8
	}
	if cfg.Origin == 0 {
		cfg.Origin = 1 << 30
	}
	if cfg.Pattern == "" {
		return fmt.Errorf("config: no pattern configured")
	}
	if cfg.Rate == 0 {
		cfg.Rate = 64
	}
	if cfg.Rate < MinRate || cfg.Rate > MaxRate {
		return fmt.Errorf("config: rate must be in [%d, %d], got %d", MinRate, MaxRate, cfg.Rate)
	}
	if cfg.DisplayStride < 0 {
		return fmt.Errorf("config: displayStride must be non-negative, got %d", cfg.DisplayStride)
	}
	if cfg.ViewRows <= 0 {
		cfg.ViewRows = 40
	}
	if cfg.ViewCols <= 0 {
		cfg.ViewCols = 120
	}
	if cfg.Sensitivity == 0 {
		cfg.Sensitivity = 5
	}
	if cfg.Sensitivity < MinSensitivity || cfg.Sensitivity > MaxSensitivity {
		return fmt.Errorf("config: sensitivity must be in [%d, %d], got %d",
			MinSensitivity, MaxSensitivity, cfg.Sensitivity)
	}
	if cfg.WindowRate == 0 {
		cfg.WindowRate = 4
	}
	if cfg.WindowRate < MinWindowRate || cfg.WindowRate > MaxWindowRate {
		return fmt.Errorf("config: windowRate must be in [%d, %d], got %d",
			MinWindowRate, MaxWindowRate, cfg.WindowRate)
	}
	return nil
}
