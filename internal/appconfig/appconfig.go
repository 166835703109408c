// Package appconfig holds segprep settings and loads them with viper from
// defaults, an optional config file, SEGPREP_* environment variables and flags.
package appconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"segprep/internal/ingest"
	"segprep/internal/pipeline"
	"segprep/internal/segment"
)

const (
	// EnvPrefix namespaces environment overrides, e.g. SEGPREP_MINWORDS.
	EnvPrefix = "SEGPREP"
	// defaultLogFile is used when logFile is not configured.
	defaultLogFile = "segprep.log"
)

// Config represents the merged application configuration.
type Config struct {
	Debug            bool    `json:"debug" mapstructure:"debug"`
	LogFile          string  `json:"logFile,omitempty" mapstructure:"logFile"`
	Seed             uint64  `json:"seed" mapstructure:"seed"`
	Workers          int     `json:"workers" mapstructure:"workers"`
	MinWords         int     `json:"minWords" mapstructure:"minWords"`
	MaxWords         int     `json:"maxWords" mapstructure:"maxWords"`
	Policy           string  `json:"policy" mapstructure:"policy"`
	SamplesPerRecord int     `json:"samplesPerRecord" mapstructure:"samplesPerRecord"`
	MergePrompts     bool    `json:"mergePrompts" mapstructure:"mergePrompts"`
	TestFraction     float64 `json:"testFraction" mapstructure:"testFraction"`
	WindowWords      int     `json:"windowWords" mapstructure:"windowWords"`
	WindowOverlap    int     `json:"windowOverlap" mapstructure:"windowOverlap"`
	DBPath           string  `json:"dbPath,omitempty" mapstructure:"dbPath"`
	SegmentWords     int     `json:"segmentWords" mapstructure:"segmentWords"`
	OverlapWords     int     `json:"overlapWords" mapstructure:"overlapWords"`
	PromptWords      int     `json:"promptWords" mapstructure:"promptWords"`
	ConfigPath       string  `json:"-" mapstructure:"-"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Workers:          0,
		MinWords:         segment.DefaultMinWords,
		MaxWords:         segment.DefaultMaxWords,
		Policy:           segment.KeepFromFirstAI.String(),
		SamplesPerRecord: 1,
		MergePrompts:     true,
		TestFraction:     0.2,
		SegmentWords:     400,
		OverlapWords:     50,
		PromptWords:      30,
	}
}

// Bind registers defaults and environment overrides on v.
func Bind(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("debug", d.Debug)
	v.SetDefault("logFile", d.LogFile)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("minWords", d.MinWords)
	v.SetDefault("maxWords", d.MaxWords)
	v.SetDefault("policy", d.Policy)
	v.SetDefault("samplesPerRecord", d.SamplesPerRecord)
	v.SetDefault("mergePrompts", d.MergePrompts)
	v.SetDefault("testFraction", d.TestFraction)
	v.SetDefault("windowWords", d.WindowWords)
	v.SetDefault("windowOverlap", d.WindowOverlap)
	v.SetDefault("dbPath", d.DBPath)
	v.SetDefault("segmentWords", d.SegmentWords)
	v.SetDefault("overlapWords", d.OverlapWords)
	v.SetDefault("promptWords", d.PromptWords)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// FromViper materializes and validates the merged state of v.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a config file (json, yaml or toml) on top of defaults and env.
// An empty path loads defaults and env only.
func Load(path string) (Config, error) {
	v := viper.New()
	Bind(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
		}
	}
	return FromViper(v)
}

func (c Config) Validate() error {
	var errs []error
	if c.MinWords <= 0 {
		errs = append(errs, fmt.Errorf("minWords must be positive, got %d", c.MinWords))
	}
	if c.MaxWords < c.MinWords {
		errs = append(errs, fmt.Errorf("maxWords %d must not be below minWords %d", c.MaxWords, c.MinWords))
	}
	if _, err := segment.ParsePolicy(c.Policy); err != nil {
		errs = append(errs, err)
	}
	if c.TestFraction < 0 || c.TestFraction >= 1 {
		errs = append(errs, fmt.Errorf("testFraction must be in [0,1), got %g", c.TestFraction))
	}
	if c.SamplesPerRecord < 0 || c.Workers < 0 || c.WindowWords < 0 {
		errs = append(errs, errors.New("samplesPerRecord, workers and windowWords must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return defaultLogFile
}

// PipelineOptions converts the configuration into prepare options.
func (c Config) PipelineOptions() (pipeline.Options, error) {
	policy, err := segment.ParsePolicy(c.Policy)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Seed:             c.Seed,
		Workers:          c.Workers,
		SamplesPerRecord: c.SamplesPerRecord,
		MergePrompts:     c.MergePrompts,
		MinWords:         c.MinWords,
		MaxWords:         c.MaxWords,
		Policy:           policy,
		TestFraction:     c.TestFraction,
		WindowWords:      c.WindowWords,
		WindowOverlap:    c.WindowOverlap,
	}, nil
}

func (c Config) RecordOptions() ingest.RecordOptions {
	return ingest.RecordOptions{
		SegmentWords: c.SegmentWords,
		OverlapWords: c.OverlapWords,
		PromptWords:  c.PromptWords,
	}
}
