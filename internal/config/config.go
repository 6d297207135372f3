package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"intraday-arb/internal/data"
	"intraday-arb/internal/intraday"
	"intraday-arb/internal/logging"
	"intraday-arb/internal/store"
)

// Config is the on-disk configuration shape (YAML or TOML).
type Config struct {
	// Optional: load scan parameters from a separate preset file
	// (e.g. configs/scans/*.yaml). Keys in Scan override the preset.
	ScanFile  string          `yaml:"scan_file" toml:"scan_file"`
	Scan      ScanConfig      `yaml:"scan" toml:"scan"`
	Normalize NormalizeConfig `yaml:"normalize" toml:"normalize"`
	Log       logging.Config  `yaml:"log" toml:"log"`
	Output    OutputConfig    `yaml:"output" toml:"output"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
}

// ScanConfig is one finder configuration.
type ScanConfig struct {
	Name         string           `yaml:"name" toml:"name" json:"name,omitempty"`
	Description  string           `yaml:"description" toml:"description" json:"description,omitempty"`
	WindowLength time.Duration    `yaml:"window_length" toml:"window_length" json:"window_length" default:"5m" validate:"gt=0"`
	VolumeTarget float64          `yaml:"volume_target" toml:"volume_target" json:"volume_target" default:"5" validate:"gt=0"`
	MinSpread    float64          `yaml:"min_spread" toml:"min_spread" json:"min_spread" default:"50"`
	Workers      int              `yaml:"workers" toml:"workers" json:"workers,omitempty" validate:"gte=0"`
	Session      intraday.Session `yaml:"session" toml:"session" json:"session"`
}

type NormalizeConfig struct {
	QuarterHourVolume string `yaml:"quarter_hour_volume" toml:"quarter_hour_volume" default:"keep" validate:"oneof=keep quarter"`
	KeepDuplicates    bool   `yaml:"keep_duplicates" toml:"keep_duplicates"`
}

type OutputConfig struct {
	Dir   string      `yaml:"dir" toml:"dir" default:"outputs"`
	S3    S3Config    `yaml:"s3" toml:"s3"`
	Kafka KafkaConfig `yaml:"kafka" toml:"kafka"`
}

type S3Config struct {
	Enabled        bool   `yaml:"enabled" toml:"enabled"`
	Bucket         string `yaml:"bucket" toml:"bucket" validate:"required_if=Enabled true"`
	Prefix         string `yaml:"prefix" toml:"prefix" default:"intraday/"`
	Region         string `yaml:"region" toml:"region" default:"eu-west-1"`
	Endpoint       string `yaml:"endpoint" toml:"endpoint"`
	AccessKey      string `yaml:"access_key" toml:"access_key"`
	SecretKey      string `yaml:"secret_key" toml:"secret_key"`
	ForcePathStyle bool   `yaml:"force_path_style" toml:"force_path_style"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" toml:"enabled"`
	Brokers []string `yaml:"brokers" toml:"brokers" validate:"required_if=Enabled true"`
	Topic   string   `yaml:"topic" toml:"topic" default:"intraday.opportunities"`
}

type ServerConfig struct {
	Port        int               `yaml:"port" toml:"port" default:"8080" validate:"gte=1,lte=65535"`
	Production  bool              `yaml:"production" toml:"production"`
	CORSOrigins []string          `yaml:"cors_origins" toml:"cors_origins" default:"[\"*\"]"`
	DataDir     string            `yaml:"data_dir" toml:"data_dir" default:"./data"`
	PresetDir   string            `yaml:"preset_dir" toml:"preset_dir" default:"./configs/scans"`
	Store       string            `yaml:"store" toml:"store" default:"memory" validate:"oneof=memory redis"`
	ResultTTL   time.Duration     `yaml:"result_ttl" toml:"result_ttl" default:"1h" validate:"gt=0"`
	Redis       store.RedisConfig `yaml:"redis" toml:"redis"`
}

var validate = validator.New()

// Defaults returns a Config with every default applied.
func Defaults() Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		// Only reachable with a malformed default tag.
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return c
}

// DefaultScan returns the default scan section.
func DefaultScan() ScanConfig {
	return Defaults().Scan
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	if err := c.Scan.ToParams().Validate(); err != nil {
		return fmt.Errorf("scan config invalid: %w", err)
	}
	return nil
}

// ToParams produces the explicit parameter value handed to the finder.
func (s ScanConfig) ToParams() intraday.Params {
	return intraday.Params{
		WindowLength: s.WindowLength,
		VolumeTarget: s.VolumeTarget,
		MinSpread:    s.MinSpread,
		Workers:      s.Workers,
		Session:      s.Session,
	}
}

func (n NormalizeConfig) Options() data.NormalizeOptions {
	return data.NormalizeOptions{
		QuarterHour:    data.QuarterHourPolicy(n.QuarterHourVolume),
		KeepDuplicates: n.KeepDuplicates,
	}
}

// ScanOverride carries request-level changes to a ScanConfig. Nil fields keep
// the base value, so an explicit zero (e.g. min_spread 0) is honored.
type ScanOverride struct {
	WindowLength *string           `json:"window_length,omitempty"`
	VolumeTarget *float64          `json:"volume_target,omitempty"`
	MinSpread    *float64          `json:"min_spread,omitempty"`
	Workers      *int              `json:"workers,omitempty"`
	Session      *intraday.Session `json:"session,omitempty"`
}

// MergeScan overlays the set fields of override onto base.
func MergeScan(base ScanConfig, override ScanOverride) (ScanConfig, error) {
	out := base
	if override.WindowLength != nil {
		d, err := time.ParseDuration(*override.WindowLength)
		if err != nil {
			return base, fmt.Errorf("window_length: %w", err)
		}
		out.WindowLength = d
	}
	if override.VolumeTarget != nil {
		out.VolumeTarget = *override.VolumeTarget
	}
	if override.MinSpread != nil {
		out.MinSpread = *override.MinSpread
	}
	if override.Workers != nil {
		out.Workers = *override.Workers
	}
	if override.Session != nil {
		out.Session = *override.Session
	}
	return out, nil
}
