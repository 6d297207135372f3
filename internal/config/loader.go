package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML or TOML file (by extension) on top of the built-in
// defaults, applies INTRADAY_* environment overrides and validates the result.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		// The preset goes in first so keys in the main file override it.
		var head struct {
			ScanFile string `yaml:"scan_file" toml:"scan_file"`
		}
		if err := decode(path, raw, &head); err != nil {
			return nil, err
		}
		if head.ScanFile != "" {
			if err := loadScanFile(resolveRelative(path, head.ScanFile), &c.Scan); err != nil {
				return nil, err
			}
		}

		if err := decode(path, raw, &c); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&c)
	return &c, nil
}

func decode(path string, raw []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(raw), v); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}

// resolveRelative prefers interpreting ref relative to the config file
// directory, but falls back to ref as given (relative to cwd) if that
// doesn't exist.
func resolveRelative(configPath, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	cand := filepath.Join(filepath.Dir(configPath), ref)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return ref
}

type scanFileWrapper struct {
	Scan ScanConfig `yaml:"scan" toml:"scan"`
}

// loadScanFile decodes the scan section of a preset file into dst. Keys the
// preset omits keep the value dst already holds.
func loadScanFile(path string, dst *ScanConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scan preset: %w", err)
	}
	w := scanFileWrapper{Scan: *dst}
	if err := decode(path, raw, &w); err != nil {
		return err
	}
	*dst = w.Scan
	return nil
}

// LoadScanPreset reads a preset file on top of the default scan section.
func LoadScanPreset(path string) (ScanConfig, error) {
	s := DefaultScan()
	if err := loadScanFile(path, &s); err != nil {
		return ScanConfig{}, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := s.ToParams().Validate(); err != nil {
		return ScanConfig{}, fmt.Errorf("scan preset %s: %w", path, err)
	}
	return s, nil
}

// applyEnvOverrides reads well-known INTRADAY_* environment variables and
// overwrites the corresponding Config fields when a variable is set.
func applyEnvOverrides(c *Config) {
	// ── Scan ──
	setDuration(&c.Scan.WindowLength, "INTRADAY_SCAN_WINDOW_LENGTH")
	setFloat64(&c.Scan.VolumeTarget, "INTRADAY_SCAN_VOLUME_TARGET")
	setFloat64(&c.Scan.MinSpread, "INTRADAY_SCAN_MIN_SPREAD")
	setInt(&c.Scan.Workers, "INTRADAY_SCAN_WORKERS")
	setStr(&c.Scan.Session.Start, "INTRADAY_SCAN_SESSION_START")
	setStr(&c.Scan.Session.End, "INTRADAY_SCAN_SESSION_END")

	// ── Normalize ──
	setStr(&c.Normalize.QuarterHourVolume, "INTRADAY_NORMALIZE_QUARTER_HOUR_VOLUME")

	// ── Log ──
	setStr(&c.Log.Level, "INTRADAY_LOG_LEVEL")
	setStr(&c.Log.Format, "INTRADAY_LOG_FORMAT")
	setStr(&c.Log.Output, "INTRADAY_LOG_OUTPUT")

	// ── Output ──
	setStr(&c.Output.Dir, "INTRADAY_OUTPUT_DIR")
	setBool(&c.Output.S3.Enabled, "INTRADAY_S3_ENABLED")
	setStr(&c.Output.S3.Bucket, "INTRADAY_S3_BUCKET")
	setStr(&c.Output.S3.Prefix, "INTRADAY_S3_PREFIX")
	setStr(&c.Output.S3.Region, "INTRADAY_S3_REGION")
	setStr(&c.Output.S3.Endpoint, "INTRADAY_S3_ENDPOINT")
	setStr(&c.Output.S3.AccessKey, "INTRADAY_S3_ACCESS_KEY")
	setStr(&c.Output.S3.SecretKey, "INTRADAY_S3_SECRET_KEY")
	setBool(&c.Output.S3.ForcePathStyle, "INTRADAY_S3_FORCE_PATH_STYLE")
	setBool(&c.Output.Kafka.Enabled, "INTRADAY_KAFKA_ENABLED")
	setStringSlice(&c.Output.Kafka.Brokers, "INTRADAY_KAFKA_BROKERS")
	setStr(&c.Output.Kafka.Topic, "INTRADAY_KAFKA_TOPIC")

	// ── Server ──
	setInt(&c.Server.Port, "API_PORT") // compatibility alias
	setInt(&c.Server.Port, "INTRADAY_SERVER_PORT")
	setBool(&c.Server.Production, "INTRADAY_SERVER_PRODUCTION")
	setStringSlice(&c.Server.CORSOrigins, "INTRADAY_SERVER_CORS_ORIGINS")
	setStr(&c.Server.DataDir, "INTRADAY_DATA_DIR")
	setStr(&c.Server.PresetDir, "INTRADAY_PRESET_DIR")
	setStr(&c.Server.Store, "INTRADAY_SERVER_STORE")
	setDuration(&c.Server.ResultTTL, "INTRADAY_SERVER_RESULT_TTL")
	setStr(&c.Server.Redis.Addr, "INTRADAY_REDIS_ADDR")
	setStr(&c.Server.Redis.Password, "INTRADAY_REDIS_PASSWORD")
	setInt(&c.Server.Redis.DB, "INTRADAY_REDIS_DB")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		*dst = cleaned
	}
}
