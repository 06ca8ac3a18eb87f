// Package config loads landscape settings from an optional YAML file layered
// with LANDSCAPE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/joelkehle/drug-landscape/internal/records"
)

const (
	FileName  = "landscape"
	EnvPrefix = "LANDSCAPE"
)

type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Ranking   RankingConfig   `mapstructure:"ranking"`
	Narrative NarrativeConfig `mapstructure:"narrative"`
	Report    ReportConfig    `mapstructure:"report"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type DataConfig struct {
	Dir              string        `mapstructure:"dir"`
	Trials           string        `mapstructure:"trials"`
	TrialDrugs       string        `mapstructure:"trial_drugs"`
	PublicationDrugs string        `mapstructure:"publication_drugs"`
	Publications     string        `mapstructure:"publications"`
	DrugDictionary   string        `mapstructure:"drug_dictionary"`
	Snapshot         string        `mapstructure:"snapshot"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Concurrency      int           `mapstructure:"concurrency"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

type RankingConfig struct {
	TopDrugs        int `mapstructure:"top_drugs"`
	Recommendations int `mapstructure:"recommendations"`
}

type NarrativeConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

type ReportConfig struct {
	ChromePath string `mapstructure:"chrome_path"`
}

type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "./data")
	for _, ds := range records.AllDatasets {
		v.SetDefault("data."+string(ds), string(ds)+".csv.gz")
	}
	v.SetDefault("data.snapshot", "")
	v.SetDefault("data.timeout", 60*time.Second)
	v.SetDefault("data.concurrency", 5)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.mode", "dev")
	v.SetDefault("ranking.top_drugs", 10)
	v.SetDefault("ranking.recommendations", 5)
	v.SetDefault("narrative.enabled", false)
	v.SetDefault("narrative.model", "")
	v.SetDefault("report.chrome_path", "")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "drug-landscape")
	v.SetDefault("telemetry.sample_ratio", 1.0)
}

// Load reads path when given, otherwise searches the working directory and
// $HOME/.config/drug-landscape. Only a missing searched file falls back to
// defaults; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "drug-landscape"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

func (c *Config) Validate() error {
	switch c.Log.Mode {
	case "dev", "prod":
	default:
		return &ConfigError{Field: "log.mode", Message: "must be dev or prod"}
	}
	if c.Data.Concurrency < 1 {
		return &ConfigError{Field: "data.concurrency", Message: "must be at least 1"}
	}
	if c.Data.Timeout <= 0 {
		return &ConfigError{Field: "data.timeout", Message: "must be positive"}
	}
	if c.Ranking.TopDrugs < 1 {
		return &ConfigError{Field: "ranking.top_drugs", Message: "must be at least 1"}
	}
	if c.Ranking.Recommendations < 1 {
		return &ConfigError{Field: "ranking.recommendations", Message: "must be at least 1"}
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return &ConfigError{Field: "server.addr", Message: "required"}
	}
	return nil
}

// Sources resolves each dataset location. URLs and absolute paths are used as
// given; anything else is relative to data.dir.
func (c *Config) Sources() []records.Source {
	locations := map[records.Dataset]string{
		records.Trials:           c.Data.Trials,
		records.TrialDrugs:       c.Data.TrialDrugs,
		records.PublicationDrugs: c.Data.PublicationDrugs,
		records.Publications:     c.Data.Publications,
		records.DrugDictionary:   c.Data.DrugDictionary,
	}
	out := make([]records.Source, 0, len(records.AllDatasets))
	for _, ds := range records.AllDatasets {
		out = append(out, records.Source{Dataset: ds, Location: c.resolve(locations[ds])})
	}
	return out
}

func (c *Config) resolve(location string) string {
	location = strings.TrimSpace(location)
	if isURL(location) || filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(c.Data.Dir, location)
}

func isURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
