// Package config loads service configuration from config.yaml and APICONF_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rpattn/apiconf/internal/db"
)

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// ConfigsConfig selects where raw entity configuration is read from.
type ConfigsConfig struct {
	// Source is "files" or "database".
	Source string
	Paths  []string
}

// MetadataConfig selects where class metadata is read from.
type MetadataConfig struct {
	// Source is "file" or "postgres".
	Source              string
	File                string
	Schema              string
	BatchWait           time.Duration
	AssociationDataType string
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string
	Development bool
}

// Config is the complete service configuration.
type Config struct {
	Database db.Config
	HTTP     HTTPConfig
	Configs  ConfigsConfig
	Metadata MetadataConfig
	Log      LogConfig
}

// Sources of raw configuration and metadata.
const (
	SourceFiles    = "files"
	SourceDatabase = "database"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Database: db.DefaultConfig(),
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000"},
		},
		Configs: ConfigsConfig{
			Source: SourceFiles,
			Paths:  []string{"./configs"},
		},
		Metadata: MetadataConfig{
			Source:              SourceFile,
			File:                "./metadata.yml",
			Schema:              "public",
			BatchWait:           2 * time.Millisecond,
			AssociationDataType: "integer",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads config.yaml from configPath (when present) and applies
// APICONF_* environment overrides, e.g. APICONF_DATABASE_HOST.
func Load(configPath string) (Config, bool, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.SetEnvPrefix("APICONF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, false, fmt.Errorf("failed to read config: %w", err)
		}
		found = false
	}

	cfg.Database = db.Config{
		Host:     v.GetString("database.host"),
		Port:     v.GetInt("database.port"),
		User:     v.GetString("database.user"),
		Password: v.GetString("database.password"),
		DBName:   v.GetString("database.dbname"),
		SSLMode:  v.GetString("database.sslmode"),
	}
	cfg.HTTP = HTTPConfig{
		Addr:            v.GetString("http.addr"),
		ReadTimeout:     v.GetDuration("http.read_timeout"),
		WriteTimeout:    v.GetDuration("http.write_timeout"),
		IdleTimeout:     v.GetDuration("http.idle_timeout"),
		ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		AllowedOrigins:  v.GetStringSlice("http.allowed_origins"),
	}
	cfg.Configs = ConfigsConfig{
		Source: v.GetString("configs.source"),
		Paths:  v.GetStringSlice("configs.paths"),
	}
	cfg.Metadata = MetadataConfig{
		Source:              v.GetString("metadata.source"),
		File:                v.GetString("metadata.file"),
		Schema:              v.GetString("metadata.schema"),
		BatchWait:           v.GetDuration("metadata.batch_wait"),
		AssociationDataType: v.GetString("metadata.association_data_type"),
	}
	cfg.Log = LogConfig{
		Level:       v.GetString("log.level"),
		Development: v.GetBool("log.development"),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, found, err
	}
	return cfg, found, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("database.host", cfg.Database.Host)
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.user", cfg.Database.User)
	v.SetDefault("database.password", cfg.Database.Password)
	v.SetDefault("database.dbname", cfg.Database.DBName)
	v.SetDefault("database.sslmode", cfg.Database.SSLMode)

	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", cfg.HTTP.IdleTimeout)
	v.SetDefault("http.shutdown_timeout", cfg.HTTP.ShutdownTimeout)
	v.SetDefault("http.allowed_origins", cfg.HTTP.AllowedOrigins)

	v.SetDefault("configs.source", cfg.Configs.Source)
	v.SetDefault("configs.paths", cfg.Configs.Paths)

	v.SetDefault("metadata.source", cfg.Metadata.Source)
	v.SetDefault("metadata.file", cfg.Metadata.File)
	v.SetDefault("metadata.schema", cfg.Metadata.Schema)
	v.SetDefault("metadata.batch_wait", cfg.Metadata.BatchWait)
	v.SetDefault("metadata.association_data_type", cfg.Metadata.AssociationDataType)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.development", cfg.Log.Development)
}

// Validate rejects unknown source names.
func (c Config) Validate() error {
	switch c.Configs.Source {
	case SourceFiles, SourceDatabase:
	default:
		return fmt.Errorf("unknown configs.source %q", c.Configs.Source)
	}
	switch c.Metadata.Source {
	case SourceFile, SourcePostgres:
	default:
		return fmt.Errorf("unknown metadata.source %q", c.Metadata.Source)
	}
	if c.Configs.Source == SourceFiles && len(c.Configs.Paths) == 0 {
		return errors.New("configs.paths is required for the files source")
	}
	return nil
}
