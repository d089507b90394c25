package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	TimeSaved TimeSavedConfig `yaml:"time_saved"`
	Activity  ActivityConfig  `yaml:"activity"`
	Upload    UploadConfig    `yaml:"upload"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how the server is reached: the HTTP API, or MCP
// on stdin/stdout.
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// StorageConfig selects where the JSON documents live. Only the fields of
// the selected backend are used.
type StorageConfig struct {
	Backend           string `yaml:"backend"`
	Dir               string `yaml:"dir"`
	SQLitePath        string `yaml:"sqlite_path"`
	PostgresDSN       string `yaml:"postgres_dsn"`
	Bucket            string `yaml:"bucket"`
	Region            string `yaml:"region"`
	Endpoint          string `yaml:"endpoint"`
	Prefix            string `yaml:"prefix"`
	AccessKeyID       string `yaml:"access_key_id"`
	SecretAccessKey   string `yaml:"secret_access_key"`
	ConditionalWrites bool   `yaml:"conditional_writes"`
	MaxWriteAttempts  int    `yaml:"max_write_attempts"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type TimeSavedConfig struct {
	MinutesPerItem int  `yaml:"minutes_per_item"`
	CountEmptyRuns bool `yaml:"count_empty_runs"`
}

type ActivityConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		Storage: StorageConfig{
			Backend:          BackendFile,
			Dir:              "data",
			SQLitePath:       "rbm-dashboard.db",
			Region:           "us-east-2",
			MaxWriteAttempts: 3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		TimeSaved: TimeSavedConfig{
			MinutesPerItem: 15,
			CountEmptyRuns: true,
		},
		Activity: ActivityConfig{
			MaxEntries: 200,
		},
		Upload: UploadConfig{
			MaxBytes: 32 << 20,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from the YAML file named by RBM_CONFIG_PATH, if
// any, and environment variables.
func Load() (Config, error) {
	return LoadFrom(os.Getenv("RBM_CONFIG_PATH"))
}

// LoadFrom is Load with an explicit file path. An empty path skips the file.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that can't be used.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	switch c.Transport.Mode {
	case TransportHTTP:
	case TransportStdio:
		if !c.MCP.Enabled {
			errs = append(errs, errors.New("transport.mode stdio requires mcp.enabled"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown transport.mode %q", c.Transport.Mode))
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required for the postgres backend"))
		}
	case BackendS3:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}
	if c.Storage.MaxWriteAttempts <= 0 {
		errs = append(errs, errors.New("storage.max_write_attempts must be positive"))
	}
	if c.TimeSaved.MinutesPerItem <= 0 {
		errs = append(errs, errors.New("time_saved.minutes_per_item must be positive"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("upload.max_bytes must be positive"))
	}
	return errors.Join(errs...)
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("RBM_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if mode := os.Getenv("RBM_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if err := envInt("RBM_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}

	if backend := os.Getenv("RBM_STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if dir := os.Getenv("RBM_STORAGE_DIR"); dir != "" {
		cfg.Storage.Dir = dir
	}
	if path := os.Getenv("RBM_SQLITE_PATH"); path != "" {
		cfg.Storage.SQLitePath = path
	}
	if dsn := os.Getenv("RBM_POSTGRES_DSN"); dsn != "" {
		cfg.Storage.PostgresDSN = dsn
	}
	if endpoint := os.Getenv("RBM_S3_ENDPOINT"); endpoint != "" {
		cfg.Storage.Endpoint = endpoint
	}
	if prefix := os.Getenv("RBM_S3_PREFIX"); prefix != "" {
		cfg.Storage.Prefix = prefix
	}
	cfg.Storage.Bucket = firstEnv(cfg.Storage.Bucket, "RBM_S3_BUCKET", "NEXT_PUBLIC_S3_BUCKET")
	cfg.Storage.Region = firstEnv(cfg.Storage.Region, "RBM_S3_REGION", "NEXT_PUBLIC_AWS_REGION")
	cfg.Storage.AccessKeyID = firstEnv(cfg.Storage.AccessKeyID, "RBM_S3_ACCESS_KEY_ID", "S3_ACCESS_KEY_ID")
	cfg.Storage.SecretAccessKey = firstEnv(cfg.Storage.SecretAccessKey, "RBM_S3_SECRET_ACCESS_KEY", "S3_SECRET_ACCESS_KEY")
	if err := envBool("RBM_CONDITIONAL_WRITES", &cfg.Storage.ConditionalWrites); err != nil {
		return err
	}
	if err := envInt("RBM_MAX_WRITE_ATTEMPTS", &cfg.Storage.MaxWriteAttempts); err != nil {
		return err
	}

	if level := os.Getenv("RBM_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv("RBM_LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}
	if file := os.Getenv("RBM_LOG_FILE"); file != "" {
		cfg.Log.File = file
	}

	if err := envInt("RBM_MINUTES_PER_ITEM", &cfg.TimeSaved.MinutesPerItem); err != nil {
		return err
	}
	if err := envBool("RBM_COUNT_EMPTY_RUNS", &cfg.TimeSaved.CountEmptyRuns); err != nil {
		return err
	}
	if err := envBool("RBM_MCP_ENABLED", &cfg.MCP.Enabled); err != nil {
		return err
	}
	return nil
}

// firstEnv returns the first set variable, or current when none is set.
func firstEnv(current string, names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return current
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = n
	return nil
}

func envBool(name string, dst *bool) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = b
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
