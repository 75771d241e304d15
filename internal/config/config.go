// Package config assembles the service configuration from defaults, an
// optional JSON file, the environment (including a .env file) and command-line
// flags, in increasing order of priority.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/patric-chuzhbe/studydesk/internal/logger"
)

// insecureSessionKey signs sessions when SESSION_SECRET_KEY is not set.
const insecureSessionKey = "studydesk-insecure-development-key"

type Config struct {
	RunAddr               string        `env:"SERVER_ADDRESS" json:"server_address" validate:"hostname_port"`
	GRPCAddr              string        `env:"GRPC_SERVER_ADDRESS" json:"grpc_server_address" validate:"omitempty,hostname_port"`
	LogLevel              string        `env:"LOG_LEVEL" json:"log_level" validate:"loglevel"`
	DataDir               string        `env:"DATA_DIR" json:"data_dir" validate:"omitempty,filepath"`
	UploadsDir            string        `env:"UPLOADS_DIR" json:"uploads_dir" validate:"required,filepath"`
	DatabaseDSN           string        `env:"DATABASE_DSN" json:"database_dsn"`
	DBConnectionTimeout   time.Duration `env:"DB_CONNECTION_TIMEOUT" json:"db_connection_timeout" validate:"gt=0"`
	MigrationsDir         string        `env:"MIGRATIONS_DIR" json:"migrations_dir"`
	SessionSecretKey      string        `env:"SESSION_SECRET_KEY" json:"session_secret_key"`
	SessionCookieName     string        `env:"SESSION_COOKIE_NAME" json:"session_cookie_name" validate:"required"`
	OpenAIAPIKey          string        `env:"OPENAI_API_KEY" json:"openai_api_key"`
	OpenAIModel           string        `env:"OPENAI_MODEL" json:"openai_model"`
	GenerationTimeout     time.Duration `env:"GENERATION_TIMEOUT" json:"generation_timeout" validate:"gt=0"`
	MaxUploadSize         int64         `env:"MAX_UPLOAD_SIZE" json:"max_upload_size" validate:"gt=0"`
	BookmarkFlushInterval time.Duration `env:"BOOKMARK_FLUSH_INTERVAL" json:"bookmark_flush_interval" validate:"gt=0"`
	TrustedSubnet         string        `env:"TRUSTED_SUBNET" json:"trusted_subnet" validate:"omitempty,cidr"`
	ConfigFile            string        `env:"CONFIG" json:"-"`
}

var defaultConfig = Config{
	RunAddr:               ":8080",
	GRPCAddr:              ":3200",
	LogLevel:              "info",
	DataDir:               "data",
	UploadsDir:            "uploads",
	DBConnectionTimeout:   10 * time.Second,
	MigrationsDir:         "migrations",
	SessionCookieName:     "studydesk_session",
	OpenAIModel:           "gpt-3.5-turbo",
	GenerationTimeout:     30 * time.Second,
	MaxUploadSize:         32 << 20,
	BookmarkFlushInterval: 5 * time.Second,
}

// fileConfig is the JSON file layout. Durations are written as "10s".
type fileConfig struct {
	Config
	DBConnectionTimeout   string `json:"db_connection_timeout"`
	GenerationTimeout     string `json:"generation_timeout"`
	BookmarkFlushInterval string `json:"bookmark_flush_interval"`
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
	args                []string
}

func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// WithArgs replaces os.Args[1:] as the command line to parse.
func WithArgs(args []string) InitOption {
	return func(options *initOptions) {
		options.args = args
	}
}

func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
		args:                os.Args[1:],
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		logger.Log.Debugw("Unable to load .env file", "error", err)
	}

	var fromFlags Config
	if !options.disableFlagsParsing {
		if err := parseFlags(&fromFlags, options.args); err != nil {
			return nil, err
		}
	}

	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return nil, fmt.Errorf("in internal/config/config.go/New(): error while `env.Parse()` calling: %w", err)
	}

	values := &Config{}
	configFile := fromEnv.ConfigFile
	if fromFlags.ConfigFile != "" {
		configFile = fromFlags.ConfigFile
	}
	if configFile != "" {
		fromFile, err := loadFile(configFile)
		if err != nil {
			return nil, err
		}
		overlay(values, fromFile)
	}
	overlay(values, fromEnv)
	overlay(values, fromFlags)
	applyDefaults(values, defaultConfig)

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}

// SessionKey returns the key that signs session tokens and whether it is the
// built-in development key.
func (c *Config) SessionKey() ([]byte, bool) {
	if c.SessionSecretKey == "" {
		return []byte(insecureSessionKey), true
	}
	return []byte(c.SessionSecretKey), false
}

func parseFlags(values *Config, args []string) error {
	fs := flag.NewFlagSet("studydesk", flag.ContinueOnError)
	fs.StringVar(&values.RunAddr, "a", "", "address and port to run the HTTP server")
	fs.StringVar(&values.GRPCAddr, "g", "", "address and port to run the gRPC server")
	fs.StringVar(&values.LogLevel, "l", "", "logger level")
	fs.StringVar(&values.DataDir, "f", "", "directory with the JSON documents")
	fs.StringVar(&values.UploadsDir, "u", "", "directory with the uploaded files")
	fs.StringVar(&values.DatabaseDSN, "d", "", "a string with the database connection details")
	fs.StringVar(&values.SessionSecretKey, "k", "", "key signing the session tokens")
	fs.StringVar(&values.TrustedSubnet, "t", "", "CIDR allowed to read the internal statistics")
	fs.StringVar(&values.ConfigFile, "c", "", "JSON configuration file")
	fs.StringVar(&values.ConfigFile, "config", "", "JSON configuration file")

	return fs.Parse(args)
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("in internal/config/config.go/loadFile(): error while `os.ReadFile()` calling: %w", err)
	}

	var file fileConfig
	if err := json.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("in internal/config/config.go/loadFile(): error while `json.Unmarshal()` calling: %w", err)
	}

	durations := []struct {
		raw string
		dst *time.Duration
	}{
		{file.DBConnectionTimeout, &file.Config.DBConnectionTimeout},
		{file.GenerationTimeout, &file.Config.GenerationTimeout},
		{file.BookmarkFlushInterval, &file.Config.BookmarkFlushInterval},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return Config{}, fmt.Errorf("in internal/config/config.go/loadFile(): bad duration %q: %w", d.raw, err)
		}
		*d.dst = parsed
	}

	return file.Config, nil
}

// overlay copies every non-zero field of src over dst.
func overlay(dst *Config, src Config) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src)
	for i := 0; i < sv.NumField(); i++ {
		if !sv.Field(i).IsZero() {
			dv.Field(i).Set(sv.Field(i))
		}
	}
}

// applyDefaults fills every zero field of dst from defaults.
func applyDefaults(dst *Config, defaults Config) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(defaults)
	for i := 0; i < dv.NumField(); i++ {
		if dv.Field(i).IsZero() {
			dv.Field(i).Set(sv.Field(i))
		}
	}
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return true
	}

	return err == nil && info.IsDir()
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	allowedLogLevels := map[string]bool{
		"debug":  true,
		"info":   true,
		"warn":   true,
		"error":  true,
		"dpanic": true,
		"panic":  true,
		"fatal":  true,
	}

	return allowedLogLevels[fieldLevel.Field().String()]
}

func (c *Config) validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}
	if err := validate.RegisterValidation("filepath", validateFilePath); err != nil {
		return err
	}

	return validate.Struct(c)
}
