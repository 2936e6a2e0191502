package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the generator settings.
type Config struct {
	// OutputDirectory is where finalized bundles are installed when a request names none.
	OutputDirectory string `yaml:"output_dir"`
	// TemplateDirectory is the path to the Template.app bundle; empty means auto-detect.
	TemplateDirectory string `yaml:"template_dir"`
	// StagingDirectory is the parent of per-request staging workspaces; empty means os.TempDir.
	StagingDirectory string `yaml:"staging_dir"`
	// IdentifierPrefix is the reverse-DNS prefix of generated bundle identifiers.
	IdentifierPrefix string `yaml:"identifier_prefix"`
	// ServerAddress is the gRPC address of the generator daemon.
	ServerAddress string `yaml:"server_addr"`
	// Timeout bounds unary daemon calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFile is an optional prefix for rotating log files.
	LogFile string `yaml:"log_file"`
	// LogFileLevel is the level of the rotating log files; empty means LogLevel.
	LogFileLevel string `yaml:"log_file_level"`
}

const (
	// DefaultConfigFilename is the default filename for generator settings.
	DefaultConfigFilename = "webbox-settings.yaml"

	// DefaultOutputDirectory is where bundles go when nothing else is configured.
	DefaultOutputDirectory = "~/Applications"

	// DefaultIdentifierPrefix prefixes every generated bundle identifier.
	DefaultIdentifierPrefix = "io.webbox.app"

	// DefaultServerAddress is the loopback address of the generator daemon.
	DefaultServerAddress = "127.0.0.1:50571"

	// DefaultTimeout is the default duration for unary daemon calls.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used when the settings do not name one.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidIdentifierPrefix is returned for prefixes that are not reverse-DNS.
	errInvalidIdentifierPrefix = errors.New("identifier prefix must be dot-separated lower-case labels")

	// identifierPrefixPattern matches prefixes such as io.webbox.app.
	identifierPrefixPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*(\.[a-z0-9][a-z0-9-]*)+$`)
)

// Default returns settings populated with defaults.
func Default() *Config {
	cfg := new(Config)
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the provided settings for formatting errors.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.OutputDirectory == "" {
		settings.OutputDirectory = DefaultOutputDirectory
	}

	if settings.IdentifierPrefix == "" {
		settings.IdentifierPrefix = DefaultIdentifierPrefix
	}

	if settings.ServerAddress == "" {
		settings.ServerAddress = DefaultServerAddress
	}

	// Set default timeout if not specified.
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if settings.LogFileLevel == "" {
		settings.LogFileLevel = settings.LogLevel
	}

	if !identifierPrefixPattern.MatchString(settings.IdentifierPrefix) {
		return fmt.Errorf("%q: %w", settings.IdentifierPrefix, errInvalidIdentifierPrefix)
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	return nil
}
