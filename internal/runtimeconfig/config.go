package runtimeconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oshokin/webbox/internal/domain/generation"
)

const (
	// Filename is the config file name inside the resources directory.
	Filename = "config.json"
	// RelativePath locates the config file from the bundle root.
	RelativePath = "Contents/Resources/" + Filename
	// FileMode is applied to the written config.
	FileMode os.FileMode = 0o644
)

var (
	errEmptyName  = errors.New("name is empty")
	errEmptyURL   = errors.New("url is empty")
	errBadScheme  = errors.New("url scheme must be http or https")
	errConfigNull = errors.New("config is nil")
)

// Config is everything that varies between generated apps at run time.
type Config struct {
	// Name is the window title.
	Name string `json:"name"`
	// URL is the page the runtime loads.
	URL string `json:"url"`
	// Identifier is the bundle identifier, used for per-app storage.
	Identifier string `json:"identifier,omitempty"`
	// GeneratedAt records when the bundle was produced.
	GeneratedAt time.Time `json:"generated_at,omitzero"`
}

// FromManifest derives the runtime config from a bundle manifest.
func FromManifest(m *generation.Manifest) *Config {
	return &Config{
		Name:        m.DisplayName,
		URL:         m.TargetURL,
		Identifier:  m.Identifier,
		GeneratedAt: m.GeneratedAt,
	}
}

// Validate checks the fields the runtime cannot start without.
func (c *Config) Validate() error {
	if c == nil {
		return errConfigNull
	}

	if strings.TrimSpace(c.Name) == "" {
		return errEmptyName
	}

	if strings.TrimSpace(c.URL) == "" {
		return errEmptyURL
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q: %w", c.URL, errBadScheme)
	}

	return nil
}

// Path returns the config location inside the bundle at bundleRoot.
func Path(bundleRoot string) string {
	return filepath.Join(bundleRoot, filepath.FromSlash(RelativePath))
}

// PathForExecutable returns the config location for a runtime executable
// installed at Contents/MacOS/<exe>.
func PathForExecutable(executable string) string {
	return filepath.Join(filepath.Dir(executable), "..", "Resources", Filename)
}

// Write stores cfg in the bundle at bundleRoot.
// The file is written next to its destination and renamed into place, so a
// reader never observes a partial config.
func Write(bundleRoot string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return generation.Wrap(generation.KindConfigWrite, "write runtime config", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return generation.Wrap(generation.KindConfigWrite, "write runtime config", err)
	}

	target := Path(bundleRoot)

	if err = writeAtomic(target, append(data, '\n')); err != nil {
		return generation.Wrap(generation.KindConfigWrite, "write runtime config", err)
	}

	return nil
}

func writeAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+Filename+".*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return err
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return err
	}

	if err = os.Chmod(tmpName, FileMode); err != nil {
		_ = os.Remove(tmpName)

		return err
	}

	if err = os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)

		return err
	}

	return nil
}

// Load reads and validates the config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read runtime config: %w", err)
	}

	var cfg Config
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse runtime config %s: %w", path, err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runtime config %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadForExecutable loads the config of the bundle containing executable.
func LoadForExecutable(executable string) (*Config, error) {
	return Load(PathForExecutable(executable))
}
