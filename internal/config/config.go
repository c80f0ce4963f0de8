package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the root configuration for tj, stored in ~/.tj/config.toml.
type Config struct {
	// Root is the directory holding one folder per journal.
	Root string `toml:"root" mapstructure:"root"`
	// Journal is selected on start without asking. Empty means ask when
	// there is more than one journal.
	Journal string `toml:"journal" mapstructure:"journal"`
	// Editor opens entries with /open and tj open. Empty uses $EDITOR, then vi.
	Editor   string       `toml:"editor" mapstructure:"editor"`
	PageSize int          `toml:"page_size" mapstructure:"page_size"`
	LogDir   string       `toml:"log_dir" mapstructure:"log_dir"`
	Backup   BackupConfig `toml:"backup" mapstructure:"backup"`
}

// BackupConfig holds the S3 destination used by tj backup.
type BackupConfig struct {
	Bucket  string `toml:"bucket" mapstructure:"bucket"`
	Prefix  string `toml:"prefix" mapstructure:"prefix"`
	Region  string `toml:"region" mapstructure:"region"`
	Profile string `toml:"profile" mapstructure:"profile"`
}

const (
	// EnvPrefix prefixes environment overrides, e.g. TJ_ROOT or TJ_BACKUP_BUCKET.
	EnvPrefix = "TJ"
	// DefaultPageSize is the number of entries per /prev page.
	DefaultPageSize = 20
	// DefaultEditor is used when neither the config nor $EDITOR name one.
	DefaultEditor = "vi"
)

// Default returns a Config pre-filled with the built-in defaults. Paths are
// left unexpanded so the written file stays portable.
func Default() *Config {
	return &Config{
		Root:     "~/.tj/journals",
		PageSize: DefaultPageSize,
		LogDir:   "~/.tj/log",
		Backup:   BackupConfig{Prefix: "tj"},
	}
}

// DefaultPath returns ~/.tj/config.toml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tj", "config.toml"), nil
}

// Load reads the config at path, creating it with defaults on first run, and
// applies TJ_* environment overrides. Paths in the result are expanded.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		// First run: write the defaults so users can discover options.
		if err := Init(path, Default(), false); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, err)
		}
	}
	return Read(path)
}

// Read is Load without the first-run write. A missing file yields the
// defaults.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("root", d.Root)
	v.SetDefault("journal", d.Journal)
	v.SetDefault("editor", d.Editor)
	v.SetDefault("page_size", d.PageSize)
	v.SetDefault("log_dir", d.LogDir)
	v.SetDefault("backup.bucket", d.Backup.Bucket)
	v.SetDefault("backup.prefix", d.Backup.Prefix)
	v.SetDefault("backup.region", d.Backup.Region)
	v.SetDefault("backup.profile", d.Backup.Profile)
}

// normalize expands paths and fills in values that depend on the environment.
func (c *Config) normalize() error {
	var err error
	if c.Root, err = homedir.Expand(c.Root); err != nil {
		return fmt.Errorf("expanding root %q: %w", c.Root, err)
	}
	if c.LogDir, err = homedir.Expand(c.LogDir); err != nil {
		return fmt.Errorf("expanding log_dir %q: %w", c.LogDir, err)
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Editor == "" {
		c.Editor = os.Getenv("EDITOR")
	}
	if c.Editor == "" {
		c.Editor = DefaultEditor
	}
	return nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Init writes cfg to path. An existing file is only replaced when force is set.
func Init(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	if err := Write(f, cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return f.Close()
}
