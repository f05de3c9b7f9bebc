// Package config loads the site configuration file.
//
// Scalar settings (directories, logging) go through viper so they can be
// overridden from the environment with a SITETAGS_ prefix, e.g.
// SITETAGS_LOG_LEVEL=debug. The sorter and tagger sections are keyed by user
// chosen names (sorter names, tag names) which viper folds to lower case, so
// they are decoded from the same file with yaml.v3 instead.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/sitetags/internal/model"
)

// DefaultFile is the configuration file name looked up in the site root.
const DefaultFile = "site.yaml"

var validate = validator.New()

// Config is the complete site configuration.
type Config struct {
	Root    string            `mapstructure:"-"`
	Content string            `mapstructure:"content" validate:"required"`
	Layout  string            `mapstructure:"layout" validate:"required"`
	Deploy  string            `mapstructure:"deploy" validate:"required"`
	Log     Log               `mapstructure:"log"`
	Sorters map[string]Sorter `mapstructure:"-" validate:"dive"`
	Tagger  Tagger            `mapstructure:"-"`
}

// Log configures the build logger.
type Log struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=text json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
}

// Sorter defines a named ordering of content resources.
type Sorter struct {
	Attr    StringOrArray `yaml:"attr" validate:"min=1"`
	Reverse bool          `yaml:"reverse"`
}

// Tagger is the tagger section.
type Tagger struct {
	Sorter   string                `yaml:"sorter"`
	Tags     map[string]model.Meta `yaml:"tags"`
	Archives map[string]Archive    `yaml:"archives"`
}

// Archive describes one family of generated per-tag listing pages.
type Archive struct {
	Template  string     `yaml:"template"`
	Source    string     `yaml:"source"`
	Target    string     `yaml:"target"`
	Extension string     `yaml:"extension"`
	Meta      model.Meta `yaml:"meta"`
}

// ContentDir returns the absolute content directory.
func (c *Config) ContentDir() string {
	return c.resolve(c.Content)
}

// LayoutDir returns the absolute layout (template) directory.
func (c *Config) LayoutDir() string {
	return c.resolve(c.Layout)
}

// DeployDir returns the absolute output directory.
func (c *Config) DeployDir() string {
	return c.resolve(c.Deploy)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// Default returns the configuration used when no file is present.
func Default(root string) *Config {
	return &Config{
		Root:    root,
		Content: "content",
		Layout:  "layout",
		Deploy:  "deploy",
		Log:     Log{Level: "info", Format: "text", MaxSizeMB: 10, MaxBackups: 3},
	}
}

// Load reads the configuration for the site rooted at root. path may be
// empty, in which case root/site.yaml is used if it exists.
func Load(root, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, DefaultFile)
	}

	def := Default(root)
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SITETAGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("content", def.Content)
	v.SetDefault("layout", def.Layout)
	v.SetDefault("deploy", def.Deploy)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		data = nil
	default:
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg := &Config{Root: root}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}
	cfg.Root = root

	if err := decodeSections(data, cfg); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q check", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func decodeSections(data []byte, cfg *Config) error {
	if len(data) == 0 {
		return nil
	}
	var sections struct {
		Sorter map[string]Sorter `yaml:"sorter"`
		Tagger Tagger            `yaml:"tagger"`
	}
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return err
	}
	cfg.Sorters = sections.Sorter
	cfg.Tagger = sections.Tagger
	return nil
}
