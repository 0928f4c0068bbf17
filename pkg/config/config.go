package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fulmenhq/docsync/pkg/safeio"
)

// EnvPrefix prefixes every environment override (DOCSYNC_ROOT, ...).
const EnvPrefix = "DOCSYNC"

// ConfigName is the base name of the optional project config file
// (.docsync.yaml, .docsync.yml, .docsync.json or .docsync.toml).
const ConfigName = ".docsync"

// Config holds all configuration for docsync
type Config struct {
	Root               string   `mapstructure:"root"`
	Index              string   `mapstructure:"index"`
	Output             string   `mapstructure:"output"`
	Title              string   `mapstructure:"title"`
	ToolDir            string   `mapstructure:"tool_dir"`
	VariantLanguages   []string `mapstructure:"variant_languages"`
	RespectIgnoreFiles bool     `mapstructure:"respect_ignore_files"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-"`
}

// The tools historically live in a directory inside the documentation tree and
// treat its parent as the root; the defaults keep that layout working.
var defaultConfig = Config{
	Root:               "..",
	Index:              "index.md",
	Output:             "summary.txt",
	Title:              "DATEYE DOCUMENTATION SUMMARY",
	ToolDir:            "Update",
	VariantLanguages:   []string{"zh"},
	RespectIgnoreFiles: false,
}

// Default returns a copy of the built-in configuration.
func Default() Config {
	c := defaultConfig
	c.VariantLanguages = append([]string(nil), defaultConfig.VariantLanguages...)
	return c
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// Dir is searched for .env and .docsync.*; the working directory when empty.
	Dir string
	// File is an explicit config file; it must exist when set.
	File string
	// Flags are bound over file and environment values when they were changed.
	Flags *pflag.FlagSet
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"root":   "root",
	"index":  "index",
	"output": "output",
	"title":  "title",
}

// Load resolves configuration with precedence flags > env > file > defaults.
func Load(opts LoadOptions) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("error loading %s: %v", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("root", defaultConfig.Root)
	v.SetDefault("index", defaultConfig.Index)
	v.SetDefault("output", defaultConfig.Output)
	v.SetDefault("title", defaultConfig.Title)
	v.SetDefault("tool_dir", defaultConfig.ToolDir)
	v.SetDefault("variant_languages", defaultConfig.VariantLanguages)
	v.SetDefault("respect_ignore_files", defaultConfig.RespectIgnoreFiles)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %v", name, err)
				}
			}
		}
	}

	source := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	} else {
		source = v.ConfigFileUsed()
		if err := ValidateFile(source); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that the schema cannot express, such as traversal in
// root-relative names.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return errors.New("root must not be empty")
	}
	index, err := safeio.CleanUserPath(c.Index)
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", c.Index, err)
	}
	if !strings.HasSuffix(index, ".md") {
		return fmt.Errorf("invalid index %q: must be a .md file", c.Index)
	}
	output, err := safeio.CleanUserPath(c.Output)
	if err != nil {
		return fmt.Errorf("invalid output %q: %w", c.Output, err)
	}
	if output == "." {
		return errors.New("output must name a file")
	}
	c.Index, c.Output = index, output
	return nil
}
