// Package config loads the footnotes tool settings.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML
// file, the process environment (a .env file fills variables the process
// does not set), and finally command line flags applied by the caller.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/FocuswithJustin/JuniperFootnotes/core/canon"
	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
	"github.com/FocuswithJustin/JuniperFootnotes/internal/logging"
)

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = "footnotes.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FOOTNOTES_"

// Config is the full settings tree.
type Config struct {
	Document  string `toml:"document"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	MySword MySword `toml:"mysword"`
	Sword   Sword   `toml:"sword"`
	Extract Extract `toml:"extract"`
	Export  Export  `toml:"export"`
}

// MySword configures the mysword command.
type MySword struct {
	Database string `toml:"database"`
	Scope    string `toml:"scope"`
}

// Sword configures the sword command.
type Sword struct {
	Path   string `toml:"path"`
	Module string `toml:"module"`
	Policy string `toml:"policy"`
	Scope  string `toml:"scope"`
}

// Extract tunes both extractors.
type Extract struct {
	CatchWords      int  `toml:"catch_words"`
	KeywordFallback bool `toml:"keyword_fallback"`
}

// Export configures the export command.
type Export struct {
	Dir         string `toml:"dir"`
	Translation string `toml:"translation"`
	Title       string `toml:"title"`
	License     string `toml:"license"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "json",
		Sword:     Sword{Policy: string(canon.ModePartial)},
		Extract:   Extract{CatchWords: 1},
		Export:    Export{Dir: "formats"},
	}
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// Load builds the settings from the TOML file at path and the environment.
// An empty path reads DefaultFile when it exists. A nil lookup reads nothing
// from the environment.
func Load(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, errors.NewParse("TOML", path, err.Error())
		}
	} else if explicit {
		if os.IsNotExist(err) {
			return Config{}, errors.NewNotFound("config", path)
		}
		return Config{}, errors.NewIO("stat", path, err)
	}

	if lookup != nil {
		if err := cfg.applyEnv(lookup); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	strs := map[string]*string{
		"DOC":           &c.Document,
		"LOG_LEVEL":     &c.LogLevel,
		"LOG_FORMAT":    &c.LogFormat,
		"MYSWORD_DB":    &c.MySword.Database,
		"MYSWORD_SCOPE": &c.MySword.Scope,
		"SWORD_PATH":    &c.Sword.Path,
		"SWORD_MODULE":  &c.Sword.Module,
		"SWORD_POLICY":  &c.Sword.Policy,
		"SWORD_SCOPE":   &c.Sword.Scope,
		"EXPORT_DIR":    &c.Export.Dir,
		"TRANSLATION":   &c.Export.Translation,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "CATCH_WORDS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &errors.ValidationError{Field: EnvPrefix + "CATCH_WORDS", Value: v, Message: "must be an integer"}
		}
		c.Extract.CatchWords = n
	}
	if v, ok := lookup(EnvPrefix + "KEYWORD_FALLBACK"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &errors.ValidationError{Field: EnvPrefix + "KEYWORD_FALLBACK", Value: v, Message: "must be a boolean"}
		}
		c.Extract.KeywordFallback = b
	}
	return nil
}

// Validate checks values that have a fixed vocabulary.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return err
	}
	if _, err := canon.ParseMode(c.Sword.Policy); err != nil {
		return err
	}
	if c.Extract.CatchWords < 1 {
		return &errors.ValidationError{Field: "extract.catch_words", Value: strconv.Itoa(c.Extract.CatchWords), Message: "must be at least 1"}
	}
	return nil
}

// ReadDotEnv reads KEY=VALUE pairs from a .env file. A missing file yields
// no values.
func ReadDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, errors.NewParse("dotenv", path, err.Error())
	}
	return values, nil
}

// Environment returns a lookup over the process environment that falls back
// to dotenv for unset variables.
func Environment(dotenv map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[strings.TrimSpace(key)]
		return v, ok
	}
}
