// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete rigchat configuration.
type Config struct {
	Endpoint EndpointConfig `toml:"endpoint" json:"endpoint"`
	UI       UIConfig       `toml:"ui" json:"ui"`
	Render   RenderConfig   `toml:"render" json:"render"`
	Log      LogConfig      `toml:"log" json:"log"`
}

// EndpointConfig names the conversational endpoint.
type EndpointConfig struct {
	URL string `toml:"url" json:"url"`
}

// UIConfig controls the terminal interface.
type UIConfig struct {
	Theme    string   `toml:"theme" json:"theme"`         // auto, dark, light, plain
	WordWrap int      `toml:"word_wrap" json:"word_wrap"` // 0 = terminal width
	Examples []string `toml:"examples" json:"examples"`   // prompts offered on an empty conversation
}

// RenderConfig selects which render capabilities are loaded.
type RenderConfig struct {
	Markdown  bool   `toml:"markdown" json:"markdown"`
	Sanitize  bool   `toml:"sanitize" json:"sanitize"`
	CodeStyle string `toml:"code_style" json:"code_style"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"` // empty = ~/.rigchat/rigchat.log
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultEndpoint matches the address of `rigchat mock-server`.
const DefaultEndpoint = "http://127.0.0.1:8787/"

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Endpoint: EndpointConfig{
			URL: DefaultEndpoint,
		},
		UI: UIConfig{
			Theme:    "auto",
			WordWrap: 0,
			Examples: []string{
				"What's your experience with Go?",
				"Tell me about a project you're proud of.",
				"How do you approach code review?",
			},
		},
		Render: RenderConfig{
			Markdown:  true,
			Sanitize:  true,
			CodeStyle: "github",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rigchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine home directory")
	}
	return filepath.Join(home, ".rigchat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultLogFile returns the log file used when log.file is unset.
func DefaultLogFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rigchat.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default locations.
// Tries TOML first, then JSON, and falls back to defaults. A .env file in
// the working directory or config directory is loaded before environment
// overrides are applied.
func Load() (*Config, error) {
	LoadDotEnv()

	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		return LoadFromPath(path)
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file with full validation.
// Files ending in .json are decoded as JSON, everything else as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", path)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys missing from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(err, "failed to decode TOML file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Warn().Str("path", path).Interface("keys", undecoded).Msg("unknown config keys ignored")
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read JSON file")
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "failed to decode JSON file")
	}
	return nil
}

// LoadDotEnv loads .env files from the working directory and the config
// directory. Variables already present in the environment win.
func LoadDotEnv() {
	candidates := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("could not load .env file")
		}
	}
}

// SetDefaults fills in empty values that would otherwise fail validation.
func (c *Config) SetDefaults() {
	defaults := Default()
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.Render.CodeStyle == "" {
		c.Render.CodeStyle = defaults.Render.CodeStyle
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes cfg to path atomically with a short header comment.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# rigchat configuration file\n")
	buf.WriteString("# Environment variables RIGCHAT_ENDPOINT, RIGCHAT_LOG_LEVEL and RIGCHAT_THEME override these values.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// SaveJSON writes cfg to path atomically as indented JSON.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidThemes lists accepted ui.theme values.
var ValidThemes = []string{"auto", "dark", "light", "plain"}

// Validate validates the configuration and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Endpoint.URL) == "" {
		errs = append(errs, ValidationError{Field: "endpoint.url", Message: "must not be empty"})
	} else if u, err := url.Parse(c.Endpoint.URL); err != nil {
		errs = append(errs, ValidationError{Field: "endpoint.url", Message: fmt.Sprintf("invalid URL: %v", err)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "endpoint.url",
			Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
		})
	} else if u.Host == "" {
		errs = append(errs, ValidationError{Field: "endpoint.url", Message: "missing host"})
	}

	if !contains(ValidThemes, strings.ToLower(c.UI.Theme)) {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: %s", c.UI.Theme, strings.Join(ValidThemes, ", ")),
		})
	}
	if c.UI.WordWrap < 0 {
		errs = append(errs, ValidationError{Field: "ui.word_wrap", Message: "cannot be negative"})
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil || c.Log.Level == "" {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: trace, debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - RIGCHAT_ENDPOINT: overrides endpoint.url
//   - RIGCHAT_LOG_LEVEL: overrides log.level
//   - RIGCHAT_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if endpoint := os.Getenv("RIGCHAT_ENDPOINT"); endpoint != "" {
		c.Endpoint.URL = endpoint
	}
	if level := os.Getenv("RIGCHAT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if theme := os.Getenv("RIGCHAT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g. "ui.word_wrap").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field type; lists are comma separated.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return errors.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks the toml tags of Config to the field named by key.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, normalizeKey(part))
		if !ok {
			return reflect.Value{}, errors.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, errors.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, errors.Errorf("invalid key: %s", key)
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// normalizeKey accepts kebab-case for snake_case keys.
func normalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return errors.Wrap(err, "invalid integer value")
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strings.TrimSpace(strVal))
			if err != nil {
				return errors.Wrap(err, "invalid boolean value")
			}
			field.SetBool(boolVal)
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, item := range strings.Split(strVal, ",") {
					if item = strings.TrimSpace(item); item != "" {
						items = append(items, item)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return errors.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return errors.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"endpoint.url",
		"ui.theme",
		"ui.word_wrap",
		"ui.examples",
		"render.markdown",
		"render.sanitize",
		"render.code_style",
		"log.level",
		"log.file",
	}
}

// String renders the config as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
