package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for mediadex.
type Config struct {
	General GeneralConfig `json:"general" yaml:"general"`
	Bot     BotConfig     `json:"bot" yaml:"bot"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Index   IndexConfig   `json:"index" yaml:"index"`
	Auth    AuthConfig    `json:"auth" yaml:"auth"`
	Web     WebConfig     `json:"web" yaml:"web"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	LogFile  string `json:"logFile,omitempty" yaml:"logFile,omitempty"` // optional log file path
}

type BotConfig struct {
	Token string `json:"token" yaml:"token"`
	// RequiredChannel is the channel a user must have joined before the
	// bot answers inline queries ("@name" or numeric chat ID). Empty
	// disables the subscription gate.
	RequiredChannel string `json:"requiredChannel,omitempty" yaml:"requiredChannel,omitempty"`
	// ChannelURL is the join link attached to video results.
	ChannelURL string `json:"channelUrl,omitempty" yaml:"channelUrl,omitempty"`
	// CaptionTag is appended to the caption of videos delivered through
	// inline results.
	CaptionTag string         `json:"captionTag,omitempty" yaml:"captionTag,omitempty"`
	Admins     FlexStringList `json:"admins,omitempty" yaml:"admins,omitempty"`
}

type SearchConfig struct {
	// CacheTime is the client-side cache hint (seconds) for search answers.
	CacheTime int `json:"cacheTime" yaml:"cacheTime"`
	// MaxResults is the source-count threshold at which a continuation
	// offset is emitted.
	MaxResults int `json:"maxResults" yaml:"maxResults"`
}

type IndexConfig struct {
	DBPath string `json:"dbPath" yaml:"dbPath"`
	// IndexFrom restricts which chats get their media indexed
	// (empty = every channel post the bot sees).
	IndexFrom FlexStringList `json:"indexFrom,omitempty" yaml:"indexFrom,omitempty"`
}

type AuthConfig struct {
	// AllowFrom is the inline-query allow-list. Empty = allow everyone
	// who passes the subscription gate.
	AllowFrom FlexStringList `json:"allowFrom,omitempty" yaml:"allowFrom,omitempty"`
}

type WebConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Host    string `json:"host" yaml:"host"`
	Port    int    `json:"port" yaml:"port"`
}

// FlexStringList is a []string that can unmarshal from arrays containing
// both strings and numbers (e.g. ["123", 456] both become "123", "456").
type FlexStringList []string

func (f *FlexStringList) UnmarshalJSON(data []byte) error {
	// Try []string first
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}
	// Fallback: array of mixed types
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			result = append(result, s)
			continue
		}
		var n float64
		if err := json.Unmarshal(item, &n); err == nil {
			result = append(result, strconv.FormatInt(int64(n), 10))
			continue
		}
		result = append(result, string(item))
	}
	*f = result
	return nil
}

func (f *FlexStringList) UnmarshalYAML(value *yaml.Node) error {
	var raw []interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			result = append(result, v)
		case int:
			result = append(result, strconv.Itoa(v))
		case int64:
			result = append(result, strconv.FormatInt(v, 10))
		case float64:
			result = append(result, strconv.FormatInt(int64(v), 10))
		default:
			result = append(result, fmt.Sprint(v))
		}
	}
	*f = result
	return nil
}

// Int64s parses the list as user/chat IDs, skipping entries that are not
// integers.
func (f FlexStringList) Int64s() []int64 {
	var ids []int64
	for _, s := range f {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// DefaultConfigDir returns the default config directory (~/.mediadex).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mediadex"
	}
	return filepath.Join(home, ".mediadex")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// Load reads the config file (JSON, or YAML for .yaml/.yml paths), expands
// environment variables and ~, applies defaults, and validates.
func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	}

	cfg.Index.DBPath = ExpandPath(cfg.Index.DBPath)
	cfg.General.LogFile = ExpandPath(cfg.General.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // Keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Search.CacheTime < 0 {
		errs = append(errs, "search.cacheTime must be >= 0")
	}
	if cfg.Search.MaxResults < 1 {
		errs = append(errs, "search.maxResults must be >= 1")
	}
	if cfg.Web.Port < 0 || cfg.Web.Port > 65535 {
		errs = append(errs, "web.port must be between 0 and 65535")
	}
	if cfg.Index.DBPath == "" {
		errs = append(errs, "index.dbPath must not be empty")
	}
	switch cfg.General.LogLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}
	if cfg.Bot.ChannelURL != "" && !strings.HasPrefix(cfg.Bot.ChannelURL, "https://") {
		errs = append(errs, "bot.channelUrl must be an https:// link")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Sanitize returns a copy safe for printing (token redacted).
func Sanitize(cfg *Config) *Config {
	out := *cfg
	if out.Bot.Token != "" {
		out.Bot.Token = "***"
	}
	return &out
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
