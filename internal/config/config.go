package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// DefaultBaseURL is the completion endpoint used when none is configured.
const DefaultBaseURL = "https://api.openai.com/v1/engines/davinci-codex/completions"

// Config represents the suggestmsg configuration.
type Config struct {
	BaseURL        string        `json:"baseURL"`
	Model          string        `json:"model,omitempty"`
	MaxTokens      int           `json:"maxTokens"`
	N              int           `json:"n"`
	Temperature    float64       `json:"temperature"`
	Stop           []string      `json:"stop"`
	MaxDiffChars   int           `json:"maxDiffChars"`
	TimeoutSeconds int           `json:"timeoutSeconds,omitempty"`
	LogFile        string        `json:"logFile,omitempty"`
	Cache          CacheConfig   `json:"cache"`
	Privacy        PrivacyConfig `json:"privacy"`
}

// CacheConfig controls caching of completion responses.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls redaction of the diff before it leaves the machine.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets"`
	RedactPaths   []string `json:"redactPaths,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		MaxTokens:    32,
		N:            10,
		Temperature:  0.5,
		Stop:         []string{"\n"},
		MaxDiffChars: 1000,
		Cache: CacheConfig{
			Enabled:    false,
			TTLSeconds: 3600,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for suggestmsg.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "suggestmsg"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "suggestmsg"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "suggestmsg"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "suggestmsg"), nil
	default:
		return filepath.Join(home, ".config", "suggestmsg"), nil
	}
}

// StateDir returns the directory holding persistent state (the credential
// database and the diagnostics log).
func StateDir() (string, error) {
	if dir := os.Getenv("SUGGESTMSG_STATE_DIR"); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "suggestmsg"), nil
	}
	if runtime.GOOS != "linux" {
		return ConfigDir()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "suggestmsg"), nil
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns the diagnostics log location for cfg.
func LogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "suggestmsg.log"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	var cfg Config
	if err := decodeFile(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFileOrDefault returns the defaults with the config file laid over them.
// Every key present in the file wins, including false and zero values.
func LoadFileOrDefault() (Config, error) {
	cfg := Default()
	if err := decodeFile(&cfg); err != nil {
		return Config{}, err
	}
	fillInvalid(&cfg)
	return cfg, nil
}

// decodeFile unmarshals the config file onto cfg. Keys absent from the file
// leave cfg untouched. A missing file is not an error.
func decodeFile(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// fillInvalid restores defaults for values no request can use. Zero
// temperature and false booleans are valid settings and kept.
func fillInvalid(cfg *Config) {
	def := Default()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.N <= 0 {
		cfg.N = def.N
	}
	if cfg.MaxDiffChars <= 0 {
		cfg.MaxDiffChars = def.MaxDiffChars
	}
	if cfg.Temperature < 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.Cache.TTLSeconds < 0 {
		cfg.Cache.TTLSeconds = def.Cache.TTLSeconds
	}
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg, err := LoadFileOrDefault()
	if err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("SUGGESTMSG_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SUGGESTMSG_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("SUGGESTMSG_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	for _, kv := range []struct{ env, key string }{
		{"SUGGESTMSG_MAX_TOKENS", "maxTokens"},
		{"SUGGESTMSG_N", "n"},
		{"SUGGESTMSG_TEMPERATURE", "temperature"},
		{"SUGGESTMSG_MAX_DIFF_CHARS", "maxDiffChars"},
		{"SUGGESTMSG_TIMEOUT_SECONDS", "timeoutSeconds"},
		{"SUGGESTMSG_CACHE", "cache.enabled"},
		{"SUGGESTMSG_REDACT", "privacy.redactSecrets"},
	} {
		v := os.Getenv(kv.env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, kv.key, v); err != nil {
			return fmt.Errorf("%s: %w", kv.env, err)
		}
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "baseURL":
		cfg.BaseURL = value
	case "model":
		cfg.Model = value
	case "logFile":
		cfg.LogFile = value
	case "stop":
		cfg.Stop = []string{unescape(value)}
	case "maxTokens", "n", "maxDiffChars", "timeoutSeconds", "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		if n < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
		switch key {
		case "maxTokens":
			cfg.MaxTokens = n
		case "n":
			cfg.N = n
		case "maxDiffChars":
			cfg.MaxDiffChars = n
		case "timeoutSeconds":
			cfg.TimeoutSeconds = n
		case "cache.ttlSeconds":
			cfg.Cache.TTLSeconds = n
		}
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %w", err)
		}
		cfg.Temperature = f
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.enabled must be a boolean: %w", err)
		}
		cfg.Cache.Enabled = b
	case "cache.dir":
		cfg.Cache.Dir = value
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("privacy.redactSecrets must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// unescape lets `config set stop '\n'` mean a real newline.
func unescape(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(s)
}
