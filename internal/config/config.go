package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/airtrafficctl/atc/pkg/types"
)

// Config is the process-level configuration: where the store lives, what
// address the HTTP server binds, and the default session settings new
// sessions are created with absent an explicit patch.
type Config struct {
	ListenAddr      string         `json:"listen_addr,omitempty"`
	DBPath          string         `json:"db_path,omitempty"`
	DefaultSettings types.Settings `json:"default_settings"`
	OpenAIBaseURL   string         `json:"openai_base_url,omitempty"`
	OpenAIAPIKey    string         `json:"openai_api_key,omitempty"`
}

// Load loads configuration from multiple sources, in priority order:
//  1. Built-in defaults (XDG data dir db path, localhost listen addr)
//  2. Global config file ($XDG_CONFIG_HOME/air_traffic_control/config.json[c])
//  3. Project config file (<directory>/.atc/config.json[c])
//  4. Environment variables (OPENAI_BASE_URL, OPENAI_API_KEY, ATC_LISTEN_ADDR)
func Load(directory string) (*Config, error) {
	cfg := &Config{
		ListenAddr: "127.0.0.1:7171",
		DBPath:     GetPaths().DBPath(),
	}

	globalPath := GetPaths().Config
	loadConfigFile(filepath.Join(globalPath, "config.json"), cfg)
	loadConfigFile(filepath.Join(globalPath, "config.jsonc"), cfg)

	if directory != "" {
		loadConfigFile(filepath.Join(directory, ".atc", "config.json"), cfg)
		loadConfigFile(filepath.Join(directory, ".atc", "config.jsonc"), cfg)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	data = stripJSONComments(data)

	var fileConfig Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return err
	}

	mergeConfig(cfg, &fileConfig)
	return nil
}

// stripJSONComments removes // and /* */ comments from JSONC.
func stripJSONComments(data []byte) []byte {
	singleLine := regexp.MustCompile(`//.*$`)
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		lines[i] = singleLine.ReplaceAll(line, nil)
	}
	data = bytes.Join(lines, []byte("\n"))

	multiLine := regexp.MustCompile(`/\*[\s\S]*?\*/`)
	data = multiLine.ReplaceAll(data, nil)

	return data
}

func mergeConfig(target, source *Config) {
	if source.ListenAddr != "" {
		target.ListenAddr = source.ListenAddr
	}
	if source.DBPath != "" {
		target.DBPath = source.DBPath
	}
	if source.OpenAIBaseURL != "" {
		target.OpenAIBaseURL = source.OpenAIBaseURL
	}
	if source.OpenAIAPIKey != "" {
		target.OpenAIAPIKey = source.OpenAIAPIKey
	}
	if source.DefaultSettings.DefaultModel != nil {
		target.DefaultSettings.DefaultModel = source.DefaultSettings.DefaultModel
	}
	if source.DefaultSettings.ProjectRoot != nil {
		target.DefaultSettings.ProjectRoot = source.DefaultSettings.ProjectRoot
	}
	if source.DefaultSettings.NetworkAllowlist != nil {
		target.DefaultSettings.NetworkAllowlist = source.DefaultSettings.NetworkAllowlist
	}
	if source.DefaultSettings.ModelParams.Temperature != nil {
		target.DefaultSettings.ModelParams.Temperature = source.DefaultSettings.ModelParams.Temperature
	}
	if source.DefaultSettings.ModelParams.MaxTokens != nil {
		target.DefaultSettings.ModelParams.MaxTokens = source.DefaultSettings.ModelParams.MaxTokens
	}
	if source.DefaultSettings.ModelParams.TopP != nil {
		target.DefaultSettings.ModelParams.TopP = source.DefaultSettings.ModelParams.TopP
	}
	if source.DefaultSettings.ToolPolicies.DryRun != nil {
		target.DefaultSettings.ToolPolicies.DryRun = source.DefaultSettings.ToolPolicies.DryRun
	}
	if source.DefaultSettings.ToolPolicies.MaxReadBytes != nil {
		target.DefaultSettings.ToolPolicies.MaxReadBytes = source.DefaultSettings.ToolPolicies.MaxReadBytes
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("ATC_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
}

// Save writes the configuration to path, creating parent directories.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
