// Package config loads the YAML configuration file and applies the
// environment overrides. Credentials are never read from the file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/pkg/filesystem"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

// EnvConfigPath overrides the configuration file location.
const EnvConfigPath = "AI_SHELL_CONFIG"

// FileLoader loads YAML configuration from ~/.ai-shell/config.yaml
// (overridable via AI_SHELL_CONFIG), writing the defaults out on first
// run. Every scalar can then be overridden through AI_SHELL_* variables.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a loader; an empty path selects the default
// location.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, fmt.Errorf("create config directory: %w", err)
	}

	// Seed the defaults first: keys absent from the file keep them,
	// while an explicit zero in the file survives the decode.
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := writeDefault(path, cfg); err != nil {
			return domain.Config{}, fmt.Errorf("write default config: %w", err)
		}
	default:
		return domain.Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg = applyEnvOverrides(cfg)
	return hydrate(cfg), nil
}

// Path reports where the configuration is read from.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".ai-shell", "config.yaml")
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Provider:            "openai",
		Models: domain.ModelSettings{
			OpenAI:    "gpt-4o-mini",
			Anthropic: "claude-3-5-sonnet-20240620",
			Ollama:    "llama3.2",
		},
		Temperature: domain.DefaultTemperature,
		Language:    "English",
		OllamaHost:  "http://localhost:11434",
		Search: domain.SearchSettings{
			Backend: "scrape",
		},
		Context: domain.ContextSettings{
			MaxWords: domain.DefaultMaxContextWords,
		},
		Security: domain.SecuritySettings{
			MaxCommandLength: domain.DefaultMaxCommandLength,
		},
		Execution: domain.ExecutionSettings{
			TimeoutSeconds: domain.DefaultCommandTimeoutSeconds,
		},
		LogDir: filepath.Join(filesystem.UserHomeDir(), ".ai-shell", "logs"),
	}
}

func applyEnvOverrides(cfg domain.Config) domain.Config {
	setString(&cfg.Provider, "AI_SHELL_PROVIDER")
	setString(&cfg.Models.OpenAI, "AI_SHELL_OPENAI_MODEL")
	setString(&cfg.Models.Anthropic, "AI_SHELL_ANTHROPIC_MODEL")
	setString(&cfg.Models.Ollama, "AI_SHELL_OLLAMA_MODEL")
	setFloat(&cfg.Temperature, "AI_SHELL_TEMPERATURE")
	setString(&cfg.Language, "AI_SHELL_LANGUAGE")
	setString(&cfg.OllamaHost, "AI_SHELL_OLLAMA_HOST")
	setString(&cfg.Search.Backend, "AI_SHELL_SEARCH_BACKEND")
	setBool(&cfg.DebugRaw, "AI_SHELL_DEBUG_RAW")
	setInt(&cfg.Context.MaxWords, "AI_SHELL_MAX_CONTEXT_WORDS")
	setInt(&cfg.Security.MaxCommandLength, "AI_SHELL_MAX_COMMAND_LENGTH")
	setInt(&cfg.Execution.TimeoutSeconds, "AI_SHELL_COMMAND_TIMEOUT")
	setBool(&cfg.Security.StrictWarnings, "AI_SHELL_STRICT_WARNINGS")
	if raw, ok := os.LookupEnv("AI_SHELL_SAFE_COMMANDS"); ok {
		// The environment form replaces the file list.
		cfg.Security.SafeCommands = splitList(raw)
	}
	if raw, ok := os.LookupEnv("AI_SHELL_LOG_DIR"); ok && strings.TrimSpace(raw) != "" {
		cfg.LogDir = expandPath(strings.TrimSpace(raw))
	}
	return cfg
}

func hydrate(cfg domain.Config) domain.Config {
	if cfg.Execution.Shell == "" {
		cfg.Execution.Shell = detectShell()
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(filesystem.UserHomeDir(), ".ai-shell", "logs")
	}
	return cfg
}

func detectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}
	return "sh"
}

func setString(dst *string, key string) {
	if raw, ok := os.LookupEnv(key); ok && strings.TrimSpace(raw) != "" {
		*dst = strings.TrimSpace(raw)
	}
}

func setInt(dst *int, key string) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		*dst = v
	}
}

func setFloat(dst *float64, key string) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
		*dst = v
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
