package domain

import "time"

// Config mirrors ~/.ai-shell/config.yaml. Credentials never live here;
// API keys are read from the environment only.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Provider            string            `yaml:"provider"`
	Models              ModelSettings     `yaml:"models"`
	Temperature         float64           `yaml:"temperature"`
	Language            string            `yaml:"language"`
	OllamaHost          string            `yaml:"ollama_host"`
	Search              SearchSettings    `yaml:"search"`
	Context             ContextSettings   `yaml:"context"`
	Security            SecuritySettings  `yaml:"security"`
	Execution           ExecutionSettings `yaml:"execution"`
	DebugRaw            bool              `yaml:"debug_raw"`
	LogDir              string            `yaml:"log_dir"`
}

// ModelSettings names the model used per provider.
type ModelSettings struct {
	OpenAI    string `yaml:"openai"`
	Anthropic string `yaml:"anthropic"`
	Ollama    string `yaml:"ollama"`
}

// SearchSettings selects the web retrieval backend.
type SearchSettings struct {
	Backend string `yaml:"backend"`
}

// ContextSettings bounds the rolling conversation context.
type ContextSettings struct {
	MaxWords int `yaml:"max_words"`
}

// SecuritySettings defines command gate behavior.
type SecuritySettings struct {
	MaxCommandLength int      `yaml:"max_command_length"`
	StrictWarnings   bool     `yaml:"strict_warnings"`
	SafeCommands     []string `yaml:"safe_commands"`
}

// ExecutionSettings controls how commands run.
type ExecutionSettings struct {
	Shell          string `yaml:"shell"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// CommandTimeout returns the configured wall-clock bound for shell
// commands; zero disables the bound.
func (c Config) CommandTimeout() time.Duration {
	if c.Execution.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Execution.TimeoutSeconds) * time.Second
}

// ModelFor returns the configured model name for a provider.
func (c Config) ModelFor(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return c.Models.OpenAI
	case ProviderAnthropic:
		return c.Models.Anthropic
	case ProviderOllama:
		return c.Models.Ollama
	}
	return ""
}
