package domain

import "fmt"

// EffectiveProvider resolves the provider to use, preferring the explicit
// override (CLI argument) over the configured default.
func (c *Config) EffectiveProvider(override string) (Provider, error) {
	raw := override
	if raw == "" {
		raw = c.Provider
	}
	if raw == "" {
		raw = string(ProviderOpenAI)
	}
	return ParseProvider(raw)
}

// EffectiveShell returns the configured shell for command execution.
// Returns the default shell if not configured.
func (c *Config) EffectiveShell() string {
	const defaultShell = "sh"

	if c.Execution.Shell == "" {
		return defaultShell
	}
	return c.Execution.Shell
}

// EffectiveMaxContextWords returns the rolling context bound in words.
func (c *Config) EffectiveMaxContextWords() int {
	if c.Context.MaxWords <= 0 {
		return DefaultMaxContextWords
	}
	return c.Context.MaxWords
}

// EffectiveMaxCommandLength returns the hard length bound for generated
// commands.
func (c *Config) EffectiveMaxCommandLength() int {
	if c.Security.MaxCommandLength <= 0 {
		return DefaultMaxCommandLength
	}
	return c.Security.MaxCommandLength
}

// EffectiveTemperature returns the sampling temperature for content calls.
func (c *Config) EffectiveTemperature() float64 {
	if c.Temperature <= 0 {
		return DefaultTemperature
	}
	return c.Temperature
}

// SearchBackend returns the configured web retrieval backend name.
func (c *Config) SearchBackend() string {
	const defaultBackend = "scrape"

	if c.Search.Backend == "" {
		return defaultBackend
	}
	return c.Search.Backend
}

// ValidateConsistency checks the internal consistency of the configuration.
// Returns an error if there are inconsistencies (e.g., unknown provider).
func (c *Config) ValidateConsistency() error {
	if c.Provider != "" {
		if _, err := ParseProvider(c.Provider); err != nil {
			return err
		}
	}

	switch c.SearchBackend() {
	case "scrape", "instant":
	default:
		return fmt.Errorf("unknown search backend %q (expected scrape or instant)", c.Search.Backend)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", c.Temperature)
	}

	if c.Execution.TimeoutSeconds < 0 {
		return fmt.Errorf("execution timeout must not be negative")
	}

	return nil
}
