// Package services holds application services that run outside the
// instruction loop.
package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

// Provider credentials live in the environment only, never in the
// config file.
const (
	openAIKeyEnv    = "OPENAI_API_KEY"
	anthropicKeyEnv = "ANTHROPIC_API_KEY"
)

const ollamaProbeTimeout = 3 * time.Second

// DoctorService runs environment diagnostics before a session would
// start. It never calls a completion endpoint; the ollama probe is a
// plain reachability check.
type DoctorService struct {
	ConfigProvider ports.ConfigProvider
	History        ports.HistoryRepository
	HTTPClient     *http.Client
	ProviderArg    string
}

// Run executes checks and returns a report. A failed config load makes
// the remaining checks meaningless, so it returns early.
func (s *DoctorService) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, nil
	}
	if err := cfg.ValidateConsistency(); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
		return domain.HealthReport{Checks: checks}, nil
	}
	checks = append(checks, ok("Config file", "parsed and consistent"))

	provider, err := cfg.EffectiveProvider(s.ProviderArg)
	if err != nil {
		checks = append(checks, fail("Provider", err.Error()))
		return domain.HealthReport{Checks: checks}, nil
	}
	checks = append(checks, ok("Provider", string(provider)))

	checks = append(checks, credentialCheck(domain.ProviderOpenAI, openAIKeyEnv, provider))
	checks = append(checks, credentialCheck(domain.ProviderAnthropic, anthropicKeyEnv, provider))

	if provider == domain.ProviderOllama {
		checks = append(checks, s.ollamaCheck(ctx, cfg.OllamaHost))
	}

	checks = append(checks, logDirCheck(cfg.LogDir))
	checks = append(checks, s.historyCheck())

	return domain.HealthReport{Checks: checks}, nil
}

// credentialCheck verifies a hosted provider's environment credential.
// A missing key is fatal only for the provider the session would use.
func credentialCheck(hosted domain.Provider, envVar string, active domain.Provider) domain.HealthCheck {
	name := fmt.Sprintf("Credentials (%s)", hosted)
	if os.Getenv(envVar) != "" {
		return ok(name, envVar+" set")
	}
	if hosted == active {
		return fail(name, envVar+" missing for the active provider")
	}
	return warn(name, envVar+" missing; "+string(hosted)+" sessions would fail")
}

func (s *DoctorService) ollamaCheck(ctx context.Context, host string) domain.HealthCheck {
	if host == "" {
		return warn("Ollama", "ollama_host not configured")
	}
	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: ollamaProbeTimeout}
	}

	probeCtx, cancel := context.WithTimeout(ctx, ollamaProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, host, nil)
	if err != nil {
		return fail("Ollama", fmt.Sprintf("invalid host %q: %v", host, err))
	}
	resp, err := client.Do(req)
	if err != nil {
		return fail("Ollama", fmt.Sprintf("daemon not answering at %s: %v", host, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return warn("Ollama", fmt.Sprintf("daemon answered %s at %s", resp.Status, host))
	}
	return ok("Ollama", "daemon answering at "+host)
}

func logDirCheck(dir string) domain.HealthCheck {
	if dir == "" {
		return warn("Log directory", "log_dir not configured; transcripts disabled")
	}
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fail("Log directory", fmt.Sprintf("cannot create %s: %v", dir, err))
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fail("Log directory", fmt.Sprintf("not writable: %v", err))
	}
	probe.Close()
	os.Remove(probe.Name())
	return ok("Log directory", dir)
}

func (s *DoctorService) historyCheck() domain.HealthCheck {
	if s.History == nil {
		return warn("History store", "not configured")
	}
	if _, err := s.History.Records(1, ""); err != nil {
		return warn("History store", err.Error())
	}
	return ok("History store", "open")
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
