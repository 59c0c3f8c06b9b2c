package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
)

func TestDoctorFlagsMissingCredentialForActiveProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	svc := &DoctorService{
		ConfigProvider: stubConfigProvider{cfg: domain.Config{Provider: "openai", LogDir: t.TempDir()}},
		History:        stubHistory{},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Healthy() {
		t.Fatal("missing active-provider credential should fail the report")
	}

	if got := statusOf(t, report, "Credentials (openai)"); got != domain.HealthError {
		t.Errorf("openai credential check = %s, want error", got)
	}
	if got := statusOf(t, report, "Credentials (anthropic)"); got != domain.HealthWarn {
		t.Errorf("anthropic credential check = %s, want warn", got)
	}
}

func TestDoctorProbesOllamaDaemon(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer srv.Close()

	svc := &DoctorService{
		ConfigProvider: stubConfigProvider{cfg: domain.Config{
			Provider:   "ollama",
			OllamaHost: srv.URL,
			LogDir:     t.TempDir(),
		}},
		History: stubHistory{},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Healthy() {
		t.Fatalf("local provider with reachable daemon should be healthy:\n%+v", report.Checks)
	}
	if got := statusOf(t, report, "Ollama"); got != domain.HealthOK {
		t.Errorf("ollama check = %s, want ok", got)
	}
}

func TestDoctorUnreachableOllamaFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // probe target is now a dead port

	svc := &DoctorService{
		ConfigProvider: stubConfigProvider{cfg: domain.Config{
			Provider:   "ollama",
			OllamaHost: srv.URL,
			LogDir:     t.TempDir(),
		}},
		History: stubHistory{},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := statusOf(t, report, "Ollama"); got != domain.HealthError {
		t.Errorf("ollama check = %s, want error for dead daemon", got)
	}
	if report.Healthy() {
		t.Fatal("dead daemon for the active provider should fail the report")
	}
}

func TestDoctorStopsAfterConfigFailure(t *testing.T) {
	svc := &DoctorService{
		ConfigProvider: stubConfigProvider{err: errors.New("yaml: line 3: mapping values")},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Checks) != 1 {
		t.Fatalf("expected a single config check, got %d", len(report.Checks))
	}
	if report.Checks[0].Status != domain.HealthError {
		t.Fatalf("config check = %s, want error", report.Checks[0].Status)
	}
	if report.Healthy() {
		t.Fatal("unloadable config should fail the report")
	}
}

func statusOf(t *testing.T, report domain.HealthReport, name string) domain.HealthStatus {
	t.Helper()
	for _, check := range report.Checks {
		if check.Name == name {
			return check.Status
		}
	}
	t.Fatalf("check %q not in report: %+v", name, report.Checks)
	return ""
}

type stubConfigProvider struct {
	cfg domain.Config
	err error
}

func (s stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

type stubHistory struct{}

func (stubHistory) Save(domain.HistoryRecord) error { return nil }
func (stubHistory) Records(int, string) ([]domain.HistoryRecord, error) {
	return nil, nil
}
func (stubHistory) Clear() error { return nil }
func (stubHistory) Close() error { return nil }
