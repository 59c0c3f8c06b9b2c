package domain_test

import (
	"testing"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
)

// TestParseIntent tests normalization of classification replies
func TestParseIntent(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   domain.Intent
		wantOK bool
	}{
		{name: "exact keyword", raw: "COMMAND", want: domain.IntentCommand, wantOK: true},
		{name: "lowercase", raw: "retrieve", want: domain.IntentRetrieve, wantOK: true},
		{name: "mixed case with whitespace", raw: "  Analyze\n", want: domain.IntentAnalyze, wantOK: true},
		{name: "trailing period", raw: "QUESTION.", want: domain.IntentQuestion, wantOK: true},
		{name: "trailing punctuation run", raw: "COMMAND.;", want: domain.IntentCommand, wantOK: true},
		{name: "prose reply is rejected", raw: "The intent is COMMAND", wantOK: false},
		{name: "unknown keyword", raw: "EXECUTE", wantOK: false},
		{name: "empty reply", raw: "", wantOK: false},
		{name: "keyword embedded in sentence", raw: "COMMAND because the user wants ls", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.ParseIntent(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseIntent(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseIntent(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

// TestParseRetrievalMode tests routing reply normalization
func TestParseRetrievalMode(t *testing.T) {
	tests := []struct {
		raw    string
		want   domain.RetrievalMode
		wantOK bool
	}{
		{raw: "LOCAL", want: domain.RetrievalLocal, wantOK: true},
		{raw: "remote.", want: domain.RetrievalRemote, wantOK: true},
		{raw: " Local ", want: domain.RetrievalLocal, wantOK: true},
		{raw: "WEB", wantOK: false},
		{raw: "", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := domain.ParseRetrievalMode(tt.raw)
		if ok != tt.wantOK {
			t.Fatalf("ParseRetrievalMode(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
		}
		if ok && got != tt.want {
			t.Errorf("ParseRetrievalMode(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

// TestSession_CircuitBreaker tests the consecutive-failure counter
func TestSession_CircuitBreaker(t *testing.T) {
	session := domain.NewSession(domain.ProviderOllama)

	if session.ID == "" {
		t.Fatal("expected session ID to be assigned")
	}

	for i := 0; i < domain.MaxFailedClassifications-1; i++ {
		if session.RecordClassificationFailure() {
			t.Fatalf("circuit tripped after %d failures, want %d", i+1, domain.MaxFailedClassifications)
		}
	}
	if !session.RecordClassificationFailure() {
		t.Fatalf("circuit did not trip after %d failures", domain.MaxFailedClassifications)
	}

	// A successful classification closes the circuit again.
	session.RecordClassificationSuccess()
	if session.FailedClassifications != 0 {
		t.Errorf("expected counter reset, got %d", session.FailedClassifications)
	}

	session.RecordClassificationFailure()
	session.ResetCircuit()
	if session.FailedClassifications != 0 {
		t.Errorf("expected counter cleared by reset, got %d", session.FailedClassifications)
	}
}

// TestSession_AddTokens tests token accrual
func TestSession_AddTokens(t *testing.T) {
	session := domain.NewSession(domain.ProviderOpenAI)

	session.AddTokens(120)
	session.AddTokens(0)
	session.AddTokens(-5)
	session.AddTokens(30)

	if session.TokensUsed != 150 {
		t.Errorf("expected 150 tokens, got %d", session.TokensUsed)
	}
}
