package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the mutable state of one assistant run: identity, the token
// meter, and the classification circuit breaker. A session belongs to a
// single goroutine; it is not safe for concurrent use.
type Session struct {
	ID                    string
	Provider              Provider
	StartedAt             time.Time
	TokensUsed            int
	FailedClassifications int
}

// NewSession starts a session bound to one provider.
func NewSession(provider Provider) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Provider:  provider,
		StartedAt: time.Now(),
	}
}

// Stamp returns the session-start timestamp used to name snapshot files.
func (s *Session) Stamp() string {
	return s.StartedAt.Format(SessionStampFormat)
}

// AddTokens accrues provider-reported usage into the session meter.
func (s *Session) AddTokens(n int) {
	if n > 0 {
		s.TokensUsed += n
	}
}

// RecordClassificationFailure bumps the consecutive-failure counter and
// reports whether the circuit breaker tripped.
func (s *Session) RecordClassificationFailure() bool {
	s.FailedClassifications++
	return s.FailedClassifications >= MaxFailedClassifications
}

// RecordClassificationSuccess resets the consecutive-failure counter.
func (s *Session) RecordClassificationSuccess() {
	s.FailedClassifications = 0
}

// ResetCircuit clears the failure counter, used when the operator wipes
// conversation state mid-session.
func (s *Session) ResetCircuit() {
	s.FailedClassifications = 0
}
