package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
)

// classify maps an instruction onto one of the four intents with a
// single gateway call. Quota errors pass through untouched; every other
// failure — transport, empty reply, unrecognized keyword — counts
// against the consecutive-failure ceiling.
func (s *Service) classify(ctx context.Context, instruction string) (domain.Intent, error) {
	p := s.catalog()
	reply, err := s.complete(ctx, p.classification(), withContext(instruction, s.Conversation.Rolling()))
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			return "", err
		}
		return "", s.countFailure(fmt.Errorf("classify instruction: %w", err))
	}

	intent, ok := domain.ParseIntent(reply)
	if !ok {
		return "", s.countFailure(fmt.Errorf("%w: %q", domain.ErrUnrecognizedIntent, clip(reply, 80)))
	}

	s.Session.RecordClassificationSuccess()
	return intent, nil
}

// countFailure bumps the circuit breaker and swaps the error for the
// terminal one once the ceiling is reached.
func (s *Service) countFailure(err error) error {
	if s.Session.RecordClassificationFailure() {
		return fmt.Errorf("%w after %d consecutive failures (last: %v)",
			domain.ErrClassifierCircuitOpen, s.Session.FailedClassifications, err)
	}
	remaining := domain.MaxFailedClassifications - s.Session.FailedClassifications
	return fmt.Errorf("%w (%d attempts left before the session ends)", err, remaining)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
