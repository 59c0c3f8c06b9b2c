package dispatch

import (
	"context"
	"fmt"
)

// runQuestion executes the QUESTION strategy: one gateway call with the
// rolling context attached.
func (s *Service) runQuestion(ctx context.Context, instruction string) (cycleOutcome, error) {
	p := s.catalog()
	reply, err := s.complete(ctx, p.question(), withContext(instruction, s.Conversation.Rolling()))
	if err != nil {
		return cycleOutcome{}, fmt.Errorf("answer question: %w", err)
	}

	s.Out.Answer(reply)
	s.record(fmt.Sprintf("%s => %s", instruction, reply))
	return cycleOutcome{exitCode: -1}, nil
}
