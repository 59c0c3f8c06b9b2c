package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

// Spinner displays an animated spinner during long operations. It can be
// started and stopped repeatedly.
type Spinner struct {
	frames   []string
	interval time.Duration
	writer   io.Writer
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewSpinner creates a new spinner writing to w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 80 * time.Millisecond,
		writer:   w,
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		idx := 0
		for {
			select {
			case <-stop:
				// Clear the spinner line
				fmt.Fprintf(s.writer, "\r\033[K")
				return
			default:
				fmt.Fprintf(s.writer, "\r%s ", s.frames[idx%len(s.frames)])
				idx++
				time.Sleep(s.interval)
			}
		}
	}()
}

// Stop stops the spinner animation.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop := s.stopChan
	s.mu.Unlock()

	close(stop)
	s.wg.Wait()
}

// SpinningGateway wraps a model gateway so the terminal shows activity
// while a completion is in flight. Use only when stdout is a terminal.
type SpinningGateway struct {
	inner   ports.Gateway
	spinner *Spinner
}

// NewSpinningGateway decorates inner with a spinner writing to w.
func NewSpinningGateway(inner ports.Gateway, w io.Writer) *SpinningGateway {
	return &SpinningGateway{inner: inner, spinner: NewSpinner(w)}
}

// Provider reports the wrapped gateway's provider.
func (g *SpinningGateway) Provider() domain.Provider {
	return g.inner.Provider()
}

// Complete runs the wrapped call with the spinner active.
func (g *SpinningGateway) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResponse, error) {
	g.spinner.Start()
	defer g.spinner.Stop()
	return g.inner.Complete(ctx, req)
}

var _ ports.Gateway = (*SpinningGateway)(nil)
