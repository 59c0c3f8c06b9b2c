package safety

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Countdown warns before unattended execution, one line and one terminal
// bell per second. Returns false when ctx is cancelled before the grace
// period elapses.
func Countdown(ctx context.Context, out io.Writer, grace time.Duration) bool {
	seconds := int(grace / time.Second)
	if seconds <= 0 {
		return ctx.Err() == nil
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for remaining := seconds; remaining > 0; {
		fmt.Fprintf(out, "\aAuto-proceeding in %ds (Ctrl-C aborts)\n", remaining)
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			remaining--
		}
	}
	return true
}
