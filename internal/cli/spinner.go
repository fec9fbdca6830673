package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// spinnerOut receives the spinner animation; stdout stays clean for command
// output.
var spinnerOut io.Writer = os.Stderr

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// withSpinner runs fn while animating message on spinnerOut. The line is
// cleared when fn returns or ctx is cancelled, whichever comes first; fn
// itself is always waited for.
func withSpinner[T any](ctx context.Context, message string, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer clearSpinner(message)

	for i := 0; ; i++ {
		select {
		case r := <-done:
			return r.v, r.err
		case <-ctx.Done():
			clearSpinner(message)
			r := <-done
			if r.err == nil {
				r.err = ctx.Err()
			}
			return r.v, r.err
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(spinnerOut, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(message))
		}
	}
}

func clearSpinner(message string) {
	fmt.Fprintf(spinnerOut, "\r%s\r", strings.Repeat(" ", len(message)+4))
}
