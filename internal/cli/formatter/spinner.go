package formatter

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerInterval = 80 * time.Millisecond
	// Requests slower than this get an elapsed counter after the message.
	spinnerSlowAfter = 2 * time.Second
)

// StartSpinner animates message on one line of out while a request is in
// flight and returns the function that stops it and clears the line. The
// stop function may be called more than once.
func StartSpinner(out io.Writer, message string) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	start := time.Now()

	go func() {
		defer close(done)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				fmt.Fprint(out, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprint(out, "\r\033[K"+spinnerLine(i, message, time.Since(start)))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

func spinnerLine(frame int, message string, elapsed time.Duration) string {
	line := "  " + StylePurple.Render(spinnerFrames[frame%len(spinnerFrames)]) + " " + Dim(message)
	if elapsed >= spinnerSlowAfter {
		line += " " + Dim(fmt.Sprintf("(%ds)", int(elapsed.Seconds())))
	}
	return line
}
