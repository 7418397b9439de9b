package watcher

import (
	"context"
	"time"

	"github.com/ritzau/buildgraph/pkg/logging"
)

// Debouncer batches rapid BUILD-file change bursts (e.g. a git checkout
// touching hundreds of files) into a single re-run trigger: it flushes
// after quietPeriod of silence, or after maxWait since the first
// accumulated event, whichever comes first.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer wraps input with the given quiet-period/max-wait bounds.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	var accumulated []string
	var quietTimer, maxWaitTimer *time.Timer

	flush := func() {
		if len(accumulated) == 0 {
			return
		}
		logging.Debug("flushing accumulated BUILD file changes", "count", len(accumulated))
		d.output <- ChangeEvent{Paths: accumulated, Timestamp: time.Now()}
		accumulated = nil
		if quietTimer != nil {
			quietTimer.Stop()
			quietTimer = nil
		}
		if maxWaitTimer != nil {
			maxWaitTimer.Stop()
			maxWaitTimer = nil
		}
	}

	for {
		var quietC, maxWaitC <-chan time.Time
		if quietTimer != nil {
			quietC = quietTimer.C
		}
		if maxWaitTimer != nil {
			maxWaitC = maxWaitTimer.C
		}

		select {
		case <-ctx.Done():
			flush()
			close(d.output)
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}
			accumulated = append(accumulated, event.Paths...)
			if quietTimer != nil {
				quietTimer.Stop()
			}
			quietTimer = time.NewTimer(d.quietPeriod)
			if maxWaitTimer == nil {
				maxWaitTimer = time.NewTimer(d.maxWait)
			}

		case <-quietC:
			flush()

		case <-maxWaitC:
			flush()
		}
	}
}

// Output returns the channel of debounced change batches.
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
