package notify

import (
	"context"
	"sync"
	"time"

	"github.com/spigell/career-center-bot/internal/utils"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const defaultChannelTimeout = 10 * time.Second

// Notice is one logical message fanned out to every configured channel.
type Notice struct {
	Subject string
	Body    string
}

// Sink is a single delivery channel. Send must respect the context deadline;
// delivery is best-effort and never retried.
type Sink interface {
	Name() string
	Send(ctx context.Context, n Notice) error
}

// Outcome records the result of one channel attempt.
type Outcome struct {
	Channel string
	Err     error
}

// Dispatcher fans a notice out to independent sinks, isolating failures per
// sink. A failed or slow channel never blocks the others and never surfaces
// to the caller.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a dispatcher over the given sinks. Nil sinks (channels left
// unconfigured) are dropped.
func New(logger *zap.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		timeout: defaultChannelTimeout,
		logger:  logger,
	}

	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}

	return d
}

// WithTimeout overrides the per-channel timeout.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	d.timeout = timeout
	return d
}

// Notify attempts every configured channel concurrently, each under its own
// timeout. It returns the per-channel outcomes and never an error: failures
// are recorded for operational visibility only.
func (d *Dispatcher) Notify(ctx context.Context, n Notice) []Outcome {
	outcomes := make([]Outcome, len(d.sinks))

	var wg sync.WaitGroup
	for i, sink := range d.sinks {
		wg.Add(1)
		go func(i int, sink Sink) {
			defer wg.Done()

			sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()

			outcomes[i] = Outcome{
				Channel: sink.Name(),
				Err:     sink.Send(sendCtx, n),
			}
		}(i, sink)
	}
	wg.Wait()

	var failures error
	for _, o := range outcomes {
		if o.Err != nil {
			failures = multierr.Append(failures, o.Err)
		}
	}

	if failures != nil {
		d.logger.Error("notification delivery failed on some channels",
			zap.Error(failures),
			zap.String("subject", n.Subject),
			zap.String("body", utils.TruncateForLog(n.Body, 128)),
		)
	}

	return outcomes
}
