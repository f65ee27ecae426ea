package cotask

import "time"

// Defaults for the tunables described in the original design's
// "configuration recognised by the runtime" section.
const (
	defaultCompletionBatchSize = 10
	defaultIdlePollTimeout     = 500 * time.Millisecond
	defaultFileScratchSize     = 500
	defaultOffloadWorkers      = 4
)

// schedulerOptions holds resolved configuration for Scheduler creation.
type schedulerOptions struct {
	completionBatchSize int
	idlePollTimeout      time.Duration
	fileScratchSize      int
	offloadWorkers       int
	logger               Logger
}

// Option configures a Scheduler at construction time.
type Option interface {
	apply(*schedulerOptions)
}

type optionFunc func(*schedulerOptions)

func (f optionFunc) apply(o *schedulerOptions) { f(o) }

// WithCompletionBatchSize sets the number of completion records
// drained from the backend per loop iteration. The default is 10.
func WithCompletionBatchSize(n int) Option {
	return optionFunc(func(o *schedulerOptions) {
		if n > 0 {
			o.completionBatchSize = n
		}
	})
}

// WithIdlePollTimeout sets how long the loop blocks in the completion
// backend's poll when no queued task can resume but I/O or a timer is
// still pending. A pending timer's deadline shortens the wait. The
// default is 500ms.
func WithIdlePollTimeout(d time.Duration) Option {
	return optionFunc(func(o *schedulerOptions) {
		if d > 0 {
			o.idlePollTimeout = d
		}
	})
}

// WithFileScratchSize sets the size of the internal scratch buffer
// FileReadAll uses between sub-reads. The default is 500 bytes.
func WithFileScratchSize(n int) Option {
	return optionFunc(func(o *schedulerOptions) {
		if n > 0 {
			o.fileScratchSize = n
		}
	})
}

// WithOffloadWorkers bounds the goroutine pool used to run blocking
// syscalls (file reads, DNS resolution) off the loop thread. The
// default is 4.
func WithOffloadWorkers(n int) Option {
	return optionFunc(func(o *schedulerOptions) {
		if n > 0 {
			o.offloadWorkers = n
		}
	})
}

// WithLogger sets the structured logger used by the scheduler and its
// completion backend. The default is a disabled logger.
func WithLogger(l Logger) Option {
	return optionFunc(func(o *schedulerOptions) {
		if l != nil {
			o.logger = l
		}
	})
}

func resolveOptions(opts []Option) *schedulerOptions {
	o := &schedulerOptions{
		completionBatchSize: defaultCompletionBatchSize,
		idlePollTimeout:      defaultIdlePollTimeout,
		fileScratchSize:      defaultFileScratchSize,
		offloadWorkers:       defaultOffloadWorkers,
		logger:               disabledLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(o)
		}
	}
	return o
}
