package thermal

import "time"

// Sample is one point of a simulated temperature trajectory.
type Sample struct {
	Elapsed     time.Duration
	Temperature float64
}

type Option func(*runOptions)

// WithTrace calls fn with the temperature at the start of a run and then
// every interval of simulated time, rounded to the nearest whole solver step.
// Intervals shorter than one step sample every step. Tracing never changes
// the result.
func WithTrace(every time.Duration, fn func(Sample)) Option {
	return func(o *runOptions) {
		o.every = every
		o.observe = fn
	}
}

type runOptions struct {
	every   time.Duration
	observe func(Sample)
	stride  int
}

func newRunOptions(step time.Duration, opts []Option) *runOptions {
	o := &runOptions{}
	for _, opt := range opts {
		opt(o)
	}
	o.stride = max(1, int((o.every+step/2)/step))
	return o
}

func (o *runOptions) record(steps int, step time.Duration, temp float64) {
	if o.observe == nil || steps%o.stride != 0 {
		return
	}
	o.observe(Sample{Elapsed: time.Duration(steps) * step, Temperature: temp})
}
