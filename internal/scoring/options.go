package scoring

import (
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
	"github.com/MikeSquared-Agency/Optimiser/internal/weights"
)

// OperationEvent describes one finished operation. Observers are called from
// the goroutine that ran the operation and may be called concurrently.
type OperationEvent struct {
	SubjectID    int64
	Context      string
	Factor       string
	Operation    string
	Score        float64
	Duration     time.Duration
	Unavailable  bool
	Panicked     bool
	UnknownCodes []suggestions.Code
}

// Observer receives operation events, typically to record metrics.
type Observer func(OperationEvent)

const defaultParallelism = 4

type options struct {
	registry    *Registry
	weights     *weights.Registry
	catalog     *suggestions.Catalog
	logger      *slog.Logger
	parallelism int
	observer    Observer
	clock       func() time.Time
}

// Option configures an Optimiser and the factors and contexts it builds.
type Option func(*options)

func WithRegistry(r *Registry) Option { return func(o *options) { o.registry = r } }

func WithWeights(w *weights.Registry) Option { return func(o *options) { o.weights = w } }

func WithCatalog(c *suggestions.Catalog) Option { return func(o *options) { o.catalog = c } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithParallelism bounds how many operations of one factor run at once.
func WithParallelism(n int) Option { return func(o *options) { o.parallelism = n } }

func WithObserver(fn Observer) Option { return func(o *options) { o.observer = fn } }

func WithClock(now func() time.Time) Option { return func(o *options) { o.clock = now } }

func buildOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.registry == nil {
		o.registry = &Registry{}
	}
	if o.weights == nil {
		o.weights = weights.MustDefault()
	}
	if o.catalog == nil {
		o.catalog = suggestions.Default()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.parallelism <= 0 {
		o.parallelism = defaultParallelism
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	return o
}
