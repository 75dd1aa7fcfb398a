package estimator

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-refdocs/internal/logging"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

// Config controls the measurement shape.
type Config struct {
	Sizes      []int
	Iterations int
}

// Service measures subjects and fits their growth curves.
type Service struct {
	cfg      Config
	subjects map[string]Subject
	logger   interfaces.Logger
}

// Option customizes service construction.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSubjects registers additional subjects next to the built-in ones.
// Later registrations override earlier ones by name.
func WithSubjects(subjects ...Subject) Option {
	return func(s *Service) {
		for _, subject := range subjects {
			if subject.Name != "" && subject.Fn != nil {
				s.subjects[subject.Name] = subject
			}
		}
	}
}

// NewService builds an estimator with the built-in subject registry.
func NewService(cfg Config, opts ...Option) *Service {
	if len(cfg.Sizes) == 0 {
		cfg.Sizes = append([]int(nil), DefaultSizes...)
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultIterations
	}

	s := &Service{
		cfg:      cfg,
		subjects: map[string]Subject{},
		logger:   logging.NoOp(),
	}
	for _, subject := range builtinSubjects() {
		s.subjects[subject.Name] = subject
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report is the outcome of measuring one subject across every input size.
// Estimate is nil when too few sizes produced usable timings.
type Report struct {
	Subject  string    `json:"subject"`
	Sizes    []int     `json:"sizes"`
	Samples  []Sample  `json:"samples"`
	Estimate *Estimate `json:"estimate,omitempty"`
}

// Subjects lists the registered subjects sorted by name.
func (s *Service) Subjects() []Subject {
	out := make([]Subject, 0, len(s.subjects))
	for _, subject := range s.subjects {
		out = append(out, subject)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Estimate measures the named subject at every configured size and fits the
// resulting curve. Cancellation is honored between sizes, never inside the
// timed region.
func (s *Service) Estimate(ctx context.Context, name string) (*Report, error) {
	subject, ok := s.subjects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, name)
	}

	report := &Report{
		Subject: subject.Name,
		Sizes:   append([]int(nil), s.cfg.Sizes...),
		Samples: make([]Sample, 0, len(s.cfg.Sizes)),
	}

	seconds := make([]float64, 0, len(s.cfg.Sizes))
	for _, size := range report.Sizes {
		avg, err := Measure(ctx, subject.Fn, size, s.cfg.Iterations)
		if err != nil {
			return nil, err
		}
		seconds = append(seconds, avg)
		report.Samples = append(report.Samples, Sample{Size: size, Seconds: avg})
		s.logger.Debug("measured subject", "subject", subject.Name, "size", size, "seconds", avg)
	}

	if estimate, ok := Detect(report.Sizes, seconds); ok {
		estimate.Samples = nil // already carried on the report
		report.Estimate = &estimate
	}

	s.logger.Info("estimate complete",
		"subject", subject.Name,
		"sizes", len(report.Sizes),
		"model", estimateName(report.Estimate),
	)
	return report, nil
}

func estimateName(estimate *Estimate) string {
	if estimate == nil {
		return "insufficient data"
	}
	return estimate.Name
}
