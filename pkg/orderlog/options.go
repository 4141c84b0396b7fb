package orderlog

import "github.com/alphaquick/hldata/pkg/logger"

// Option configures a reader.
type Option func(*options)

type options struct {
	log *logger.Logger
}

func defaultOptions() *options {
	return &options{
		log: logger.NewNop(),
	}
}

// WithLogger attaches a structured logger to the reader. Readers log nothing
// by default.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}
