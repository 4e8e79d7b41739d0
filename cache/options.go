package cache

import (
	"github.com/jonwraymond/componentstate/codec"
	"github.com/jonwraymond/componentstate/observe"
)

// Option configures a Store.
type Option func(*Store)

// WithCodec sets the codec used to encode values. A nil codec is ignored.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithLogger sets the logger for store events such as encode failures.
func WithLogger(l observe.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMiddleware instruments every store operation with m.
func WithMiddleware(m *observe.Middleware) Option {
	return func(s *Store) {
		s.middleware = m
	}
}

// WithMaxValueBytes rejects encoded values larger than n bytes.
// Zero or a negative n disables the limit.
func WithMaxValueBytes(n int) Option {
	return func(s *Store) {
		s.maxValueBytes = max(n, 0)
	}
}
