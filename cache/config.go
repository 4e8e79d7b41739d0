package cache

import (
	"fmt"
	"slices"

	"github.com/jonwraymond/componentstate/codec"
)

// Config configures a Store from flags or files.
type Config struct {
	// Codec names the value codec; see codec.Names.
	Codec string

	// MaxValueBytes caps the encoded size of a single value.
	// If zero, no maximum is enforced.
	MaxValueBytes int
}

// DefaultConfig returns the default store configuration.
// Codec: graph, MaxValueBytes: unlimited
func DefaultConfig() Config {
	return Config{
		Codec:         codec.GraphName,
		MaxValueBytes: 0,
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Codec != "" && !slices.Contains(codec.Names, c.Codec) {
		return fmt.Errorf("%w: unknown codec %q", ErrInvalidConfig, c.Codec)
	}
	if c.MaxValueBytes < 0 {
		return fmt.Errorf("%w: max value bytes must not be negative, got %d", ErrInvalidConfig, c.MaxValueBytes)
	}
	return nil
}

// NewStoreFromConfig validates cfg and builds a store from it. Options are
// applied after the config, so they win.
func NewStoreFromConfig(cfg Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := codec.ByName(cfg.Codec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	base := []Option{WithCodec(c), WithMaxValueBytes(cfg.MaxValueBytes)}
	return NewStore(append(base, opts...)...), nil
}
