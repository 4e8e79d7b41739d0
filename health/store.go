package health

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/componentstate/cache"
)

// StoreCheckerConfig configures the state store health checker.
type StoreCheckerConfig struct {
	// WarnBytes is the encoded size at which the store reports degraded.
	// If zero, the store never degrades on size.
	WarnBytes int

	// MaxBytes is the encoded size at which the store reports unhealthy.
	// If zero, size never makes the store unhealthy.
	MaxBytes int
}

// DefaultStoreCheckerConfig returns a config with an 8 MiB warning and a
// 32 MiB limit.
func DefaultStoreCheckerConfig() StoreCheckerConfig {
	return StoreCheckerConfig{
		WarnBytes: 8 << 20,
		MaxBytes:  32 << 20,
	}
}

// Validate validates the configuration.
func (c StoreCheckerConfig) Validate() error {
	if c.WarnBytes < 0 || c.MaxBytes < 0 {
		return fmt.Errorf("%w: byte budgets must not be negative", ErrInvalidConfig)
	}
	if c.WarnBytes > 0 && c.MaxBytes > 0 && c.WarnBytes > c.MaxBytes {
		return fmt.Errorf("%w: warn bytes %d exceed max bytes %d", ErrInvalidConfig, c.WarnBytes, c.MaxBytes)
	}
	return nil
}

// StoreChecker reports the size of a state store against its byte budgets.
// Concurrent checks share one reading of the store.
type StoreChecker struct {
	name   string
	store  *cache.Store
	config StoreCheckerConfig
	group  singleflight.Group
}

// NewStoreChecker creates a checker for store. The name defaults to "statecache".
func NewStoreChecker(name string, store *cache.Store, config StoreCheckerConfig) (*StoreChecker, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		name = "statecache"
	}
	return &StoreChecker{name: name, store: store, config: config}, nil
}

// Name returns the name of this checker.
func (c *StoreChecker) Name() string {
	return c.name
}

// Check performs the store health check.
func (c *StoreChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}
	v, _, _ := c.group.Do("check", func() (any, error) {
		return c.check(), nil
	})
	return v.(Result)
}

func (c *StoreChecker) check() Result {
	if c.store.Closed() {
		return Unhealthy("state store is closed", cache.ErrClosed)
	}

	st := c.store.Stats()
	details := map[string]any{
		"sections": st.Sections,
		"entries":  st.Entries,
		"bytes":    st.Bytes,
		"codec":    c.store.Codec().Name(),
	}

	switch {
	case c.config.MaxBytes > 0 && st.Bytes >= c.config.MaxBytes:
		return Unhealthy(fmt.Sprintf("state store over budget: %d of %d bytes", st.Bytes, c.config.MaxBytes), ErrCheckFailed).
			WithDetails(details)
	case c.config.WarnBytes > 0 && st.Bytes >= c.config.WarnBytes:
		return Degraded(fmt.Sprintf("state store large: %d bytes", st.Bytes)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("state store holds %d entries", st.Entries)).WithDetails(details)
	}
}

var _ Checker = (*StoreChecker)(nil)
