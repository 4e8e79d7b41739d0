package codec

import (
	"errors"
	"fmt"
)

// Sentinel errors for encode and decode operations.
var (
	ErrUnsupportedType  = errors.New("codec: unsupported type")
	ErrUnsupportedValue = errors.New("codec: unsupported value")
	ErrMalformed        = errors.New("codec: malformed data")
	ErrTooDeep          = errors.New("codec: value nesting too deep")
	ErrNilTarget        = errors.New("codec: decode target must be a non-nil pointer")
	ErrUnknownCodec     = errors.New("codec: unknown codec")
)

// Codec encodes and decodes values for cache storage.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: Marshal must not retain v; Unmarshal must not retain data.
// - Errors: failures wrap one of the package sentinel errors.
type Codec interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the codec identifier used for configuration and diagnostics.
	Name() string
}

// Names lists the codec identifiers accepted by ByName.
var Names = []string{GraphName, JSONName}

// ByName returns the codec registered under name.
// An empty name selects the Graph codec.
func ByName(name string) (Codec, error) {
	switch name {
	case GraphName, "":
		return NewGraph(), nil
	case JSONName:
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}
