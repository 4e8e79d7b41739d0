package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// JSONName identifies the JSON codec.
const JSONName = "json"

// JSON encodes values with encoding/json. Cyclic values are rejected.
type JSON struct{}

// NewJSON creates a JSON codec.
func NewJSON() *JSON {
	return &JSON{}
}

// Name returns "json".
func (*JSON) Name() string { return JSONName }

// Marshal encodes v as JSON.
func (*JSON) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		if _, ok := err.(*json.UnsupportedTypeError); ok {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}
	return data, nil
}

// Unmarshal decodes JSON data into v.
func (*JSON) Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNilTarget
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

var _ Codec = (*JSON)(nil)
