package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// SectionKeyer derives deterministic section names for component instances.
//
// Contract:
// - Determinism: same inputs must produce same section, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type SectionKeyer interface {
	// Section derives a section name from a component name and an identity value,
	// such as the props that distinguish one instance from its siblings.
	Section(component string, identity any) (string, error)
}

// DefaultSectionKeyer generates SHA-256 based section names.
type DefaultSectionKeyer struct{}

// NewDefaultSectionKeyer creates a new default section keyer.
func NewDefaultSectionKeyer() *DefaultSectionKeyer {
	return &DefaultSectionKeyer{}
}

// Section generates a deterministic section name.
// Format: component:<name>:<hash>
// where hash is the first 16 characters of SHA-256(canonical JSON(identity))
func (k *DefaultSectionKeyer) Section(component string, identity any) (string, error) {
	if err := ValidateName(component); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSection, err)
	}

	canonical, err := canonicalize(identity)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize identity: %w", err)
	}

	hash := sha256.Sum256(canonical)
	section := fmt.Sprintf("component:%s:%s", component, hex.EncodeToString(hash[:8]))
	if err := validateSection(section); err != nil {
		return "", err
	}
	return section, nil
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key to ensure consistent ordering.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		// encoding/json already sorts map keys of concrete map types.
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

var _ SectionKeyer = (*DefaultSectionKeyer)(nil)
