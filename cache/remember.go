package cache

import "errors"

// Lookup decodes the value at (section, key) into a T.
// It reports false with a nil error when the slot is absent.
func Lookup[T any](acc Accessor, section, key string) (T, bool, error) {
	var v T
	ok, err := acc.Load(section, key, &v)
	if err != nil || !ok {
		var zero T
		return zero, ok, err
	}
	return v, true, nil
}

// Remember returns the value at (section, key), computing and storing it on
// a miss. Errors from compute are returned and not cached. A value that
// cannot be decoded is recomputed and overwritten. A failed store is ignored
// and the computed value is still returned, except under a detached accessor:
// the value is then returned together with ErrNoProvider.
func Remember[T any](acc Accessor, section, key string, compute func() (T, error)) (T, error) {
	if v, ok, err := Lookup[T](acc, section, key); err == nil && ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		return v, err
	}

	if err := acc.Set(section, key, v); errors.Is(err, ErrNoProvider) {
		return v, err
	}
	return v, nil
}
