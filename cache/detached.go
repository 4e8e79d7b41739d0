package cache

// detachedAccessor is the bundle seen by code with no provider above it.
// Reads of absent state look like a fresh mount; writes fail loudly.
type detachedAccessor struct{}

// Detached returns the accessor used when no provider is installed.
// Get always misses, Remove and RemoveSection report false, and Set
// returns ErrNoProvider.
func Detached() Accessor {
	return detachedAccessor{}
}

// IsDetached reports whether acc is the detached accessor.
func IsDetached(acc Accessor) bool {
	_, ok := acc.(detachedAccessor)
	return ok
}

func (detachedAccessor) Get(string, string) (any, bool) { return nil, false }

func (detachedAccessor) Load(string, string, any) (bool, error) { return false, nil }

func (detachedAccessor) Set(string, string, any) error { return ErrNoProvider }

func (detachedAccessor) Remove(string, string) bool { return false }

func (detachedAccessor) RemoveSection(string) bool { return false }

var _ Accessor = detachedAccessor{}
