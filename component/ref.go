package component

import "sync"

// Ref is an external handle a caller passes down to learn which instance a
// component rendered. The zero value is ready to use and a nil *Ref is
// accepted everywhere, so components may call Attach unconditionally.
type Ref struct {
	mu      sync.RWMutex
	current any
}

// NewRef returns an empty Ref.
func NewRef() *Ref {
	return &Ref{}
}

// Current returns the attached instance, or nil.
func (r *Ref) Current() any {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Attach points the ref at v, replacing any previous instance.
func (r *Ref) Attach(v any) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.current = v
	r.mu.Unlock()
}

// RefAs returns the attached instance as a T.
func RefAs[T any](r *Ref) (T, bool) {
	v, ok := r.Current().(T)
	return v, ok
}
