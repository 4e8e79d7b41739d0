package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/jonwraymond/componentstate/codec"
	"github.com/jonwraymond/componentstate/observe"
)

// Store owns the section/key mapping. The zero value is not usable; call NewStore.
type Store struct {
	mu       sync.RWMutex
	sections map[string]map[string][]byte
	bytes    int
	closed   bool

	codec         codec.Codec
	logger        observe.Logger
	middleware    *observe.Middleware
	maxValueBytes int
}

// Stats is a point-in-time summary of store contents.
type Stats struct {
	Sections int
	Entries  int
	Bytes    int
}

// NewStore creates an empty store. The Graph codec is used unless WithCodec
// says otherwise.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sections: make(map[string]map[string][]byte),
		codec:    codec.NewGraph(),
		logger:   observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Codec returns the codec the store encodes values with.
func (s *Store) Codec() codec.Codec { return s.codec }

// Bind returns an accessor whose operations run under ctx, so spans and
// log lines join the caller's trace.
func (s *Store) Bind(ctx context.Context) Accessor {
	if ctx == nil {
		ctx = context.Background()
	}
	return boundAccessor{store: s, ctx: ctx}
}

// Get implements Accessor with a background context.
func (s *Store) Get(section, key string) (any, bool) {
	return s.get(context.Background(), section, key)
}

// Load implements Accessor with a background context.
func (s *Store) Load(section, key string, dst any) (bool, error) {
	return s.load(context.Background(), section, key, dst)
}

// Set implements Accessor with a background context.
func (s *Store) Set(section, key string, data any) error {
	return s.set(context.Background(), section, key, data)
}

// Remove implements Accessor with a background context.
func (s *Store) Remove(section, key string) bool {
	return s.remove(context.Background(), section, key)
}

// RemoveSection implements Accessor with a background context.
func (s *Store) RemoveSection(section string) bool {
	return s.removeSection(context.Background(), section)
}

func (s *Store) run(ctx context.Context, meta observe.OpMeta, fn observe.OpFunc) error {
	if s.middleware != nil {
		fn = s.middleware.Wrap(fn)
	}
	_, err := fn(ctx, meta)
	return err
}

func (s *Store) lookup(section, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.sections[section][key]
	return raw, ok
}

func (s *Store) get(ctx context.Context, section, key string) (any, bool) {
	var (
		value any
		found bool
	)
	meta := observe.OpMeta{Op: observe.OpGet, Section: section, Key: key}
	err := s.run(ctx, meta, func(ctx context.Context, meta observe.OpMeta) (observe.Outcome, error) {
		raw, ok := s.lookup(section, key)
		if !ok {
			return observe.Outcome{Miss: true}, nil
		}
		var v any
		if err := s.codec.Unmarshal(raw, &v); err != nil {
			return observe.Outcome{Bytes: len(raw)}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		value, found = v, true
		return observe.Outcome{Bytes: len(raw)}, nil
	})
	if err != nil {
		// The middleware already logs failed operations.
		if s.middleware == nil {
			s.logger.WithOp(meta).Error(ctx, "stored value could not be decoded", observe.Field{Key: "error", Value: err.Error()})
		}
		return nil, false
	}
	return value, found
}

func (s *Store) load(ctx context.Context, section, key string, dst any) (bool, error) {
	var found bool
	meta := observe.OpMeta{Op: observe.OpGet, Section: section, Key: key}
	err := s.run(ctx, meta, func(ctx context.Context, meta observe.OpMeta) (observe.Outcome, error) {
		raw, ok := s.lookup(section, key)
		if !ok {
			return observe.Outcome{Miss: true}, nil
		}
		found = true
		if err := s.codec.Unmarshal(raw, dst); err != nil {
			return observe.Outcome{Bytes: len(raw)}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return observe.Outcome{Bytes: len(raw)}, nil
	})
	return found, err
}

func (s *Store) set(ctx context.Context, section, key string, data any) error {
	meta := observe.OpMeta{Op: observe.OpSet, Section: section, Key: key}
	return s.run(ctx, meta, func(ctx context.Context, meta observe.OpMeta) (observe.Outcome, error) {
		if err := validateSection(section); err != nil {
			return observe.Outcome{}, err
		}
		if err := validateKey(key); err != nil {
			return observe.Outcome{}, err
		}

		raw, err := s.codec.Marshal(data)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrEncode, err)
			s.logger.WithOp(meta).Error(ctx, "value could not be encoded", observe.Field{Key: "error", Value: err.Error()})
			return observe.Outcome{}, err
		}
		out := observe.Outcome{Bytes: len(raw)}

		if s.maxValueBytes > 0 && len(raw) > s.maxValueBytes {
			s.logger.WithOp(meta).Warn(ctx, "value rejected as too large",
				observe.Field{Key: "bytes", Value: len(raw)},
				observe.Field{Key: "max_bytes", Value: s.maxValueBytes},
			)
			return out, fmt.Errorf("%w: %d > %d bytes", ErrValueTooLarge, len(raw), s.maxValueBytes)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return out, ErrClosed
		}
		keys, ok := s.sections[section]
		if !ok {
			keys = make(map[string][]byte)
			s.sections[section] = keys
		}
		s.bytes += len(raw) - len(keys[key])
		keys[key] = raw
		return out, nil
	})
}

func (s *Store) remove(ctx context.Context, section, key string) bool {
	var removed bool
	meta := observe.OpMeta{Op: observe.OpRemove, Section: section, Key: key}
	_ = s.run(ctx, meta, func(ctx context.Context, meta observe.OpMeta) (observe.Outcome, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		keys, ok := s.sections[section]
		if !ok {
			return observe.Outcome{Miss: true}, nil
		}
		raw, ok := keys[key]
		if !ok {
			return observe.Outcome{Miss: true}, nil
		}
		delete(keys, key)
		if len(keys) == 0 {
			delete(s.sections, section)
		}
		s.bytes -= len(raw)
		removed = true
		return observe.Outcome{Bytes: len(raw)}, nil
	})
	return removed
}

func (s *Store) removeSection(ctx context.Context, section string) bool {
	var removed bool
	meta := observe.OpMeta{Op: observe.OpRemoveSection, Section: section}
	_ = s.run(ctx, meta, func(ctx context.Context, meta observe.OpMeta) (observe.Outcome, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		keys, ok := s.sections[section]
		if !ok {
			return observe.Outcome{Miss: true}, nil
		}
		n := sectionBytes(keys)
		delete(s.sections, section)
		s.bytes -= n
		removed = true
		return observe.Outcome{Bytes: n}, nil
	})
	return removed
}

func sectionBytes(keys map[string][]byte) int {
	n := 0
	for _, raw := range keys {
		n += len(raw)
	}
	return n
}

// Sections returns the section names in sorted order.
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.sections))
}

// Keys returns the keys under section in sorted order.
func (s *Store) Keys(section string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.sections[section]))
}

// Raw returns a copy of the encoded value at (section, key).
func (s *Store) Raw(section, key string) ([]byte, bool) {
	raw, ok := s.lookup(section, key)
	if !ok {
		return nil, false
	}
	return bytes.Clone(raw), true
}

// Stats returns the current section, entry and byte counts.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Sections: len(s.sections), Bytes: s.bytes}
	for _, keys := range s.sections {
		st.Entries += len(keys)
	}
	return st
}

// Dump writes every entry as text, one section header followed by its keys,
// in sorted order.
func (s *Store) Dump(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, section := range slices.Sorted(maps.Keys(s.sections)) {
		if _, err := fmt.Fprintf(w, "[%s]\n", section); err != nil {
			return err
		}
		keys := s.sections[section]
		for _, key := range slices.Sorted(maps.Keys(keys)) {
			if _, err := fmt.Fprintf(w, "  %s = %s\n", key, keys[key]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Clear drops every section. A closed store stays closed.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sections = make(map[string]map[string][]byte)
	s.bytes = 0
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close releases the cache. Later writes fail with ErrClosed, reads miss and
// removals report false. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	st := Stats{Sections: len(s.sections), Bytes: s.bytes}
	s.closed = true
	s.sections = make(map[string]map[string][]byte)
	s.bytes = 0
	s.mu.Unlock()

	s.logger.Debug(context.Background(), "state store closed",
		observe.Field{Key: "sections", Value: st.Sections},
		observe.Field{Key: "bytes", Value: st.Bytes},
	)
	return nil
}

// boundAccessor runs store operations under a caller-supplied context.
type boundAccessor struct {
	store *Store
	ctx   context.Context
}

func (b boundAccessor) Get(section, key string) (any, bool) {
	return b.store.get(b.ctx, section, key)
}

func (b boundAccessor) Load(section, key string, dst any) (bool, error) {
	return b.store.load(b.ctx, section, key, dst)
}

func (b boundAccessor) Set(section, key string, data any) error {
	return b.store.set(b.ctx, section, key, data)
}

func (b boundAccessor) Remove(section, key string) bool {
	return b.store.remove(b.ctx, section, key)
}

func (b boundAccessor) RemoveSection(section string) bool {
	return b.store.removeSection(b.ctx, section)
}

func (b boundAccessor) Bind(ctx context.Context) Accessor {
	return b.store.Bind(ctx)
}

var (
	_ Accessor = (*Store)(nil)
	_ Accessor = boundAccessor{}
)
