package codec

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// GraphName identifies the Graph codec.
const GraphName = "graph"

// MaxDepth bounds recursion while encoding or decoding a single value.
const MaxDepth = 10000

const graphVersion = 1

var (
	jsonMarshalerType   = reflect.TypeFor[json.Marshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	anyMapType          = reflect.TypeFor[map[string]any]()
	anySliceType        = reflect.TypeFor[[]any]()

	nullNode = json.RawMessage("null")
)

// Graph is a cycle-tolerant codec. Values are flattened into a table of
// composite entries; every composite is referenced by its table index, so
// shared and circular references encode once and decode with the same shape.
//
// Document layout:
//
//	{"v":1,"root":<node>,"refs":[<entry>...]}
//
// A node is a JSON scalar or {"$":i}. An entry is {"o":{name:node}} for maps
// and structs, {"a":[node...]} for slices and arrays, {"p":node} for pointers
// to non-composite values, or {"j":<json>} for values that marshal themselves.
//
// Decoding into *any yields map[string]any, []any, string, bool, int,
// float64 or nil. Floats always encode with a fraction or exponent, so the
// dynamic form keeps integers and floats apart.
type Graph struct{}

// NewGraph creates a Graph codec.
func NewGraph() *Graph {
	return &Graph{}
}

// Name returns "graph".
func (*Graph) Name() string { return GraphName }

type document struct {
	Version int               `json:"v"`
	Root    json.RawMessage   `json:"root"`
	Refs    []json.RawMessage `json:"refs"`
}

// Marshal flattens v into a Graph document.
func (*Graph) Marshal(v any) ([]byte, error) {
	enc := &encoder{seen: make(map[identity]int)}
	root, err := enc.encode(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	refs := enc.refs
	if refs == nil {
		refs = []json.RawMessage{}
	}
	return json.Marshal(document{Version: graphVersion, Root: root, Refs: refs})
}

// Unmarshal rebuilds the value held in data into v, which must be a non-nil pointer.
func (*Graph) Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNilTarget
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Version != graphVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformed, doc.Version)
	}
	if len(doc.Root) == 0 {
		return fmt.Errorf("%w: missing root", ErrMalformed)
	}

	dec := &decoder{
		raw:     doc.Refs,
		parsed:  make([]*entry, len(doc.Refs)),
		dynamic: make(map[int]any),
		typed:   make(map[typedRef]reflect.Value),
	}
	return dec.value(doc.Root, rv.Elem())
}

var _ Codec = (*Graph)(nil)

// identity distinguishes reference-typed values. Slices include their length
// since two headers over the same array may cover different elements.
type identity struct {
	typ reflect.Type
	ptr uintptr
	n   int
}

type encoder struct {
	refs  []json.RawMessage
	seen  map[identity]int
	depth int
}

func (e *encoder) encode(v reflect.Value) (json.RawMessage, error) {
	if e.depth >= MaxDepth {
		return nil, ErrTooDeep
	}
	e.depth++
	defer func() { e.depth-- }()

	if !v.IsValid() {
		return nullNode, nil
	}
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nullNode, nil
		}
		return e.encode(v.Elem())
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nullNode, nil
		}
	}

	if isMarshaler(v.Type()) {
		return e.marshaled(v)
	}

	switch v.Kind() {
	case reflect.Bool:
		return strconv.AppendBool(nil, v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(nil, v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.AppendUint(nil, v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return encodeFloat(v.Float(), v.Type().Bits())
	case reflect.String:
		return encodeString(v.String())
	case reflect.Pointer:
		return e.pointer(v)
	case reflect.Map:
		return e.composite(v, &identity{typ: v.Type(), ptr: v.Pointer()})
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return json.Marshal(v.Bytes())
		}
		if v.Len() == 0 {
			return e.composite(v, nil)
		}
		return e.composite(v, &identity{typ: v.Type(), ptr: v.Pointer(), n: v.Len()})
	case reflect.Array, reflect.Struct:
		return e.composite(v, nil)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
	}
}

func (e *encoder) reserve(id *identity) int {
	idx := len(e.refs)
	e.refs = append(e.refs, nil)
	if id != nil {
		e.seen[*id] = idx
	}
	return idx
}

func (e *encoder) composite(v reflect.Value, id *identity) (json.RawMessage, error) {
	if id != nil {
		if idx, ok := e.seen[*id]; ok {
			return refNode(idx), nil
		}
	}
	idx := e.reserve(id)
	body, err := e.body(v)
	if err != nil {
		return nil, err
	}
	e.refs[idx] = body
	return refNode(idx), nil
}

func (e *encoder) pointer(v reflect.Value) (json.RawMessage, error) {
	id := identity{typ: v.Type(), ptr: v.Pointer()}
	if idx, ok := e.seen[id]; ok {
		return refNode(idx), nil
	}
	idx := e.reserve(&id)

	elem := v.Elem()
	var body json.RawMessage
	var err error
	switch elem.Kind() {
	case reflect.Struct, reflect.Array:
		body, err = e.body(elem)
	case reflect.Map, reflect.Slice:
		if elem.IsNil() || (elem.Kind() == reflect.Slice && elem.Type().Elem().Kind() == reflect.Uint8) {
			body, err = e.wrapped(elem)
		} else {
			body, err = e.body(elem)
		}
	default:
		body, err = e.wrapped(elem)
	}
	if err != nil {
		return nil, err
	}
	e.refs[idx] = body
	return refNode(idx), nil
}

func (e *encoder) wrapped(v reflect.Value) (json.RawMessage, error) {
	node, err := e.encode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"p":`)
	buf.Write(node)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *encoder) body(v reflect.Value) (json.RawMessage, error) {
	var buf bytes.Buffer
	switch v.Kind() {
	case reflect.Map:
		keys, err := sortedKeys(v)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`{"o":{`)
		for i, k := range keys {
			if i > 0 {
				if keys[i-1].name == k.name {
					return nil, fmt.Errorf("%w: duplicate member %q", ErrUnsupportedValue, k.name)
				}
				buf.WriteByte(',')
			}
			node, err := e.encode(v.MapIndex(k.value))
			if err != nil {
				return nil, err
			}
			writeMember(&buf, k.name, node)
		}
		buf.WriteString("}}")
	case reflect.Struct:
		fields := structFields(v.Type())
		seen := make(map[string]struct{}, len(fields))
		buf.WriteString(`{"o":{`)
		for i, f := range fields {
			if _, dup := seen[f.name]; dup {
				return nil, fmt.Errorf("%w: duplicate member %q in %s", ErrUnsupportedValue, f.name, v.Type())
			}
			seen[f.name] = struct{}{}
			if i > 0 {
				buf.WriteByte(',')
			}
			node, err := e.encode(v.Field(f.index))
			if err != nil {
				return nil, err
			}
			writeMember(&buf, f.name, node)
		}
		buf.WriteString("}}")
	case reflect.Slice, reflect.Array:
		buf.WriteString(`{"a":[`)
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			node, err := e.encode(v.Index(i))
			if err != nil {
				return nil, err
			}
			buf.Write(node)
		}
		buf.WriteString("]}")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
	}
	return buf.Bytes(), nil
}

// marshaled encodes values that implement json.Marshaler or
// encoding.TextMarshaler. Objects and arrays go into a "j" entry so they
// cannot be mistaken for references.
func (e *encoder) marshaled(v reflect.Value) (json.RawMessage, error) {
	data, err := json.Marshal(v.Interface())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedValue, v.Type(), err)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		idx := e.reserve(nil)
		var buf bytes.Buffer
		buf.WriteString(`{"j":`)
		buf.Write(data)
		buf.WriteByte('}')
		e.refs[idx] = buf.Bytes()
		return refNode(idx), nil
	}
	return data, nil
}

func isMarshaler(t reflect.Type) bool {
	return t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType)
}

func encodeFloat(f float64, bits int) (json.RawMessage, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}
	b := strconv.AppendFloat(nil, f, 'g', -1, bits)
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, '.', '0')
	}
	return b, nil
}

// encodeString rejects invalid UTF-8, which encoding/json would otherwise
// replace with U+FFFD.
func encodeString(str string) (json.RawMessage, error) {
	if !utf8.ValidString(str) {
		return nil, fmt.Errorf("%w: invalid UTF-8 in string %q", ErrUnsupportedValue, str)
	}
	return json.Marshal(str)
}

func refNode(idx int) json.RawMessage {
	b := make([]byte, 0, 12)
	b = append(b, `{"$":`...)
	b = strconv.AppendInt(b, int64(idx), 10)
	return append(b, '}')
}

func writeMember(buf *bytes.Buffer, name string, node json.RawMessage) {
	key, _ := json.Marshal(name)
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(node)
}

type mapKey struct {
	name  string
	value reflect.Value
}

func sortedKeys(v reflect.Value) ([]mapKey, error) {
	keys := make([]mapKey, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		name, err := keyString(iter.Key())
		if err != nil {
			return nil, err
		}
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("%w: invalid UTF-8 in map key %q", ErrUnsupportedValue, name)
		}
		keys = append(keys, mapKey{name: name, value: iter.Key()})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].name < keys[j].name })
	return keys, nil
}

func keyString(k reflect.Value) (string, error) {
	if k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.Type().Implements(textMarshalerType) {
		if k.Kind() == reflect.Pointer && k.IsNil() {
			return "", nil
		}
		text, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", fmt.Errorf("%w: map key: %v", ErrUnsupportedValue, err)
		}
		return string(text), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("%w: map key %s", ErrUnsupportedType, k.Type())
}

func parseKey(name string, kt reflect.Type) (reflect.Value, error) {
	if kt.Kind() == reflect.String {
		return reflect.ValueOf(name).Convert(kt), nil
	}
	if kt.Kind() == reflect.Interface && kt.NumMethod() == 0 {
		return reflect.ValueOf(name), nil
	}
	if reflect.PointerTo(kt).Implements(textUnmarshalerType) {
		k := reflect.New(kt)
		if err := k.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(name)); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: map key %q: %v", ErrMalformed, name, err)
		}
		return k.Elem(), nil
	}
	switch kt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(name, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: map key %q: %v", ErrMalformed, name, err)
		}
		return reflect.ValueOf(n).Convert(kt), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(name, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: map key %q: %v", ErrMalformed, name, err)
		}
		return reflect.ValueOf(n).Convert(kt), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: map key %s", ErrUnsupportedType, kt)
}

type field struct {
	name  string
	index int
}

var fieldCache sync.Map // reflect.Type -> []field

// structFields lists the exported fields of t, named by their json tag when
// one is present. Embedded structs are kept as a single named field.
func structFields(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}
	fields := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		fields = append(fields, field{name: name, index: i})
	}
	fieldCache.Store(t, fields)
	return fields
}

type entry struct {
	kind   byte
	body   json.RawMessage
	fields map[string]json.RawMessage
	items  []json.RawMessage
}

func (e *entry) object() (map[string]json.RawMessage, error) {
	if e.fields == nil {
		if err := json.Unmarshal(e.body, &e.fields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if e.fields == nil {
			e.fields = map[string]json.RawMessage{}
		}
	}
	return e.fields, nil
}

func (e *entry) sequence() ([]json.RawMessage, error) {
	if e.items == nil {
		if err := json.Unmarshal(e.body, &e.items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if e.items == nil {
			e.items = []json.RawMessage{}
		}
	}
	return e.items, nil
}

type typedRef struct {
	idx int
	typ reflect.Type
}

type decoder struct {
	raw     []json.RawMessage
	parsed  []*entry
	dynamic map[int]any
	typed   map[typedRef]reflect.Value
	depth   int
}

func (d *decoder) enter() error {
	if d.depth >= MaxDepth {
		return ErrTooDeep
	}
	d.depth++
	return nil
}

func (d *decoder) leave() { d.depth-- }

func (d *decoder) entry(idx int) (*entry, error) {
	if idx < 0 || idx >= len(d.raw) {
		return nil, fmt.Errorf("%w: reference %d out of range", ErrMalformed, idx)
	}
	if e := d.parsed[idx]; e != nil {
		return e, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(d.raw[idx], &m); err != nil || len(m) != 1 {
		return nil, fmt.Errorf("%w: entry %d", ErrMalformed, idx)
	}
	for kind, body := range m {
		if len(kind) != 1 || !strings.Contains("oapj", kind) {
			return nil, fmt.Errorf("%w: entry %d has kind %q", ErrMalformed, idx, kind)
		}
		e := &entry{kind: kind[0], body: body}
		d.parsed[idx] = e
		return e, nil
	}
	return nil, fmt.Errorf("%w: entry %d", ErrMalformed, idx)
}

// refIndex reports whether raw is a reference node and returns its index.
func refIndex(raw json.RawMessage) (int, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return 0, false, nil
	}
	var ref struct {
		Index *int `json:"$"`
	}
	if err := json.Unmarshal(raw, &ref); err != nil || ref.Index == nil {
		return 0, false, fmt.Errorf("%w: invalid reference %s", ErrMalformed, raw)
	}
	return *ref.Index, true, nil
}

func (d *decoder) dynamicNode(raw json.RawMessage) (any, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	idx, isRef, err := refIndex(raw)
	if err != nil {
		return nil, err
	}
	if !isRef {
		return dynamicJSON(raw)
	}
	return d.dynamicRef(idx)
}

func (d *decoder) dynamicRef(idx int) (any, error) {
	if v, ok := d.dynamic[idx]; ok {
		return v, nil
	}
	e, err := d.entry(idx)
	if err != nil {
		return nil, err
	}

	switch e.kind {
	case 'o':
		fields, err := e.object()
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(fields))
		d.dynamic[idx] = out
		for name, node := range fields {
			v, err := d.dynamicNode(node)
			if err != nil {
				return nil, err
			}
			out[name] = v
		}
		return out, nil
	case 'a':
		items, err := e.sequence()
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		d.dynamic[idx] = out
		for i, node := range items {
			v, err := d.dynamicNode(node)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case 'p':
		// A pointer that reaches itself has no dynamic form; it resolves to nil.
		d.dynamic[idx] = nil
		v, err := d.dynamicNode(e.body)
		if err != nil {
			return nil, err
		}
		d.dynamic[idx] = v
		return v, nil
	default:
		v, err := dynamicJSON(e.body)
		if err != nil {
			return nil, err
		}
		d.dynamic[idx] = v
		return v, nil
	}
}

func (d *decoder) value(raw json.RawMessage, v reflect.Value) error {
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()

	idx, isRef, err := refIndex(raw)
	if err != nil {
		return err
	}
	if isRef {
		return d.ref(idx, v)
	}
	return decodeScalar(raw, v)
}

func (d *decoder) ref(idx int, v reflect.Value) error {
	t := v.Type()
	if t.Kind() == reflect.Interface || t == anyMapType || t == anySliceType {
		if t.Kind() == reflect.Interface && t.NumMethod() != 0 {
			return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
		}
		x, err := d.dynamicRef(idx)
		if err != nil {
			return err
		}
		return assignDynamic(x, v)
	}

	e, err := d.entry(idx)
	if err != nil {
		return err
	}
	if e.kind == 'j' {
		return decodeScalar(e.body, v)
	}

	key := typedRef{idx: idx, typ: t}
	switch t.Kind() {
	case reflect.Pointer:
		if p, ok := d.typed[key]; ok {
			v.Set(p)
			return nil
		}
		p := reflect.New(t.Elem())
		d.typed[key] = p
		v.Set(p)
		if e.kind == 'p' {
			return d.value(e.body, p.Elem())
		}
		return d.fill(e, p.Elem())
	case reflect.Map:
		if m, ok := d.typed[key]; ok {
			v.Set(m)
			return nil
		}
		if e.kind != 'o' {
			return mismatch(e, t)
		}
		m := reflect.MakeMap(t)
		d.typed[key] = m
		v.Set(m)
		return d.fill(e, m)
	case reflect.Slice:
		if s, ok := d.typed[key]; ok {
			v.Set(s)
			return nil
		}
		if e.kind != 'a' {
			return mismatch(e, t)
		}
		items, err := e.sequence()
		if err != nil {
			return err
		}
		s := reflect.MakeSlice(t, len(items), len(items))
		d.typed[key] = s
		v.Set(s)
		return d.fillSequence(items, s)
	default:
		if e.kind == 'p' {
			return d.value(e.body, v)
		}
		return d.fill(e, v)
	}
}

func (d *decoder) fill(e *entry, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		if e.kind != 'o' {
			return mismatch(e, v.Type())
		}
		fields, err := e.object()
		if err != nil {
			return err
		}
		for _, f := range structFields(v.Type()) {
			node, ok := fields[f.name]
			if !ok {
				continue
			}
			if err := d.value(node, v.Field(f.index)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if e.kind != 'o' {
			return mismatch(e, v.Type())
		}
		fields, err := e.object()
		if err != nil {
			return err
		}
		if v.IsNil() {
			v.Set(reflect.MakeMapWithSize(v.Type(), len(fields)))
		}
		t := v.Type()
		for name, node := range fields {
			k, err := parseKey(name, t.Key())
			if err != nil {
				return err
			}
			elem := reflect.New(t.Elem()).Elem()
			if err := d.value(node, elem); err != nil {
				return err
			}
			v.SetMapIndex(k, elem)
		}
		return nil
	case reflect.Slice:
		if e.kind != 'a' {
			return mismatch(e, v.Type())
		}
		items, err := e.sequence()
		if err != nil {
			return err
		}
		v.Set(reflect.MakeSlice(v.Type(), len(items), len(items)))
		return d.fillSequence(items, v)
	case reflect.Array:
		if e.kind != 'a' {
			return mismatch(e, v.Type())
		}
		items, err := e.sequence()
		if err != nil {
			return err
		}
		return d.fillSequence(items[:min(len(items), v.Len())], v)
	default:
		return mismatch(e, v.Type())
	}
}

func (d *decoder) fillSequence(items []json.RawMessage, v reflect.Value) error {
	for i, node := range items {
		if err := d.value(node, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func mismatch(e *entry, t reflect.Type) error {
	return fmt.Errorf("%w: cannot decode %q entry into %s", ErrMalformed, e.kind, t)
}

func assignDynamic(x any, v reflect.Value) error {
	if x == nil {
		v.SetZero()
		return nil
	}
	xv := reflect.ValueOf(x)
	if !xv.Type().AssignableTo(v.Type()) {
		return fmt.Errorf("%w: cannot decode %s into %s", ErrMalformed, xv.Type(), v.Type())
	}
	v.Set(xv)
	return nil
}

func decodeScalar(raw json.RawMessage, v reflect.Value) error {
	if bytes.Equal(bytes.TrimSpace(raw), nullNode) {
		v.SetZero()
		return nil
	}
	if v.Kind() == reflect.Interface {
		if v.NumMethod() != 0 {
			return fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
		}
		x, err := dynamicJSON(raw)
		if err != nil {
			return err
		}
		return assignDynamic(x, v)
	}
	ptr := reflect.New(v.Type())
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	v.Set(ptr.Elem())
	return nil
}

// dynamicJSON decodes plain JSON into the dynamic model.
func dynamicJSON(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return normalize(v), nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		return number(x)
	case map[string]any:
		for k, item := range x {
			x[k] = normalize(item)
		}
		return x
	case []any:
		for i, item := range x {
			x[i] = normalize(item)
		}
		return x
	default:
		return v
	}
}

func number(n json.Number) any {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 0); err == nil {
			return int(i)
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u
		}
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
