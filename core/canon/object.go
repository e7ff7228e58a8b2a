package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// members remembers the parts of a JSON object that a document type does not
// model: the values of unknown keys and the order every key appeared in. It is
// embedded in each document level so a load/save cycle keeps data the merger
// does not own.
type members struct {
	order []string
	extra map[string]json.RawMessage
}

// Extra returns the raw value of an unmodelled member.
func (m *members) Extra(key string) (json.RawMessage, bool) {
	raw, ok := m.extra[key]
	return raw, ok
}

// SetExtra sets an unmodelled member. New keys are written after the existing
// ones.
func (m *members) SetExtra(key string, raw json.RawMessage) {
	if m.extra == nil {
		m.extra = make(map[string]json.RawMessage)
	}
	m.extra[key] = raw
}

// ExtraKeys returns the unmodelled member keys in document order.
func (m *members) ExtraKeys() []string {
	var keys []string
	seen := make(map[string]bool, len(m.extra))
	for _, k := range m.order {
		if _, ok := m.extra[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m.extra {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// object is a JSON object split into members, in order.
type object struct {
	order  []string
	values map[string]json.RawMessage
}

func decodeObject(data []byte) (*object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, found %v", tok)
	}

	obj := &object{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if _, dup := obj.values[key]; !dup {
			obj.order = append(obj.order, key)
		}
		obj.values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

// take decodes member key into dst and removes it from the object. A missing
// member leaves dst untouched.
func (o *object) take(key string, dst any) error {
	raw, ok := o.values[key]
	if !ok {
		return nil
	}
	delete(o.values, key)
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// rest returns the members left after every take, with the original key order.
func (o *object) rest() members {
	m := members{order: o.order}
	if len(o.values) > 0 {
		m.extra = o.values
	}
	return m
}

// member is one modelled field to encode.
type member struct {
	key   string
	value any
	omit  bool
}

// encode writes known and unmodelled members as one JSON object. Keys seen at
// decode time keep their position; other known keys follow in declaration
// order, then any remaining unmodelled keys.
func (m *members) encode(known ...member) ([]byte, error) {
	byKey := make(map[string]member, len(known))
	for _, km := range known {
		byKey[km.key] = km
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	written := make(map[string]bool, len(known)+len(m.extra))
	emit := func(key string) error {
		if written[key] {
			return nil
		}
		var raw []byte
		if km, ok := byKey[key]; ok {
			written[key] = true
			if km.omit {
				return nil
			}
			b, err := marshalValue(km.value)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			raw = b
		} else if v, ok := m.extra[key]; ok {
			written[key] = true
			raw = v
		} else {
			return nil
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := marshalValue(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(raw)
		return nil
	}

	for _, key := range m.order {
		if err := emit(key); err != nil {
			return nil, err
		}
	}
	for _, km := range known {
		if err := emit(km.key); err != nil {
			return nil, err
		}
	}
	for _, key := range m.ExtraKeys() {
		if err := emit(key); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalValue encodes v without HTML escaping, so note text keeps its angle
// brackets and ampersands as written.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
