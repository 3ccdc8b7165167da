package tree

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON writes the leaf value as-is.
func (l Leaf) MarshalJSON() ([]byte, error) {
	return marshal(l.Value)
}

// MarshalJSON writes the values as an array.
func (l LeafList) MarshalJSON() ([]byte, error) {
	values := l.Values
	if values == nil {
		values = []interface{}{}
	}
	return marshal(values)
}

// MarshalJSON writes {label: {key: child, ...}, ...} keeping insertion order
// at every level.
func (b *Branch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range b.dims {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, d.Label); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, key := range d.keys {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, key); err != nil {
				return nil, err
			}
			child, err := marshal(d.children[key])
			if err != nil {
				return nil, err
			}
			buf.Write(child)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

// marshal encodes v without HTML escaping so labels such as "R&D" stay literal.
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
