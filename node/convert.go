package node

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// FromValue converts a plain Go value into a node. Map keys are sorted since
// Go maps carry no order. Values of other types are round-tripped through
// JSON encoding.
func FromValue(v any) *Node {
	switch x := v.(type) {
	case nil:
		return nullNode
	case *Node:
		if x == nil {
			return nullNode
		}
		return x
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case stdjson.Number:
		if n, err := NumberLiteral(x.String()); err == nil {
			return n
		}
		return String(x.String())
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case []any:
		items := make([]*Node, len(x))
		for i, it := range x {
			items[i] = FromValue(it)
		}
		return Array(items...)
	case []string:
		items := make([]*Node, len(x))
		for i, it := range x {
			items[i] = String(it)
		}
		return Array(items...)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ms := make([]Member, len(keys))
		for i, k := range keys {
			ms[i] = Member{Key: k, Value: FromValue(x[k])}
		}
		return Object(ms...)
	case map[string]string:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ms := make([]Member, len(keys))
		for i, k := range keys {
			ms[i] = Member{Key: k, Value: String(x[k])}
		}
		return Object(ms...)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return String(fmt.Sprint(v))
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return String(fmt.Sprint(v))
	}
	return FromValue(generic)
}

// MarshalJSON encodes the node keeping object member order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	switch n.Kind() {
	case KindMissing, KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(n.Text())
	case KindNumber:
		buf.WriteString(formatFloat(n.num))
	case KindString:
		b, err := json.Marshal(n.text)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range n.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// String renders the node as compact JSON.
func (n *Node) String() string {
	b, err := n.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s>", n.Kind())
	}
	return string(b)
}
