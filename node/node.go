// Package node provides the immutable, order-preserving JSON tree that form
// schemas and submitted data are parsed into.
//
// A nil *Node stands for a missing value. Every accessor is nil-safe, so
// lookups can be chained without intermediate checks:
//
//	form.Get("body").Index(0).Get("name").Text()
package node

import (
	"math"
	"strconv"
	"strings"
)

// Kind discriminates node values.
type Kind int

const (
	KindMissing Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "missing"
	}
}

// Member is one key/value pair of an object node.
type Member struct {
	Key   string
	Value *Node
}

// Node is a JSON value. Construct nodes with the package constructors; a
// node is never modified after construction and may be shared between
// goroutines.
type Node struct {
	kind    Kind
	text    string // string value, or number literal
	num     float64
	b       bool
	items   []*Node
	members []Member
	index   map[string]int
}

var (
	nullNode  = &Node{kind: KindNull}
	trueNode  = &Node{kind: KindBool, b: true}
	falseNode = &Node{kind: KindBool, b: false}
)

// Null returns the JSON null node.
func Null() *Node { return nullNode }

// Bool returns a boolean node.
func Bool(b bool) *Node {
	if b {
		return trueNode
	}
	return falseNode
}

// String returns a string node.
func String(s string) *Node { return &Node{kind: KindString, text: s} }

// Number returns a number node for f.
func Number(f float64) *Node {
	return &Node{kind: KindNumber, num: f, text: formatFloat(f)}
}

// NumberLiteral returns a number node keeping the literal text as written in
// the source document.
func NumberLiteral(lit string) (*Node, error) {
	f, err := parseNumber(lit)
	if err != nil {
		return nil, err
	}
	return &Node{kind: KindNumber, num: f, text: lit}, nil
}

// Array returns an array node holding items in order. Nil items become null.
func Array(items ...*Node) *Node {
	cp := make([]*Node, len(items))
	for i, it := range items {
		if it == nil {
			it = nullNode
		}
		cp[i] = it
	}
	return &Node{kind: KindArray, items: cp}
}

// Object returns an object node. A repeated key keeps the position of its
// first occurrence and the value of its last one.
func Object(members ...Member) *Node {
	n := &Node{kind: KindObject, members: make([]Member, 0, len(members)), index: make(map[string]int, len(members))}
	for _, m := range members {
		v := m.Value
		if v == nil {
			v = nullNode
		}
		if i, ok := n.index[m.Key]; ok {
			n.members[i].Value = v
			continue
		}
		n.index[m.Key] = len(n.members)
		n.members = append(n.members, Member{Key: m.Key, Value: v})
	}
	return n
}

// Kind reports the node kind; KindMissing for a nil node.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindMissing
	}
	return n.kind
}

func (n *Node) IsMissing() bool { return n.Kind() == KindMissing }
func (n *Node) IsNull() bool    { return n.Kind() == KindNull }
func (n *Node) IsObject() bool  { return n.Kind() == KindObject }
func (n *Node) IsArray() bool   { return n.Kind() == KindArray }
func (n *Node) IsString() bool  { return n.Kind() == KindString }
func (n *Node) IsNumber() bool  { return n.Kind() == KindNumber }
func (n *Node) IsBool() bool    { return n.Kind() == KindBool }

// IsNullish reports whether the node is missing or null.
func (n *Node) IsNullish() bool {
	k := n.Kind()
	return k == KindMissing || k == KindNull
}

// IsScalar reports whether the node is a leaf value (including null).
func (n *Node) IsScalar() bool {
	switch n.Kind() {
	case KindNull, KindBool, KindNumber, KindString:
		return true
	}
	return false
}

// Get returns the member value for key, or nil when n is not an object or
// has no such key.
func (n *Node) Get(key string) *Node {
	if n.Kind() != KindObject {
		return nil
	}
	if i, ok := n.index[key]; ok {
		return n.members[i].Value
	}
	return nil
}

// Has reports whether n is an object containing key.
func (n *Node) Has(key string) bool {
	if n.Kind() != KindObject {
		return false
	}
	_, ok := n.index[key]
	return ok
}

// Keys returns object keys in document order.
func (n *Node) Keys() []string {
	if n.Kind() != KindObject {
		return nil
	}
	out := make([]string, len(n.members))
	for i, m := range n.members {
		out[i] = m.Key
	}
	return out
}

// Members returns a copy of the object members in document order.
func (n *Node) Members() []Member {
	if n.Kind() != KindObject {
		return nil
	}
	return append([]Member(nil), n.members...)
}

// Items returns a copy of the array elements.
func (n *Node) Items() []*Node {
	if n.Kind() != KindArray {
		return nil
	}
	return append([]*Node(nil), n.items...)
}

// Index returns the i-th array element or nil.
func (n *Node) Index(i int) *Node {
	if n.Kind() != KindArray || i < 0 || i >= len(n.items) {
		return nil
	}
	return n.items[i]
}

// Len returns the number of array elements or object members.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindArray:
		return len(n.items)
	case KindObject:
		return len(n.members)
	}
	return 0
}

// Text returns the textual form of a scalar: the string itself, the number
// literal, "true"/"false". Null, missing and containers yield "".
func (n *Node) Text() string {
	switch n.Kind() {
	case KindString, KindNumber:
		return n.text
	case KindBool:
		if n.b {
			return "true"
		}
		return "false"
	}
	return ""
}

// BoolValue returns the boolean payload; false for non-boolean nodes.
func (n *Node) BoolValue() bool { return n.Kind() == KindBool && n.b }

// Float coerces the node to a float64 the lenient way: numbers as is,
// numeric strings parsed, booleans as 1/0, everything else 0.
func (n *Node) Float() float64 {
	switch n.Kind() {
	case KindNumber:
		return n.num
	case KindString:
		if f, err := parseNumber(strings.TrimSpace(n.text)); err == nil {
			return f
		}
	case KindBool:
		if n.b {
			return 1
		}
	}
	return 0
}

// Numeric returns the numeric value of a number node or of a string holding
// a number. ok is false for anything else.
func (n *Node) Numeric() (float64, bool) {
	switch n.Kind() {
	case KindNumber:
		return n.num, true
	case KindString:
		f, err := parseNumber(strings.TrimSpace(n.text))
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int coerces the node to an int, truncating fractions.
func (n *Node) Int() int {
	if n.Kind() == KindString {
		s := strings.TrimSpace(n.text)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
	}
	f := n.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// Truthy coerces the node to a boolean: booleans as is, non-zero numbers,
// and the string "true". Everything else is false.
func (n *Node) Truthy() bool {
	switch n.Kind() {
	case KindBool:
		return n.b
	case KindNumber:
		return n.num != 0
	case KindString:
		return strings.TrimSpace(n.text) == "true"
	}
	return false
}

// Equal reports structural equality. Numbers compare by value and object
// member order is not significant.
func (n *Node) Equal(o *Node) bool {
	if n.Kind() != o.Kind() {
		return false
	}
	switch n.Kind() {
	case KindMissing, KindNull:
		return true
	case KindBool:
		return n.b == o.b
	case KindNumber:
		return n.num == o.num
	case KindString:
		return n.text == o.text
	case KindArray:
		if len(n.items) != len(o.items) {
			return false
		}
		for i := range n.items {
			if !n.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(n.members) != len(o.members) {
			return false
		}
		for _, m := range n.members {
			ov, ok := o.index[m.Key]
			if !ok || !m.Value.Equal(o.members[ov].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts the node into plain Go values: map[string]any,
// []any, string, float64, bool or nil.
func (n *Node) Interface() any {
	switch n.Kind() {
	case KindBool:
		return n.b
	case KindNumber:
		return n.num
	case KindString:
		return n.text
	case KindArray:
		out := make([]any, len(n.items))
		for i, it := range n.items {
			out[i] = it.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(n.members))
		for _, m := range n.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	}
	return nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// parseNumber accepts JSON numbers plus the hex/octal/binary integer
// literals the YAML driver can hand over.
func parseNumber(s string) (float64, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	i, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return float64(i), nil
}
