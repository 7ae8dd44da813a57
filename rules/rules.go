// Package rules is the catalog of amis validation predicates.
//
// A predicate answers one question about a single field value and never
// fails: absent, null or wrong-typed input is a plain false. Rules are looked
// up by name through a Registry; Builtin returns the default catalog and
// Registry.With derives extended catalogs without touching the receiver.
package rules

import (
	"sort"

	"github.com/reoring/amisform/node"
)

// Param is the rule parameter as written in the schema.
type Param struct{ raw *node.Node }

// NewParam wraps a schema value as a rule parameter.
func NewParam(n *node.Node) Param { return Param{raw: n} }

// Node returns the parameter as written.
func (p Param) Node() *node.Node { return p.raw }

// Int reads the parameter as an integer ("10" and 10 both give 10).
func (p Param) Int() int { return p.raw.Int() }

// Float reads the parameter as a float64; non-numeric text gives 0.
func (p Param) Float() float64 { return p.raw.Float() }

// Text reads the parameter as text.
func (p Param) Text() string { return p.raw.Text() }

// Predicate describes one named rule.
type Predicate struct {
	Name string
	// Substitute reports whether the parameter text replaces $1 in the
	// violation message.
	Substitute bool
	// Message names the message table entry; empty means Name.
	Message string
	Check   func(value *node.Node, p Param) bool
}

// MessageKey returns the message table key for the rule.
func (p Predicate) MessageKey() string {
	if p.Message != "" {
		return p.Message
	}
	return p.Name
}

// Registry maps rule names to predicates. A Registry is immutable.
type Registry struct {
	byName map[string]Predicate
}

// NewRegistry builds a registry from the given predicates. Later entries
// replace earlier ones with the same name.
func NewRegistry(ps ...Predicate) *Registry {
	r := &Registry{byName: make(map[string]Predicate, len(ps))}
	for _, p := range ps {
		if p.Name == "" || p.Check == nil {
			continue
		}
		r.byName[p.Name] = p
	}
	return r
}

// With returns a new registry holding r's predicates plus ps.
func (r *Registry) With(ps ...Predicate) *Registry {
	all := make([]Predicate, 0, r.Len()+len(ps))
	if r != nil {
		for _, p := range r.byName {
			all = append(all, p)
		}
	}
	return NewRegistry(append(all, ps...)...)
}

// Lookup returns the predicate registered under name.
func (r *Registry) Lookup(name string) (Predicate, bool) {
	if r == nil {
		return Predicate{}, false
	}
	p, ok := r.byName[name]
	return p, ok
}

// Len reports the number of registered rules.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byName)
}

// Names lists the registered rule names in lexical order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var builtin = NewRegistry(builtinPredicates()...)

// Builtin returns the default rule catalog.
func Builtin() *Registry { return builtin }

func flag(name string, fn func(*node.Node) bool) Predicate {
	return Predicate{Name: name, Check: func(v *node.Node, _ Param) bool { return fn(v) }}
}

func withInt(name string, fn func(*node.Node, int) bool) Predicate {
	return Predicate{Name: name, Substitute: true, Check: func(v *node.Node, p Param) bool { return fn(v, p.Int()) }}
}

func withFloat(name string, fn func(*node.Node, float64) bool) Predicate {
	return Predicate{Name: name, Substitute: true, Check: func(v *node.Node, p Param) bool { return fn(v, p.Float()) }}
}

func withString(name string, fn func(*node.Node, string) bool) Predicate {
	return Predicate{Name: name, Substitute: true, Check: func(v *node.Node, p Param) bool { return fn(v, p.Text()) }}
}

func builtinPredicates() []Predicate {
	ps := []Predicate{
		flag("isRequired", IsRequired),
		flag("isExisty", IsExisty),
		flag("isEmail", IsEmail),
		flag("isUrl", IsURL),
		flag("isInt", IsInt),
		flag("isFloat", IsFloat),
		flag("isAlpha", IsAlpha),
		flag("isAlphanumeric", IsAlphanumeric),
		flag("isNumeric", IsNumeric),
		flag("isWords", IsWords),
		flag("isSpecialWords", IsSpecialWords),
		flag("isUrlPath", IsURLPath),
		flag("isJson", IsJSON),
		flag("isPhoneNumber", IsPhoneNumber),
		flag("isTelNumber", IsTelNumber),
		flag("isZipcode", IsZipcode),
		flag("isId", IsID),
		flag("notEmptyString", NotEmptyString),
		flag("isTrue", IsTrue),
		flag("isFalse", IsFalse),
		flag("isEmptyString", IsEmptyString),
		flag("isUndefined", IsUndefined),
		withInt("isLength", IsLength),
		withInt("minLength", MinLength),
		withInt("maxLength", MaxLength),
		withFloat("maximum", Maximum),
		withFloat("minimum", Minimum),
		withFloat("lt", Lt),
		withFloat("gt", Gt),
		withString("matchRegexp", MatchRegexp),
		withString("equalsField", EqualsField),
		{Name: "equals", Substitute: true, Check: func(v *node.Node, p Param) bool { return Equals(v, p.Node()) }},
	}
	for i := 1; i <= 9; i++ {
		p := withString("matchRegexp"+string(rune('0'+i)), MatchRegexp)
		p.Message = "matchRegexp"
		ps = append(ps, p)
	}
	return ps
}
