package amisform

import (
	"context"
	"strings"

	"github.com/reoring/amisform/node"
)

// Rule is one entry of a RuleSet.
type Rule struct {
	Name  string
	Param *node.Node
}

// RuleSet is the canonical, ordered rule list of one field. Names are unique.
type RuleSet []Rule

// Get returns the parameter of the named rule.
func (rs RuleSet) Get(name string) (*node.Node, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r.Param, true
		}
	}
	return nil, false
}

// Names lists the rule names in order.
func (rs RuleSet) Names() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

// set replaces the parameter of an existing rule in place or appends a new
// rule.
func (rs *RuleSet) set(name string, param *node.Node) {
	for i := range *rs {
		if (*rs)[i].Name == name {
			(*rs)[i].Param = param
			return
		}
	}
	*rs = append(*rs, Rule{Name: name, Param: param})
}

// Gate kinds.
const (
	GateRequireOn = "requireOn"
	GateVisibleOn = "visibleOn"
	GateHiddenOn  = "hiddenOn"
	GateFormRule  = "rule"
)

// Gate decides a conditional expression attached to a field. evaluated is
// false when conditions are switched off; the condition is then ignored.
type Gate func(ctx context.Context, kind, expression string) (met, evaluated bool)

// Visibility reports whether a field takes part in validation and, when it
// does not, which setting hid it.
type Visibility struct {
	Hidden bool
	By     string // visible, hidden, visibleOn or hiddenOn
}

// flag keys that steer normalization instead of naming a predicate
var controlKeys = map[string]bool{"required": true, "visible": true, "hidden": true}

// Normalize resolves the rule set and visibility of a field schema.
//
// Object validations are taken in document order; the legacy string form
// "required,maxLength:10" is split on commas and each part on its first
// colon. A truthy required flag (top level or inside validations) or a
// requireOn condition that holds sets isRequired. Rules whose parameter is
// false or null are switched off and left out.
//
// Visibility is decided after the rule set is built: visible falsy or hidden
// truthy (top level or inside validations) hide the field, then visibleOn and
// hiddenOn are consulted. A nil gate ignores every condition.
func Normalize(ctx context.Context, field *node.Node, gate Gate) (RuleSet, Visibility) {
	if gate == nil {
		gate = func(context.Context, string, string) (bool, bool) { return false, false }
	}
	validations := parseValidations(field.Get("validations"))

	var rs RuleSet
	for _, m := range validations.Members() {
		if controlKeys[m.Key] || disabledParam(m.Value) {
			continue
		}
		rs.set(m.Key, m.Value)
	}

	required := field.Get("required").Truthy() || validations.Get("required").Truthy()
	if !required {
		required = condition(ctx, gate, GateRequireOn, field.Get("requireOn"))
	}
	if required {
		rs.set("isRequired", node.Bool(true))
	}

	return rs, visibility(ctx, field, validations, gate)
}

func visibility(ctx context.Context, field, validations *node.Node, gate Gate) Visibility {
	for _, src := range []*node.Node{field, validations} {
		if v := src.Get("visible"); !v.IsMissing() && !v.Truthy() {
			return Visibility{Hidden: true, By: "visible"}
		}
		if src.Get("hidden").Truthy() {
			return Visibility{Hidden: true, By: "hidden"}
		}
	}
	if v := field.Get(GateVisibleOn); !v.IsMissing() {
		if met, ok := evaluate(ctx, gate, GateVisibleOn, v); ok && !met {
			return Visibility{Hidden: true, By: GateVisibleOn}
		}
	}
	if condition(ctx, gate, GateHiddenOn, field.Get(GateHiddenOn)) {
		return Visibility{Hidden: true, By: GateHiddenOn}
	}
	return Visibility{}
}

// condition reports whether a conditional setting holds. Missing settings
// and ignored conditions never hold.
func condition(ctx context.Context, gate Gate, kind string, v *node.Node) bool {
	met, ok := evaluate(ctx, gate, kind, v)
	return ok && met
}

// evaluate decides an expression string through the gate. Literal booleans
// and numbers are taken at face value.
func evaluate(ctx context.Context, gate Gate, kind string, v *node.Node) (met, ok bool) {
	switch v.Kind() {
	case node.KindMissing, node.KindNull:
		return false, false
	case node.KindString:
		if strings.TrimSpace(v.Text()) == "" {
			return false, false
		}
		return gate(ctx, kind, v.Text())
	default:
		return v.Truthy(), true
	}
}

// parseValidations returns validations as an object node, converting the
// legacy comma separated string form.
func parseValidations(v *node.Node) *node.Node {
	switch {
	case v.IsObject():
		return v
	case v.IsString():
		var members []node.Member
		for _, part := range strings.Split(v.Text(), ",") {
			name, param, hasParam := strings.Cut(part, ":")
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			val := node.Bool(true)
			if hasParam {
				val = node.String(param)
			}
			members = append(members, node.Member{Key: name, Value: val})
		}
		return node.Object(members...)
	}
	return nil
}

// disabledParam reports whether a rule is switched off by its parameter.
func disabledParam(p *node.Node) bool {
	return p.IsNull() || (p.IsBool() && !p.BoolValue())
}
