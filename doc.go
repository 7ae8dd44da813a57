// Package amisform validates submitted data against amis form schemas on the
// server, with the rule semantics the amis front end applies.
//
// - Locate a form inside a page schema by name (FindForm)
// - Normalize the legacy rule dialects of each field into one RuleSet
// - Decide requireOn/visibleOn/hiddenOn and form-level rules with an expr.Evaluator
// - Run the built-in predicates and report Violations with $1 substitution
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Token drivers live under source/, predicates under rules/, messages under i18n/.
// - Validation never fails: malformed expressions are logged and read as false.
//
// Typical usage:
//
//	v := amisform.New(amisform.WithLanguage("en-US"))
//	vs, err := v.ValidateNamed(ctx, pageJSON, "myForm", dataJSON)
//	if len(vs) > 0 {
//		// reject the submission with vs
//	}
package amisform
