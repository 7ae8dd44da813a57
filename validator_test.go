package amisform_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	amisform "github.com/reoring/amisform"
	"github.com/reoring/amisform/expr"
	"github.com/reoring/amisform/i18n"
	"github.com/reoring/amisform/node"
	"github.com/reoring/amisform/rules"
)

func mustParse(t *testing.T, s string) *node.Node {
	t.Helper()
	n, err := amisform.ParseString(s, amisform.LenientParseOpt())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func validateNamed(t *testing.T, page, data string) amisform.Violations {
	t.Helper()
	vs, err := amisform.New().ValidateNamed(context.Background(), []byte(page), "myForm", []byte(data))
	if err != nil {
		t.Fatalf("ValidateNamed: %v", err)
	}
	return vs
}

const singleValidatorPage = `{
  "type": "page",
  "body": {
    "type": "form",
    "name": "myForm",
    "api": "/api/mock2/form/saveForm",
    "body": [
      {
        "type": "input-text",
        "label": "文本",
        "name": "text",
        "validations": {"isNumeric": true},
        "description": "请输入数字类型文本"
      }
    ]
  }
}`

func TestValidate_SingleValidator(t *testing.T) {
	vs := validateNamed(t, singleValidatorPage, `{"text": "a"}`)
	if len(vs) != 1 || vs[0].Message != "请输入数字" || vs[0].Field != "text" || vs[0].Rule != "isNumeric" {
		t.Fatalf("unexpected violations: %+v", vs)
	}
}

func TestValidate_CustomMessage(t *testing.T) {
	page := `{
	  "type": "page",
	  "body": {
	    "type": "form", "name": "myForm",
	    "body": [{
	      "type": "input-text", "name": "text",
	      "validations": {"isNumeric": true},
	      "validationErrors": {"isNumeric": "同学，请输入数字哈"}
	    }]
	  }
	}`
	vs := validateNamed(t, page, `{"text": "a"}`)
	if len(vs) != 1 || vs[0].Message != "同学，请输入数字哈" {
		t.Fatalf("unexpected violations: %+v", vs)
	}
}

func TestValidate_RequireOn(t *testing.T) {
	page := `{
	  "type": "page",
	  "body": {
	    "type": "form", "name": "myForm",
	    "body": [{"type": "input-text", "name": "text", "requireOn": "this.a == 1"}]
	  }
	}`
	vs := validateNamed(t, page, `{"a": 1}`)
	if len(vs) != 1 || vs[0].Message != "这是必填项" {
		t.Fatalf("unexpected violations: %+v", vs)
	}
	if vs := validateNamed(t, page, `{"a": 2}`); len(vs) != 0 {
		t.Fatalf("requireOn false should not require: %+v", vs)
	}
}

func TestValidate_HiddenOn(t *testing.T) {
	page := `{
	  "type": "page",
	  "body": {
	    "type": "form", "name": "myForm",
	    "body": [{
	      "type": "input-text", "name": "text",
	      "validations": {"isNumeric": true},
	      "hiddenOn": "this.a == 1"
	    }]
	  }
	}`
	if vs := validateNamed(t, page, `{"a": 1}`); len(vs) != 0 {
		t.Fatalf("hidden field must not be validated: %+v", vs)
	}
	vs := validateNamed(t, page, "")
	if len(vs) != 1 || vs[0].Message != "请输入数字" {
		t.Fatalf("blank data should validate as an empty object: %+v", vs)
	}
}

func TestValidate_FormRules(t *testing.T) {
	page := `{
	  "type": "page",
	  "body": {
	    "type": "form", "name": "myForm",
	    "rules": [{"rule": "!(data.a && data.b)", "message": "a 和 b 不能同时有值"}],
	    "body": [
	      {"type": "input-text", "name": "a", "label": "A"},
	      {"type": "input-text", "name": "b", "label": "B"}
	    ]
	  }
	}`
	vs := validateNamed(t, page, `{"a": "a", "b": "b"}`)
	if len(vs) != 1 || vs[0].Message != "a 和 b 不能同时有值" || vs[0].Field != "" {
		t.Fatalf("unexpected violations: %+v", vs)
	}
	if vs := validateNamed(t, page, `{"a": "a"}`); len(vs) != 0 {
		t.Fatalf("rule holds, want none: %+v", vs)
	}
}

func TestValidate_FormRulesComeFirstAndVerbatim(t *testing.T) {
	form := mustParse(t, "{\n"+
		"  rules: [{rule: 'amount > 0', message: 'must be positive $1'}],\n"+
		"  body: [{name: amount, validations: {maximum: -5}}]\n"+
		"}")
	data := mustParse(t, `{"amount": -1}`)
	vs := amisform.New().Validate(context.Background(), form, data)
	if len(vs) != 2 {
		t.Fatalf("want 2 violations, got %+v", vs)
	}
	if vs[0].Field != "" || vs[0].Message != "must be positive $1" {
		t.Fatalf("form rule must be first and verbatim: %+v", vs[0])
	}
	if vs[1].Field != "amount" || vs[1].Message != "当前输入值超出最大值 -5" {
		t.Fatalf("unexpected field violation: %+v", vs[1])
	}
}

func TestValidate_NoBody(t *testing.T) {
	v := amisform.New()
	for _, src := range []string{`{}`, `{"rules": [{"rule": "false", "message": "x"}]}`, `{"body": "text"}`, `{"body": null}`} {
		if vs := v.Validate(context.Background(), mustParse(t, src), node.Object()); len(vs) != 0 {
			t.Fatalf("%s: want none, got %+v", src, vs)
		}
	}
}

func TestValidate_LegacyControlsAndSingleBody(t *testing.T) {
	v := amisform.New()
	data := node.Object()
	for _, src := range []string{
		`{"controls": [{"name": "x", "required": true}]}`,
		`{"body": {"name": "x", "required": true}}`,
	} {
		vs := v.Validate(context.Background(), mustParse(t, src), data)
		if len(vs) != 1 || vs[0].Rule != "isRequired" {
			t.Fatalf("%s: %+v", src, vs)
		}
	}
}

func TestValidate_FieldsWithoutNameAreSkipped(t *testing.T) {
	form := mustParse(t, `{"body": [{"type": "tpl", "validations": {"isRequired": true}}]}`)
	if vs := amisform.New().Validate(context.Background(), form, node.Object()); len(vs) != 0 {
		t.Fatalf("unnamed field should be skipped: %+v", vs)
	}
}

// failingRule fails for every value and records whether it ran.
func failingRule(ran *bool) rules.Predicate {
	return rules.Predicate{Name: "alwaysFails", Check: func(*node.Node, rules.Param) bool {
		*ran = true
		return false
	}}
}

func TestValidate_HiddenFieldsNeverRunPredicates(t *testing.T) {
	var ran bool
	v := amisform.New(amisform.WithRules(rules.Builtin().With(failingRule(&ran))))
	for _, src := range []string{
		`{"body": [{"name": "x", "hidden": true, "validations": {"alwaysFails": true}}]}`,
		`{"body": [{"name": "x", "visible": false, "validations": {"alwaysFails": true}}]}`,
		`{"body": [{"name": "x", "validations": {"alwaysFails": true, "hidden": true}}]}`,
		`{"body": [{"name": "x", "validations": {"alwaysFails": true, "visible": false}}]}`,
		`{"body": [{"name": "x", "visibleOn": "data.show", "validations": {"alwaysFails": true}}]}`,
		`{"body": [{"name": "x", "required": true, "hiddenOn": "true", "validations": {"alwaysFails": true}}]}`,
	} {
		ran = false
		vs := v.Validate(context.Background(), mustParse(t, src), node.Object())
		if len(vs) != 0 || ran {
			t.Fatalf("%s: ran=%v violations=%+v", src, ran, vs)
		}
	}
}

func TestValidate_LegacyStringMatchesObjectForm(t *testing.T) {
	v := amisform.New()
	legacy := mustParse(t, `{"body": [{"name": "s", "validations": "required,maxLength:10"}]}`)
	object := mustParse(t, `{"body": [{"name": "s", "validations": {"required": true, "maxLength": 10}}]}`)
	for _, d := range []string{`{}`, `{"s": "short"}`, `{"s": "much too long text"}`, `{"s": ""}`} {
		data := mustParse(t, d)
		a := v.Validate(context.Background(), legacy, data)
		b := v.Validate(context.Background(), object, data)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("data %s: legacy %+v != object %+v", d, a, b)
		}
	}
}

func TestValidate_MessageTemplating(t *testing.T) {
	form := mustParse(t, `{"body": [{
	  "name": "s",
	  "validations": {"maxLength": 5},
	  "validationErrors": {"maxLength": "too long, max $1"}
	}]}`)
	vs := amisform.New().Validate(context.Background(), form, mustParse(t, `{"s": "123456"}`))
	if len(vs) != 1 || vs[0].Message != "too long, max 5" {
		t.Fatalf("unexpected violations: %+v", vs)
	}
}

func TestValidate_FlagRulesNeverSubstitute(t *testing.T) {
	form := mustParse(t, `{"body": [{
	  "name": "s",
	  "validations": {"isEmail": true},
	  "validationErrors": {"isEmail": "bad $1"}
	}]}`)
	vs := amisform.New().Validate(context.Background(), form, mustParse(t, `{"s": "nope"}`))
	if len(vs) != 1 || vs[0].Message != "bad $1" {
		t.Fatalf("unexpected violations: %+v", vs)
	}
}

func TestValidate_EqualsReportsEqualsMessage(t *testing.T) {
	form := mustParse(t, `{"body": [{"name": "s", "validations": {"equals": "x"}}]}`)
	vs := amisform.New().Validate(context.Background(), form, mustParse(t, `{"s": "y"}`))
	if len(vs) != 1 || vs[0].Rule != "equals" || vs[0].Message != "输入的数据与 x 不一致" {
		t.Fatalf("unexpected violations: %+v", vs)
	}
}

func TestValidate_MinLengthIsStrict(t *testing.T) {
	form := mustParse(t, `{"body": [{"name": "s", "validations": {"minLength": 3}}]}`)
	v := amisform.New()
	if vs := v.Validate(context.Background(), form, mustParse(t, `{"s": "abc"}`)); len(vs) != 1 {
		t.Fatalf("length == n must fail minLength: %+v", vs)
	}
	if vs := v.Validate(context.Background(), form, mustParse(t, `{"s": "abcd"}`)); len(vs) != 0 {
		t.Fatalf("length > n must pass: %+v", vs)
	}
}

func TestValidate_UnknownRulesAndDisabledParams(t *testing.T) {
	form := mustParse(t, `{"body": [{"name": "s", "validations": {"isFancy": true, "isEmail": false, "isInt": null}}]}`)
	if vs := amisform.New().Validate(context.Background(), form, mustParse(t, `{"s": "x"}`)); len(vs) != 0 {
		t.Fatalf("unknown and disabled rules must not report: %+v", vs)
	}
}

func TestValidate_RoundTripIsEmptyAndIdempotent(t *testing.T) {
	form := mustParse(t, `{"body": [
	  {"name": "email", "required": true, "validations": {"isEmail": true}},
	  {"name": "age", "validations": "isInt,minimum:0,maximum:150"},
	  {"name": "code", "validations": {"matchRegexp": "^[A-Z]{3}$", "isLength": 3}}
	]}`)
	data := mustParse(t, `{"email": "a@b.com", "age": 30, "code": "ABC"}`)
	v := amisform.New()
	first := v.Validate(context.Background(), form, data)
	second := v.Validate(context.Background(), form, data)
	if len(first) != 0 || len(second) != 0 {
		t.Fatalf("valid data reported: %+v / %+v", first, second)
	}
}

func TestValidate_DottedNames(t *testing.T) {
	form := mustParse(t, `{"body": [{"name": "user.email", "validations": {"isEmail": true}}]}`)
	v := amisform.New()
	if vs := v.Validate(context.Background(), form, mustParse(t, `{"user": {"email": "a@b.com"}}`)); len(vs) != 0 {
		t.Fatalf("nested path should resolve: %+v", vs)
	}
	if vs := v.Validate(context.Background(), form, mustParse(t, `{"user.email": "bad"}`)); len(vs) != 1 {
		t.Fatalf("literal dotted key wins: %+v", vs)
	}
}

func TestValidate_BrokenExpressionsAreFalse(t *testing.T) {
	var obs recordingObserver
	v := amisform.New(amisform.WithObserver(&obs))
	form := mustParse(t, `{
	  "rules": [{"rule": "a ==", "message": "broken"}],
	  "body": [{"name": "x", "requireOn": "(((", "validations": {"isInt": true}}]
	}`)
	vs := v.Validate(context.Background(), form, mustParse(t, `{"x": 1}`))
	if len(vs) != 1 || vs[0].Message != "broken" {
		t.Fatalf("broken form rule should report, requireOn should not: %+v", vs)
	}
	if obs.failedGates() != 2 {
		t.Fatalf("want 2 expression failures, got %d", obs.failedGates())
	}
}

func TestValidate_ScriptDisabled(t *testing.T) {
	called := false
	eval := expr.Func(func(context.Context, string, expr.Scope) (bool, error) {
		called = true
		return true, nil
	})
	v := amisform.New(amisform.WithEvaluator(eval), amisform.WithScriptDisabled(true))
	form := mustParse(t, `{
	  "rules": [{"rule": "false", "message": "never"}],
	  "body": [
	    {"name": "a", "requireOn": "true"},
	    {"name": "b", "hiddenOn": "true", "validations": {"isInt": true}}
	  ]
	}`)
	vs := v.Validate(context.Background(), form, mustParse(t, `{"b": "x"}`))
	if called {
		t.Fatalf("evaluator must not be called when scripts are disabled")
	}
	if len(vs) != 1 || vs[0].Field != "b" {
		t.Fatalf("only the ungated isInt should report: %+v", vs)
	}
}

func TestValidate_LiteralConditions(t *testing.T) {
	form := mustParse(t, `{"body": [
	  {"name": "a", "visibleOn": false, "required": true},
	  {"name": "b", "requireOn": true}
	]}`)
	vs := amisform.New().Validate(context.Background(), form, node.Object())
	if len(vs) != 1 || vs[0].Field != "b" {
		t.Fatalf("unexpected violations: %+v", vs)
	}
}

func TestValidateForm_NotFound(t *testing.T) {
	page := mustParse(t, `{"type": "page", "body": {"type": "form", "name": "other"}}`)
	_, err := amisform.New().ValidateForm(context.Background(), page, "myForm", node.Object())
	if !errors.Is(err, amisform.ErrFormNotFound) {
		t.Fatalf("want ErrFormNotFound, got %v", err)
	}
}

func TestValidateNamed_ParseErrors(t *testing.T) {
	v := amisform.New(amisform.WithParseOpt(amisform.ParseOpt{}))
	_, err := v.ValidateNamed(context.Background(), []byte(`{"type": `), "myForm", nil)
	var pe *amisform.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ParseError for the page, got %T %v", err, err)
	}
	_, err = v.ValidateNamed(context.Background(), []byte(singleValidatorPage), "myForm", []byte(`{text: 1}`))
	if !errors.As(err, &pe) {
		t.Fatalf("want *ParseError for strict data, got %T %v", err, err)
	}
}

func TestValidatorWithMessages_DoesNotShareState(t *testing.T) {
	base := amisform.New()
	custom := base.WithMessages(map[string]string{"isRequired": "fill me"})
	form := mustParse(t, `{"body": [{"name": "x", "required": true}]}`)
	if vs := custom.Validate(context.Background(), form, node.Object()); vs[0].Message != "fill me" {
		t.Fatalf("override not used: %+v", vs)
	}
	if vs := base.Validate(context.Background(), form, node.Object()); vs[0].Message != "这是必填项" {
		t.Fatalf("base validator changed: %+v", vs)
	}
	en := amisform.New(amisform.WithLanguage("en-US"))
	if vs := en.Validate(context.Background(), form, node.Object()); vs[0].Message != "This is required" {
		t.Fatalf("language not applied: %+v", vs)
	}
}

func TestValidate_ConcurrentUse(t *testing.T) {
	v := amisform.New()
	form := mustParse(t, `{"body": [{"name": "x", "requireOn": "data.y > 0", "validations": {"isInt": true}}]}`)
	data := mustParse(t, `{"y": 1, "x": "z"}`)
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if vs := v.Validate(context.Background(), form, data); len(vs) != 1 {
				errs <- vs.Error()
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatalf("unexpected result: %s", e)
	}
}

func TestViolations_ErrorAndAs(t *testing.T) {
	vs := amisform.Violations{{Field: "a", Message: "m1"}, {Message: "m2"}, {Field: "c", Message: "m3"}, {Field: "d", Message: "m4"}}
	want := "a: m1; form: m2; c: m3; ... (total 4)"
	if vs.Error() != want {
		t.Fatalf("got %q", vs.Error())
	}
	var err error = vs
	got, ok := amisform.AsViolations(err)
	if !ok || len(got) != 4 || len(got.Field("a")) != 1 {
		t.Fatalf("AsViolations failed: %v %v", got, ok)
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	gates    []string
	done     int
	failures []string
}

func (o *recordingObserver) ValidationDone(int, time.Duration) {
	o.mu.Lock()
	o.done++
	o.mu.Unlock()
}

func (o *recordingObserver) ExpressionFailed(gate string) {
	o.mu.Lock()
	o.gates = append(o.gates, gate)
	o.mu.Unlock()
}

func (o *recordingObserver) RuleFailed(rule string) {
	o.mu.Lock()
	o.failures = append(o.failures, rule)
	o.mu.Unlock()
}

func (o *recordingObserver) failedGates() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.gates)
}

func TestValidate_PayloadKeysCannotDisableConditions(t *testing.T) {
	form := mustParse(t, `{"body": [{"name": "email", "visibleOn": "data.kind == 'person'", "required": true, "validations": {"isEmail": true}}]}`)
	for _, data := range []string{
		`{"kind": "person"}`,
		`{"kind": "person", "undefined": 1}`,
		`{"kind": "person", "NaN": 1, "Infinity": 2}`,
	} {
		var obs recordingObserver
		vs := amisform.New(amisform.WithObserver(&obs)).Validate(context.Background(), form, mustParse(t, data))
		if len(vs) != 2 {
			t.Fatalf("%s: want isRequired and isEmail, got %+v", data, vs)
		}
		if obs.failedGates() != 0 {
			t.Fatalf("%s: expressions failed %d times", data, obs.failedGates())
		}
	}
}

func TestValidate_FormRulesDoNotSeeEachOthersWrites(t *testing.T) {
	form := mustParse(t, `{
	  "rules": [
	    {"rule": "(data.a = 5, true)", "message": "first"},
	    {"rule": "data.a == 1", "message": "second"}
	  ],
	  "body": [{"name": "a", "visibleOn": "a == 1", "validations": {"maximum": 2}}]
	}`)
	if vs := amisform.New().Validate(context.Background(), form, mustParse(t, `{"a": 1}`)); len(vs) != 0 {
		t.Fatalf("want no violations, got %+v", vs)
	}
}

func TestValidate_SingleQuotedPatternEscapes(t *testing.T) {
	form := mustParse(t, `{body: [{name: 'a', validations: {matchRegexp: '^\\d+$'}}]}`)
	v := amisform.New()
	if vs := v.Validate(context.Background(), form, mustParse(t, `{"a": "123"}`)); len(vs) != 0 {
		t.Fatalf("digits should match, got %+v", vs)
	}
	if vs := v.Validate(context.Background(), form, mustParse(t, `{"a": "12x"}`)); len(vs) != 1 {
		t.Fatalf("want one violation, got %+v", vs)
	}
}

func TestValidate_Translator(t *testing.T) {
	tr := i18n.TranslatorFunc(func(rule string) string {
		if rule == "isRequired" {
			return "translated required"
		}
		return ""
	})
	v := amisform.New(amisform.WithLanguage("en-US"), amisform.WithTranslator(tr))
	form := mustParse(t, `{"body": [
		{"name": "a", "required": true},
		{"name": "b", "validations": {"isEmail": true}},
		{"name": "c", "required": true, "validationErrors": {"isRequired": "field wins"}}
	]}`)
	data := mustParse(t, `{"b": "nope"}`)

	got := v.Validate(context.Background(), form, data)
	want := []string{"translated required", "Email format error", "field wins"}
	if len(got) != len(want) {
		t.Fatalf("unexpected violations %+v", got)
	}
	for i, m := range want {
		if got[i].Message != m {
			t.Fatalf("violation %d: got %q want %q", i, got[i].Message, m)
		}
	}

	over := v.WithMessages(map[string]string{"isRequired": "override wins"})
	if vs := over.Validate(context.Background(), form, data); vs[0].Message != "override wins" {
		t.Fatalf("override should beat the translator: %+v", vs)
	}
	if vs := v.Validate(context.Background(), form, data); vs[0].Message != "translated required" {
		t.Fatalf("receiver changed: %+v", vs)
	}
}
