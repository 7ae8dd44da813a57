package amisform

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/reoring/amisform/expr"
	"github.com/reoring/amisform/i18n"
	"github.com/reoring/amisform/node"
	"github.com/reoring/amisform/rules"
)

// Validator checks submitted data against amis form schemas. A Validator is
// immutable after New and safe for concurrent use.
type Validator struct {
	eval     expr.Evaluator
	messages i18n.Table
	tr       i18n.Translator
	rules    *rules.Registry
	logger   *slog.Logger
	observer Observer
	noScript bool
	parseOpt ParseOpt
}

// Option configures a Validator.
type Option func(*Validator)

// WithEvaluator sets the expression evaluator used for conditions and form
// rules. The default is a goja JavaScript evaluator.
func WithEvaluator(e expr.Evaluator) Option {
	return func(v *Validator) {
		if e != nil {
			v.eval = e
		}
	}
}

// WithMessages replaces the default message table.
func WithMessages(t i18n.Table) Option {
	return func(v *Validator) {
		if t != nil {
			v.messages = t.Clone()
		}
	}
}

// WithTranslator consults t for rule messages before the message table.
// An empty answer from t falls back to the table.
func WithTranslator(t i18n.Translator) Option {
	return func(v *Validator) { v.tr = t }
}

// WithLanguage selects a built-in message table. Unknown languages keep the
// default table.
func WithLanguage(lang string) Option {
	return func(v *Validator) { v.messages, _ = i18n.ForLanguage(lang) }
}

// WithRules replaces the rule catalog.
func WithRules(r *rules.Registry) Option {
	return func(v *Validator) {
		if r != nil {
			v.rules = r
		}
	}
}

// WithLogger sets the logger for expression failures and skipped rules.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(v *Validator) {
		if o != nil {
			v.observer = o
		}
	}
}

// WithScriptDisabled turns off every expression: requireOn, visibleOn and
// hiddenOn are ignored and form rules are not checked.
func WithScriptDisabled(disabled bool) Option {
	return func(v *Validator) { v.noScript = disabled }
}

// WithParseOpt sets the options ValidateNamed parses documents with.
func WithParseOpt(o ParseOpt) Option {
	return func(v *Validator) { v.parseOpt = o }
}

// New returns a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		messages: i18n.Default(),
		rules:    rules.Builtin(),
		logger:   slog.Default(),
		observer: nopObserver{},
		parseOpt: LenientParseOpt(),
	}
	for _, o := range opts {
		o(v)
	}
	if v.eval == nil {
		v.eval = expr.NewJavaScript()
	}
	return v
}

// WithMessages returns a copy of v whose message table has overrides
// applied. The overrides also win over a translator. v itself is unchanged.
func (v *Validator) WithMessages(overrides map[string]string) *Validator {
	cp := *v
	cp.messages = v.messages.Merge(overrides)
	if tr := v.tr; tr != nil {
		over := i18n.Table{}.Merge(overrides)
		cp.tr = i18n.TranslatorFunc(func(rule string) string {
			if m := over.Message(rule); m != "" {
				return m
			}
			return tr.Message(rule)
		})
	}
	return &cp
}

// Messages returns a copy of the message table in use.
func (v *Validator) Messages() i18n.Table { return v.messages.Clone() }

// Validate checks data against a form schema and returns the violations in
// order: form rules first, then fields in document order. A form without
// body (or controls) yields no violations.
func (v *Validator) Validate(ctx context.Context, form, data *node.Node) Violations {
	start := time.Now()
	out := v.validate(ctx, form, data)
	v.observer.ValidationDone(len(out), time.Since(start))
	return out
}

func (v *Validator) validate(ctx context.Context, form, data *node.Node) Violations {
	body := form.Get("body")
	if body.IsMissing() {
		body = form.Get("controls")
	}
	var fields []*node.Node
	switch {
	case body.IsObject():
		fields = []*node.Node{body}
	case body.IsArray():
		fields = body.Items()
	default:
		return nil
	}

	c := v.newCall(data)
	out := v.formRules(ctx, form, c)
	for _, f := range fields {
		out = append(out, v.field(ctx, f, c)...)
	}
	return out
}

// ValidateField checks data against a single field schema.
func (v *Validator) ValidateField(ctx context.Context, field, data *node.Node) Violations {
	start := time.Now()
	out := v.field(ctx, field, v.newCall(data))
	v.observer.ValidationDone(len(out), time.Since(start))
	return out
}

// ValidateForm locates the form named formName inside a page schema and
// validates data against it. ErrFormNotFound is returned when no such form
// exists.
func (v *Validator) ValidateForm(ctx context.Context, page *node.Node, formName string, data *node.Node) (Violations, error) {
	form := FindForm(page, formName)
	if form == nil {
		return nil, ErrFormNotFound
	}
	return v.Validate(ctx, form, data), nil
}

// ValidateNamed parses a page schema and a data payload, locates the form
// named formName and validates. Blank data is an empty object. Parse
// failures are returned as *ParseError.
func (v *Validator) ValidateNamed(ctx context.Context, pageJSON []byte, formName string, dataJSON []byte) (Violations, error) {
	page, err := parseWith(pageJSON, v.parseOpt, v.logger)
	if err != nil {
		return nil, err
	}
	data, err := parseData(dataJSON, v.parseOpt, v.logger)
	if err != nil {
		return nil, err
	}
	return v.ValidateForm(ctx, page, formName, data)
}

// call carries the per-call state: the data and its lazily built scope.
type call struct {
	data  *node.Node
	scope expr.Scope
}

func (v *Validator) newCall(data *node.Node) *call { return &call{data: data} }

func (c *call) Scope() expr.Scope {
	if c.scope == nil {
		c.scope = expr.NewScope(c.data)
	}
	return c.scope
}

func (v *Validator) gate(c *call) Gate {
	return func(ctx context.Context, kind, expression string) (bool, bool) {
		if v.noScript {
			return false, false
		}
		return v.evaluate(ctx, c, kind, expression), true
	}
}

func (v *Validator) evaluate(ctx context.Context, c *call, kind, expression string) bool {
	ok, err := v.eval.EvaluateBoolean(ctx, expression, c.Scope())
	if err != nil {
		v.logger.WarnContext(ctx, "expression evaluation failed", "gate", kind, "expression", expression, "error", err)
		v.observer.ExpressionFailed(kind)
		return false
	}
	return ok
}

func (v *Validator) formRules(ctx context.Context, form *node.Node, c *call) Violations {
	if v.noScript {
		return nil
	}
	var out Violations
	for _, r := range form.Get("rules").Items() {
		src := r.Get("rule").Text()
		if strings.TrimSpace(src) == "" {
			continue
		}
		if !v.evaluate(ctx, c, GateFormRule, src) {
			out = append(out, Violation{Message: r.Get("message").Text()})
			v.observer.RuleFailed(GateFormRule)
		}
	}
	return out
}

func (v *Validator) field(ctx context.Context, field *node.Node, c *call) Violations {
	name := field.Get("name").Text()
	if name == "" {
		return nil
	}
	rs, vis := Normalize(ctx, field, v.gate(c))
	if vis.Hidden {
		v.logger.DebugContext(ctx, "field hidden, skipped", "field", name, "by", vis.By)
		return nil
	}

	value := lookup(c.data, name)
	var out Violations
	for _, r := range rs {
		p, ok := v.rules.Lookup(r.Name)
		if !ok {
			v.logger.DebugContext(ctx, "unknown rule ignored", "field", name, "rule", r.Name)
			continue
		}
		if p.Check(value, rules.NewParam(r.Param)) {
			continue
		}
		out = append(out, Violation{Field: name, Rule: r.Name, Message: v.message(field, p, r)})
		v.observer.RuleFailed(r.Name)
	}
	return out
}

// message picks the custom message from validationErrors or the table entry
// and fills in the rule parameter.
func (v *Validator) message(field *node.Node, p rules.Predicate, r Rule) string {
	tmpl := field.Get("validationErrors").Get(r.Name).Text()
	if tmpl == "" && v.tr != nil {
		tmpl = v.tr.Message(p.MessageKey())
	}
	if tmpl == "" {
		tmpl = v.messages.Message(p.MessageKey())
	}
	if tmpl == "" {
		tmpl = r.Name
	}
	if p.Substitute {
		tmpl = i18n.Format(tmpl, paramText(r.Param))
	}
	return tmpl
}

func paramText(p *node.Node) string {
	if p.IsScalar() {
		return p.Text()
	}
	return p.String()
}

// lookup resolves a field name against the data. Names with dots that are
// not plain keys are walked as paths through nested objects.
func lookup(data *node.Node, name string) *node.Node {
	if v := data.Get(name); !v.IsMissing() || !strings.Contains(name, ".") {
		return v
	}
	cur := data
	for _, part := range strings.Split(name, ".") {
		cur = cur.Get(part)
		if cur.IsMissing() {
			return nil
		}
	}
	return cur
}
