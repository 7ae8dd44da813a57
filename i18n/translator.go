// Package i18n holds the default violation message tables.
//
// Tables are keyed by rule name. The built-in tables are never modified:
// every accessor returns a fresh copy, and Merge derives a new table.
package i18n

import (
	"sort"
	"strings"
)

// Translator retrieves the message template for a rule. An empty result
// means the translator has no entry. Table implements it.
type Translator interface {
	Message(rule string) string
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(rule string) string

func (f TranslatorFunc) Message(rule string) string { return f(rule) }

var _ Translator = Table(nil)

// Table maps rule names to message templates. Templates may carry one $1
// placeholder for the rule parameter.
type Table map[string]string

// Message returns the template for rule, or "" when the table has none.
func (t Table) Message(rule string) string { return t[rule] }

// Merge returns a copy of t with overrides applied. Empty override values
// are ignored.
func (t Table) Merge(overrides map[string]string) Table {
	out := make(Table, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Clone returns a copy of t.
func (t Table) Clone() Table { return t.Merge(nil) }

// Keys lists the rule names in lexical order.
func (t Table) Keys() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Default language used when none is configured.
const DefaultLanguage = "zh-CN"

// ForLanguage returns a copy of the built-in table for lang. Matching is
// case-insensitive and accepts "zh", "zh_CN", "en" and "en_US". ok is false
// for unknown languages, in which case the default table is returned.
func ForLanguage(lang string) (Table, bool) {
	switch strings.ToLower(strings.ReplaceAll(lang, "_", "-")) {
	case "", "zh", "zh-cn":
		return zhCN.Clone(), true
	case "en", "en-us":
		return enUS.Clone(), true
	}
	return zhCN.Clone(), false
}

// Default returns a copy of the default (zh-CN) table.
func Default() Table { return zhCN.Clone() }

// Languages lists the built-in languages.
func Languages() []string { return []string{"zh-CN", "en-US"} }

// Format replaces the first $1 in tmpl with param.
func Format(tmpl, param string) string {
	return strings.Replace(tmpl, "$1", param, 1)
}
