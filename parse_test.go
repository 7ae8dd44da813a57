package amisform_test

import (
	"strings"
	"testing"

	amisform "github.com/reoring/amisform"
	"github.com/reoring/amisform/node"
)

func TestParse_KeepsDocumentOrder(t *testing.T) {
	n, err := amisform.ParseString(`{"z": 1, "a": [true, null, "x"], "m": {"k": 1.50}}`)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(n.Keys(), ","); got != "z,a,m" {
		t.Fatalf("key order lost: %s", got)
	}
	if n.Get("m").Get("k").Text() != "1.50" {
		t.Fatalf("number literal not preserved: %q", n.Get("m").Get("k").Text())
	}
	arr := n.Get("a")
	if arr.Len() != 3 || !arr.Index(0).BoolValue() || !arr.Index(1).IsNull() || arr.Index(2).Text() != "x" {
		t.Fatalf("array decoded wrong: %s", arr)
	}
}

func TestParse_StrictRejectsRelaxedSyntax(t *testing.T) {
	for _, src := range []string{`{a: 1}`, `{'a': 1}`, `{"a": 1} // c`, `{"a": 1} {"b": 2}`, `{"a": `, ``} {
		if _, err := amisform.ParseString(src); err == nil {
			t.Fatalf("strict parse accepted %q", src)
		}
	}
}

func TestParse_TruncatedInput(t *testing.T) {
	_, err := amisform.ParseString(`{"a": [1, 2`)
	// go-json reports some early ends as syntax errors
	if pe := asParseError(t, err); pe.Code != amisform.CodeTruncated && pe.Code != amisform.CodeParseError {
		t.Fatalf("want truncated, got %s", pe.Code)
	}
}

func TestParse_Comments(t *testing.T) {
	src := `{
  // the form
  "type": "form", /* inline */ "name": "a//b"
}`
	n, err := amisform.ParseString(src, amisform.ParseOpt{AllowComments: true})
	if err != nil {
		t.Fatal(err)
	}
	if n.Get("type").Text() != "form" || n.Get("name").Text() != "a//b" {
		t.Fatalf("unexpected node %s", n)
	}
}

func TestParse_UnquotedKeysAndSingleQuotes(t *testing.T) {
	src := `{
  type: 'form',
  name: "myForm", // comment
  body: [{name: 'age', validations: {minimum: 18, isInt: true}}]
}`
	n, err := amisform.ParseString(src, amisform.LenientParseOpt())
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(n.Keys(), ","); got != "type,name,body" {
		t.Fatalf("key order lost: %s", got)
	}
	v := n.Get("body").Index(0).Get("validations")
	if v.Get("minimum").Kind() != node.KindNumber || v.Get("minimum").Int() != 18 || !v.Get("isInt").BoolValue() {
		t.Fatalf("unexpected validations %s", v)
	}
	if n.Get("type").Text() != "form" {
		t.Fatalf("single quoted string lost: %s", n)
	}
}

func TestParseError_Message(t *testing.T) {
	_, err := amisform.ParseString(`[`)
	if err == nil || !strings.HasPrefix(err.Error(), "amisform: ") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestParse_SingleQuotedEscapes(t *testing.T) {
	src := `{'p': '^\\d+$', 'q': 'it\'s "ok"', r: 'a\nb', 's': "x'y"}`
	n, err := amisform.ParseString(src, amisform.LenientParseOpt())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"p": `^\d+$`, "q": `it's "ok"`, "r": "a\nb", "s": "x'y"}
	for k, v := range want {
		if got := n.Get(k).Text(); got != v {
			t.Fatalf("%s: got %q want %q", k, got, v)
		}
	}
	// strict JSON with only single quotes allowed still rejects bare keys
	opt := amisform.ParseOpt{AllowSingleQuotes: true}
	if n, err := amisform.ParseString(`{'a': 'A'}`, opt); err != nil || n.Get("a").Text() != "A" {
		t.Fatalf("single quotes alone: %v %v", n, err)
	}
	if _, err := amisform.ParseString(`{a: 'x'}`, opt); err == nil {
		t.Fatalf("unquoted key accepted without AllowUnquotedKeys")
	}
}
