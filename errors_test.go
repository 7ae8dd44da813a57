package amisform_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	amisform "github.com/reoring/amisform"
)

func TestViolations_FieldAndValid(t *testing.T) {
	vs := amisform.Violations{
		{Message: "form level"},
		{Field: "a", Rule: "isInt", Message: "x"},
		{Field: "b", Rule: "isRequired", Message: "y"},
		{Field: "a", Rule: "minimum", Message: "z"},
	}
	if vs.Valid() || !amisform.Violations(nil).Valid() {
		t.Fatalf("Valid mismatch")
	}
	if got := vs.Field("a"); len(got) != 2 || got[1].Rule != "minimum" {
		t.Fatalf("unexpected field filter %v", got)
	}
	if got := vs.Field(""); len(got) != 1 || got[0].Message != "form level" {
		t.Fatalf("form-level violations should filter by empty name: %v", got)
	}
	if amisform.Violations(nil).Error() != "" {
		t.Fatalf("empty violations should have an empty message")
	}
	if _, ok := amisform.AsViolations(nil); ok {
		t.Fatalf("nil error is not a violation list")
	}
}

func TestParseError_Unwrap(t *testing.T) {
	pe := &amisform.ParseError{Code: amisform.CodeTruncated, Err: io.ErrUnexpectedEOF}
	wrapped := fmt.Errorf("load page: %w", pe)
	if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Fatalf("cause should be reachable through ParseError")
	}
	if pe.Error() != "amisform: truncated: unexpected EOF" {
		t.Fatalf("unexpected message %q", pe.Error())
	}
	pe.Path = "/body/0"
	if pe.Error() != "amisform: truncated at /body/0: unexpected EOF" {
		t.Fatalf("unexpected message %q", pe.Error())
	}
}

func TestSchemaError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("lookup: %w", &amisform.SchemaError{Op: "find form", Msg: "form not found"})
	if !errors.Is(err, amisform.ErrFormNotFound) {
		t.Fatalf("equal SchemaErrors should match the sentinel")
	}
	if errors.Is(&amisform.SchemaError{Op: "find form", Msg: "other"}, amisform.ErrFormNotFound) {
		t.Fatalf("different messages must not match")
	}
}
