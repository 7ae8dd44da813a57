package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	amisform "github.com/reoring/amisform"
	"github.com/reoring/amisform/node"
)

// the collector must satisfy the validator's observer
var _ amisform.Observer = (*Collector)(nil)

func TestCollector_RecordsValidations(t *testing.T) {
	c := NewCollector("", prometheus.NewRegistry())
	c.ValidationDone(0, time.Millisecond)
	c.ValidationDone(2, time.Millisecond)
	c.ValidationDone(1, time.Millisecond)

	if got := testutil.ToFloat64(c.validations.WithLabelValues("valid")); got != 1 {
		t.Fatalf("valid=%v", got)
	}
	if got := testutil.ToFloat64(c.validations.WithLabelValues("invalid")); got != 2 {
		t.Fatalf("invalid=%v", got)
	}
	if n := testutil.CollectAndCount(c.validationDuration); n != 1 {
		t.Fatalf("histogram series=%d", n)
	}
}

func TestCollector_AsValidatorObserver(t *testing.T) {
	c := NewCollector("test", nil)
	v := amisform.New(amisform.WithObserver(c))
	form, err := amisform.ParseString(`{
  "rules": [{"rule": "a ==", "message": "broken"}],
  "body": [{"name": "x", "validations": {"isInt": true, "isRequired": true}}]
}`)
	if err != nil {
		t.Fatal(err)
	}
	vs := v.Validate(t.Context(), form, node.Object())
	if len(vs) != 3 {
		t.Fatalf("want 3 violations, got %+v", vs)
	}
	if got := testutil.ToFloat64(c.violations.WithLabelValues("isInt")); got != 1 {
		t.Fatalf("isInt violations=%v", got)
	}
	if got := testutil.ToFloat64(c.violations.WithLabelValues("rule")); got != 1 {
		t.Fatalf("form rule violations=%v", got)
	}
	if got := testutil.ToFloat64(c.expressionFailures.WithLabelValues("rule")); got != 1 {
		t.Fatalf("expression failures=%v", got)
	}
	if got := testutil.ToFloat64(c.validations.WithLabelValues("invalid")); got != 1 {
		t.Fatalf("invalid validations=%v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("", nil)
	c.RequestDone(http.StatusUnprocessableEntity, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `amisform_http_requests_total{code="422"} 1`) {
		t.Fatalf("metric missing from exposition:\n%s", rec.Body.String())
	}
}
