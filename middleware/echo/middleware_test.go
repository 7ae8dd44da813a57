package echomw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	amisform "github.com/reoring/amisform"
	echomw "github.com/reoring/amisform/middleware/echo"
)

func TestValidateForm(t *testing.T) {
	form, err := amisform.ParseString(`{"body": [{"name": "email", "required": true, "validations": {"isEmail": true}}]}`)
	if err != nil {
		t.Fatal(err)
	}
	e := echo.New()
	e.POST("/signup", func(c echo.Context) error {
		data, ok := echomw.GetData(c)
		if !ok {
			t.Errorf("data missing from context")
		}
		return c.String(http.StatusCreated, data.Get("email").Text())
	}, echomw.ValidateForm(amisform.New(), form, amisform.ParseOpt{}))

	cases := []struct {
		body string
		want int
	}{
		{`{"email": "a@example.com"}`, http.StatusCreated},
		{`{"email": "nope"}`, http.StatusUnprocessableEntity},
		{`{}`, http.StatusUnprocessableEntity},
		{`{"email":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: status=%d want %d body=%s", tc.body, rec.Code, tc.want, rec.Body)
		}
		if tc.want == http.StatusCreated && rec.Body.String() != "a@example.com" {
			t.Fatalf("handler saw %q", rec.Body)
		}
	}
}
