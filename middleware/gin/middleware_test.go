package ginmw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	amisform "github.com/reoring/amisform"
	ginmw "github.com/reoring/amisform/middleware/gin"
)

func TestValidateForm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	form, err := amisform.ParseString(`{"body": [{"name": "qty", "validations": "isInt,maximum:10"}]}`)
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	r.POST("/orders", ginmw.ValidateForm(amisform.New(), form, amisform.ParseOpt{}), func(c *gin.Context) {
		data, ok := ginmw.GetData(c)
		if !ok {
			t.Errorf("data missing from context")
		}
		c.String(http.StatusCreated, data.Get("qty").Text())
	})

	cases := []struct {
		body string
		want int
	}{
		{`{"qty": 3}`, http.StatusCreated},
		{`{"qty": 30}`, http.StatusUnprocessableEntity},
		{`{"qty": "x"}`, http.StatusUnprocessableEntity},
		{`[`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: status=%d want %d body=%s", tc.body, rec.Code, tc.want, rec.Body)
		}
		if tc.want == http.StatusCreated && rec.Body.String() != "3" {
			t.Fatalf("handler saw %q", rec.Body)
		}
	}
}
