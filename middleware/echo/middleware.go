// Package echomw adapts amis form validation to echo.
package echomw

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	amisform "github.com/reoring/amisform"
	"github.com/reoring/amisform/middleware"
	"github.com/reoring/amisform/node"
)

// ValidateForm parses the request JSON with opt, validates it against form
// and stores the data in the request context. Malformed bodies get 400,
// violations 422 with the violation list.
func ValidateForm(v *amisform.Validator, form *node.Node, opt amisform.ParseOpt) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			data, err := amisform.Parse(raw, opt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			if vs := v.Validate(c.Request().Context(), form, data); len(vs) > 0 {
				return c.JSON(http.StatusUnprocessableEntity, middleware.ErrorPayload(vs))
			}
			req := c.Request().WithContext(middleware.ContextWithData(c.Request().Context(), data))
			req.Body = io.NopCloser(bytes.NewReader(raw))
			c.SetRequest(req)
			return next(c)
		}
	}
}

// GetData fetches the validated data from echo.Context.
func GetData(c echo.Context) (*node.Node, bool) {
	return middleware.DataFromContext(c.Request().Context())
}
