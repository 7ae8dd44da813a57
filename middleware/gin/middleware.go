// Package ginmw adapts amis form validation to gin.
package ginmw

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	amisform "github.com/reoring/amisform"
	"github.com/reoring/amisform/middleware"
	"github.com/reoring/amisform/node"
)

// ValidateForm parses the request JSON with opt, validates it against form,
// stores the data in the request context and on violations aborts with 422.
func ValidateForm(v *amisform.Validator, form *node.Node, opt amisform.ParseOpt) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		data, err := amisform.Parse(raw, opt)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if vs := v.Validate(c.Request.Context(), form, data); len(vs) > 0 {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, middleware.ErrorPayload(vs))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithData(c.Request.Context(), data))
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		c.Next()
	}
}

// GetData fetches the validated data from gin.Context.
func GetData(c *gin.Context) (*node.Node, bool) {
	return middleware.DataFromContext(c.Request.Context())
}
