package middleware

import (
	"github.com/gin-gonic/gin"
)

// HTTPRecorder records one served request.
type HTTPRecorder interface {
	HTTPRequest(method, route string, status int)
}

// Metrics returns a handler that counts requests by method, matched route and status.
// Unmatched paths are reported as "unmatched" to bound label cardinality.
func Metrics(recorder HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.HTTPRequest(c.Request.Method, route, c.Writer.Status())
	}
}
