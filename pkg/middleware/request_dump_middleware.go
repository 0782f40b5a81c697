package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-experimentai/utilities"
)

const maxDumpedBody = 4 << 10

// RequestDumpMiddleware logs every request at debug level. Credentials are
// masked and large bodies are cut.
func RequestDumpMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		body := bodyBytes
		if len(body) > maxDumpedBody {
			body = body[:maxDumpedBody]
		}

		utilities.Debug(
			"[Request]\n"+
				"\tMethod: %s\n"+
				"\tURL: %s\n"+
				"\tHeaders: %v\n"+
				"\tParams: %v\n"+
				"\tBody: %s",
			c.Request.Method,
			c.Request.URL.String(),
			maskedHeaders(c.Request.Header),
			c.Params,
			string(body),
		)

		c.Next()
	}
}

func maskedHeaders(h http.Header) http.Header {
	out := h.Clone()
	for _, name := range []string{"Authorization", "Cookie", "Apikey"} {
		if out.Get(name) != "" {
			out.Set(name, "***")
		}
	}
	return out
}
