package middleware

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one "Log: "-prefixed line per request.
func AccessLog(out io.Writer) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: out,
		Formatter: func(p gin.LogFormatterParams) string {
			return fmt.Sprintf("Log: %s - [%s] \"%s %s %s\" %d %d %s\n",
				p.ClientIP,
				p.TimeStamp.Format(time.RFC1123),
				p.Method,
				p.Path,
				p.Request.Proto,
				p.StatusCode,
				p.BodySize,
				p.Latency,
			)
		},
	})
}
