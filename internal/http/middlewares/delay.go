package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Delay adds a fixed latency to every request. Dev-only knob for
// exercising frontend loading states; zero disables it.
func Delay(ms int) gin.HandlerFunc {
	d := time.Duration(ms) * time.Millisecond

	return func(ctx *gin.Context) {
		if d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Request.Context().Done():
			}
		}

		ctx.Next()
	}
}
