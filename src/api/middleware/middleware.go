package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nftrade-labs/NFTradeBackend/pkg/errcode"
	"github.com/nftrade-labs/NFTradeBackend/pkg/logger/xzap"
	"github.com/nftrade-labs/NFTradeBackend/pkg/xhttp"
)

// RecoverMiddleware turns handler panics into a standard error response.
func RecoverMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				xzap.WithContext(c.Request.Context()).Error("handler panic",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path))
				xhttp.Error(c, errcode.NewCustomErr("internal error"))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// RLog writes one access log line per request.
func RLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		xzap.WithContext(c.Request.Context()).Info("api access",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("cost", time.Since(start)))
	}
}
