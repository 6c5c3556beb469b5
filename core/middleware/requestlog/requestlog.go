package requestlog

import (
	"time"

	"event-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// New returns a middleware logging every request with its RayID.
func New(l *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.WithRayID(l, c)
		start := time.Now()

		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			log.Error("Request error", append(fields, zap.Error(err))...)
			return err
		}
		log.Info("Request completed", fields...)
		return nil
	}
}
