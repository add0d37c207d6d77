package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bazar-api/pkg/logger"
)

// RequestLogger registra cada petición como "METHOD path" con estado y duración.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		log.Info().
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msgf("%s %s", c.Method(), c.Path())
		return err
	}
}
