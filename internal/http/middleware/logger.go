package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"

	"backoffice/internal/config"
	"backoffice/internal/logger"
)

// Logger writes one access-log entry per request with request_id, method,
// path, status and latency in milliseconds. agent_id is added once the
// request has been authenticated.
func Logger(log logrus.FieldLogger) fiber.Handler {
	log = log.WithField("component", "http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		fields := logrus.Fields{
			"request_id": RequestIDFromCtx(c),
			"method":     utils.CopyString(c.Method()),
			"path":       utils.CopyString(c.Path()),
			"status":     statusOf(c, err),
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if actor, ok := ActorFromCtx(c); ok {
			fields["agent_id"] = actor.AgentID
		}
		log.WithFields(fields).Info("http_request")

		return err
	}
}

// LoggerWithWriter is Logger on a JSON logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logger.NewWithWriter(w, config.LogConfig{Level: "info", Format: "json"}, loc))
}

// statusOf reports the status the error handler will send for err.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
