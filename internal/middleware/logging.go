package middleware

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Logging writes one log line per update with its duration
func Logging(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{
				zap.Duration("duration", time.Since(start)),
			}
			if sender := c.Sender(); sender != nil {
				fields = append(fields, zap.Int64("user_id", sender.ID))
			}

			if err != nil {
				logger.Error("Update failed", append(fields, zap.Error(err))...)
				return err
			}
			logger.Debug("Update handled", fields...)
			return nil
		}
	}
}
