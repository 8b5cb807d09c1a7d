package middleware

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Recover turns a panic in a handler into a logged error so that one
// update cannot take the poller down
func Recover(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					fields := []zap.Field{
						zap.Any("panic", r),
						zap.String("stack", string(debug.Stack())),
					}
					if sender := c.Sender(); sender != nil {
						fields = append(fields, zap.Int64("user_id", sender.ID))
					}
					logger.Error("Panic recovered", fields...)
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}
