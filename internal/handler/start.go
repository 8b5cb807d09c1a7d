package handler

import (
	"context"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	msg, ok := incoming(c)
	if !ok {
		return nil
	}

	h.logger.Info("User started bot",
		zap.Int64("user_id", msg.SenderID),
		zap.String("username", msg.Username),
	)

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	return h.deliver(c, h.dialog.Start(ctx, msg))
}
