package handler

import (
	"context"
	"strings"

	tele "gopkg.in/telebot.v3"
)

// handleText hands every non-command text to the dialog
func (h *Handler) handleText(c tele.Context) error {
	msg, ok := incoming(c)
	if !ok {
		return nil
	}

	// Ignore commands (starting with /)
	if strings.HasPrefix(msg.Text, "/") {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	return h.deliver(c, h.dialog.Handle(ctx, msg))
}
