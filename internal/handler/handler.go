package handler

import (
	"context"
	"time"

	"englishcard/internal/dialog"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// updateTimeout bounds the storage work done for a single update
const updateTimeout = 15 * time.Second

// Dialog is the conversation logic the handler delivers updates to
type Dialog interface {
	Start(ctx context.Context, msg dialog.IncomingMessage) []dialog.OutgoingMessage
	Handle(ctx context.Context, msg dialog.IncomingMessage) []dialog.OutgoingMessage
}

// Router is the part of *tele.Bot used to register endpoints
type Router interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

// Handler manages all bot interactions
type Handler struct {
	dialog Dialog
	logger *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(d Dialog, logger *zap.Logger) *Handler {
	return &Handler{
		dialog: d,
		logger: logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers(r Router) {
	// Commands
	r.Handle("/start", h.handleStart)

	// Text messages, including reply keyboard buttons
	r.Handle(tele.OnText, h.handleText)
}

// incoming converts a telebot update into a dialog message.
// ok is false for updates without a sender, such as channel posts.
func incoming(c tele.Context) (msg dialog.IncomingMessage, ok bool) {
	sender := c.Sender()
	if sender == nil {
		return msg, false
	}

	msg = dialog.IncomingMessage{
		SenderID:  sender.ID,
		ChatID:    sender.ID,
		Text:      cleanText(c.Text()),
		Username:  sender.Username,
		FirstName: sender.FirstName,
		LastName:  sender.LastName,
	}
	if chat := c.Chat(); chat != nil {
		msg.ChatID = chat.ID
	}
	return msg, true
}

// deliver sends the dialog replies in order, stopping at the first failure
func (h *Handler) deliver(c tele.Context, out []dialog.OutgoingMessage) error {
	for _, msg := range out {
		var opts []interface{}
		if markup := replyMarkup(msg); markup != nil {
			opts = append(opts, markup)
		}

		if err := c.Send(msg.Text, opts...); err != nil {
			h.logger.Error("Failed to send message",
				zap.Int64("chat_id", msg.ChatID),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}
