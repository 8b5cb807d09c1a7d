package handler

import (
	"strings"
	"unicode"

	"englishcard/internal/dialog"

	tele "gopkg.in/telebot.v3"
)

// buttonsPerRow is the reply keyboard width
const buttonsPerRow = 2

// cleanText removes all non-printable characters from incoming text
func cleanText(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(text))
}

// replyMarkup renders the choices of a message as a reply keyboard.
// Returns nil when the message leaves the keyboard as it is.
func replyMarkup(msg dialog.OutgoingMessage) *tele.ReplyMarkup {
	if len(msg.Choices) == 0 {
		if msg.RemoveKeyboard {
			return &tele.ReplyMarkup{RemoveKeyboard: true}
		}
		return nil
	}

	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := make([]tele.Row, 0, (len(msg.Choices)+buttonsPerRow-1)/buttonsPerRow)
	for i := 0; i < len(msg.Choices); i += buttonsPerRow {
		end := i + buttonsPerRow
		if end > len(msg.Choices) {
			end = len(msg.Choices)
		}

		buttons := make([]tele.Btn, 0, end-i)
		for _, choice := range msg.Choices[i:end] {
			buttons = append(buttons, markup.Text(choice))
		}
		rows = append(rows, markup.Row(buttons...))
	}
	markup.Reply(rows...)

	return markup
}
