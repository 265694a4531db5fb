package notify

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramBot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender posts MarkdownV2 messages to one chat.
type TelegramSender struct {
	bot     telegramBot
	chatID  int64
	mention string
}

// NewTelegramSender creates a Telegram sender. mention is an optional username
// or group handle without the leading "@".
func NewTelegramSender(botToken, chatID, mention string) (*TelegramSender, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return &TelegramSender{bot: bot, chatID: chatIDInt, mention: mention}, nil
}

func (c *TelegramSender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return &DeliveryError{Channel: c.Name(), Err: err}
	}
	if c.mention != "" {
		text = escapeMarkdownV2("@"+c.mention) + "\n\n" + text
	}
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	if _, err := c.bot.Send(msg); err != nil {
		return &DeliveryError{Channel: c.Name(), Err: err}
	}
	return nil
}

func (c *TelegramSender) Name() string { return "telegram" }
