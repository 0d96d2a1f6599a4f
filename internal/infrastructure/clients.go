package infrastructure

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends owner notifications to the chat linked to a business.
type TelegramNotifier struct {
	bot      telegramSender
	username string
	log      *zap.Logger
}

func NewTelegramNotifier(token string, log *zap.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	log.Info("telegram notifier ready", zap.String("bot", bot.Self.UserName))
	return &TelegramNotifier{bot: bot, username: bot.Self.UserName, log: log}, nil
}

func (t *TelegramNotifier) BotUsername() string {
	return t.username
}

func (t *TelegramNotifier) Notify(ctx context.Context, b *entities.Business, text string) error {
	if b.TelegramChatID == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(*b.TelegramChatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send to business %d: %w", b.ID, err)
	}
	t.log.Debug("telegram notification sent", zap.Int("business_id", b.ID))
	return nil
}

// MultiNotifier fans a notification out to every configured channel.
type MultiNotifier []interfaces.Notifier

func (m MultiNotifier) Notify(ctx context.Context, b *entities.Business, text string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, b, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
