package telegram_client

import (
	"context"
	"os"
	"strconv"

	tgBotApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// TelegramClient delivers notifications to a personal chat. It backs the
// notifier when the watcher runs headless and native browser notifications
// would go nowhere.
type TelegramClient struct {
	chatID int64
}

func NewTelegramClient() (*TelegramClient, error) {
	chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "TELEGRAM_CHAT_ID")
	}

	return &TelegramClient{
		chatID: chatID,
	}, nil
}

func (tc *TelegramClient) Notify(ctx context.Context, title, message string) error {
	bot, err := tgBotApi.NewBotAPI(os.Getenv("TELEGRAM_API_TOKEN"))
	if err != nil {
		return errors.Wrap(err, "NewBotAPI")
	}

	msg := tgBotApi.NewMessage(tc.chatID, title+"\n"+message)
	if _, err = bot.Send(msg); err != nil {
		return errors.Wrap(err, "Send")
	}

	return nil
}
