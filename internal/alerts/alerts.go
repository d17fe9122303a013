package alerts

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notificator — отправляет сообщение об ошибке админу
type Notificator interface {
	Notify(ctx context.Context, err error, details string) error
}

type telegramNotifier struct {
	bot         *tgbotapi.BotAPI
	adminChatID int64
}

// NewTelegramNotifier reads ADMIN_CHAT_ID; with no admin configured a
// log-only notifier is returned instead.
func NewTelegramNotifier(bot *tgbotapi.BotAPI) Notificator {
	raw := os.Getenv("ADMIN_CHAT_ID")
	if raw == "" || bot == nil {
		return logNotifier{}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("[alerts] bad ADMIN_CHAT_ID %q: %v", raw, err)
		return logNotifier{}
	}
	return &telegramNotifier{bot: bot, adminChatID: id}
}

func (n *telegramNotifier) Notify(_ context.Context, err error, details string) error {
	text := fmt.Sprintf("❗ Conversion failed\n\nError: %v\n\nDetails: %s", err, details)

	if _, sendErr := n.bot.Send(tgbotapi.NewMessage(n.adminChatID, text)); sendErr != nil {
		log.Printf("[alerts] send fail: %v", sendErr)
		return sendErr
	}
	return nil
}

type logNotifier struct{}

func (logNotifier) Notify(_ context.Context, err error, details string) error {
	log.Printf("[alerts] %v (%s)", err, details)
	return nil
}
