package notifier

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

// StartPolling long-polls Telegram for commands and answers them with handler.
// Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			t.log.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.handleUpdate(update, handler)
		}
	}
}

func (t *TelegramNotifier) handleUpdate(update tgbot.Update, handler CommandHandler) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	text := strings.TrimSpace(update.Message.Text)
	command := text
	if update.Message.IsCommand() {
		command = "/" + update.Message.Command()
	}
	t.log.Info("received command", zap.String("command", command), zap.Int64("chat_id", update.Message.Chat.ID))

	reply := handler(command)
	if reply == "" {
		return
	}
	if err := t.reply(update.Message.Chat.ID, reply); err != nil {
		t.log.Error("send reply failed", zap.Error(err))
	}
}
