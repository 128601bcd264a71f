package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier delivers a text message to the operator.
type Notifier interface {
	Send(text string) error
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	bot     *tgbot.BotAPI
	chatID  int64
	channel string
	log     *zap.Logger
}

// NewTelegramNotifier connects to the Bot API (with optional proxy support) and
// resolves chatID, which may be numeric or an "@channel" name.
func NewTelegramNotifier(botToken, chatID, proxyURL string, log *zap.Logger) (*TelegramNotifier, error) {
	return newTelegramNotifier(botToken, chatID, tgbot.APIEndpoint, newHTTPClient(proxyURL), log)
}

func newTelegramNotifier(botToken, chatID, endpoint string, client *http.Client, log *zap.Logger) (*TelegramNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	t := &TelegramNotifier{log: log}
	chatID = strings.TrimSpace(chatID)
	switch {
	case strings.HasPrefix(chatID, "@"):
		t.channel = chatID
	default:
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q: %w", chatID, err)
		}
		t.chatID = id
	}

	bot, err := tgbot.NewBotAPIWithClient(botToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	t.bot = bot
	log.Info("telegram bot authorised", zap.String("username", bot.Self.UserName))
	return t, nil
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   40 * time.Second,
		Transport: transport,
	}
}

// Send sends an HTML message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	var msg tgbot.MessageConfig
	if t.channel != "" {
		msg = tgbot.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbot.NewMessage(t.chatID, text)
	}
	msg.ParseMode = tgbot.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// reply answers a command in the chat it came from.
func (t *TelegramNotifier) reply(chatID int64, text string) error {
	msg := tgbot.NewMessage(chatID, text)
	msg.ParseMode = tgbot.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

// LogNotifier writes messages to the log instead of a chat. It stands in when
// Telegram is not configured or unreachable.
type LogNotifier struct {
	Log *zap.Logger
}

func (l *LogNotifier) Send(text string) error {
	l.Log.Info("notification", zap.String("text", text))
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func SendWithRetry(ctx context.Context, n Notifier, text string, maxRetries int, log *zap.Logger) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := n.Send(text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := time.Duration(1<<uint(i)) * time.Second
		log.Warn("notification send failed, retrying",
			zap.Int("attempt", i+1), zap.Int("attempts", maxRetries+1),
			zap.Duration("backoff", backoff), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, lastErr)
}
