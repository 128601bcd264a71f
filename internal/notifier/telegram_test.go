package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type sentMessage struct {
	ChatID    string
	Text      string
	ParseMode string
}

// fakeBotAPI answers getMe and sendMessage like the Bot API does.
type fakeBotAPI struct {
	mu      sync.Mutex
	sent    []sentMessage
	sendErr bool
}

func (f *fakeBotAPI) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"fx","username":"fx_bot"}}`)
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		if f.sendErr {
			fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.sent = append(f.sent, sentMessage{
			ChatID:    r.PostForm.Get("chat_id"),
			Text:      r.PostForm.Get("text"),
			ParseMode: r.PostForm.Get("parse_mode"),
		})
		f.mu.Unlock()
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`)
	default:
		http.NotFound(w, r)
	}
}

func newTestNotifier(t *testing.T, chatID string, api *fakeBotAPI) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	t.Cleanup(srv.Close)
	tn, err := newTelegramNotifier("TOKEN", chatID, srv.URL+"/bot%s/%s", srv.Client(), zap.NewNop())
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	return tn
}

func TestTelegramNotifier_Send(t *testing.T) {
	api := &fakeBotAPI{}
	tn := newTestNotifier(t, "42", api)
	if err := tn.Send("<b>hello</b>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(api.sent))
	}
	got := api.sent[0]
	if got.ChatID != "42" || got.Text != "<b>hello</b>" || got.ParseMode != tgbot.ModeHTML {
		t.Errorf("unexpected message: %+v", got)
	}
}

func TestTelegramNotifier_Channel(t *testing.T) {
	api := &fakeBotAPI{}
	tn := newTestNotifier(t, "@fx_signals", api)
	if err := tn.Send("hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if api.sent[0].ChatID != "@fx_signals" {
		t.Errorf("expected channel chat id, got %q", api.sent[0].ChatID)
	}
}

func TestTelegramNotifier_SendError(t *testing.T) {
	api := &fakeBotAPI{sendErr: true}
	tn := newTestNotifier(t, "42", api)
	if err := tn.Send("hi"); err == nil {
		t.Fatal("expected error from API")
	}
}

func TestNewTelegramNotifier_InvalidInput(t *testing.T) {
	if _, err := newTelegramNotifier("", "42", "", nil, zap.NewNop()); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := newTelegramNotifier("TOKEN", "not-a-chat", "", nil, zap.NewNop()); err == nil {
		t.Error("expected error for invalid chat id")
	}
}

func TestHandleUpdate_RepliesToSender(t *testing.T) {
	api := &fakeBotAPI{}
	tn := newTestNotifier(t, "42", api)

	var got string
	update := tgbot.Update{Message: &tgbot.Message{
		Text:     "/status@fx_bot",
		Chat:     &tgbot.Chat{ID: 7},
		Entities: []tgbot.MessageEntity{{Type: "bot_command", Offset: 0, Length: len("/status@fx_bot")}},
	}}
	tn.handleUpdate(update, func(cmd string) string {
		got = cmd
		return "status ok"
	})

	if got != "/status" {
		t.Errorf("expected normalised command /status, got %q", got)
	}
	if len(api.sent) != 1 || api.sent[0].ChatID != "7" || api.sent[0].Text != "status ok" {
		t.Errorf("unexpected reply: %+v", api.sent)
	}
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := &LogNotifier{Log: zap.New(core)}
	if err := n.Send("hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	entries := logs.FilterField(zap.String("text", "hello")).All()
	if len(entries) != 1 {
		t.Errorf("expected one log entry, got %d", len(entries))
	}
}

type flakyNotifier struct {
	fails int
	calls int
}

func (f *flakyNotifier) Send(string) error {
	f.calls++
	if f.calls <= f.fails {
		return errors.New("unavailable")
	}
	return nil
}

func TestSendWithRetry(t *testing.T) {
	ok := &flakyNotifier{}
	if err := SendWithRetry(context.Background(), ok, "x", 0, zap.NewNop()); err != nil || ok.calls != 1 {
		t.Errorf("expected single successful call, got err=%v calls=%d", err, ok.calls)
	}

	down := &flakyNotifier{fails: 10}
	if err := SendWithRetry(context.Background(), down, "x", 0, zap.NewNop()); err == nil || down.calls != 1 {
		t.Errorf("expected one failed attempt, got err=%v calls=%d", err, down.calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cancelled := &flakyNotifier{fails: 10}
	if err := SendWithRetry(ctx, cancelled, "x", 3, zap.NewNop()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
