package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramBot is the subset of the Bot API used for reminders.
type TelegramBot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BotFactory creates TelegramBot instances (allows mocking)
type BotFactory func(token, apiEndpoint string, client *http.Client) (TelegramBot, error)

// defaultBotFactory creates real telegram bot
var defaultBotFactory BotFactory = func(token, apiEndpoint string, client *http.Client) (TelegramBot, error) {
	return tgbotapi.NewBotAPIWithClient(token, apiEndpoint, client)
}

// TelegramNotifier sends reminders to a single chat.
// The bot is created on first use because creating it calls getMe.
type TelegramNotifier struct {
	token   string
	chatID  int64
	client  *http.Client
	factory BotFactory

	once   sync.Once
	bot    TelegramBot
	botErr error
}

// NewTelegramNotifier creates a notifier for chatID.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	return NewTelegramNotifierWithFactory(token, chatID, defaultBotFactory)
}

// NewTelegramNotifierWithFactory creates a notifier with a custom bot factory (for testing).
func NewTelegramNotifierWithFactory(token string, chatID int64, factory BotFactory) (*TelegramNotifier, error) {
	if token == "" {
		return nil, errors.New("telegram token is required")
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat id is required")
	}
	return &TelegramNotifier{
		token:   token,
		chatID:  chatID,
		client:  http.DefaultClient,
		factory: factory,
	}, nil
}

// Notify implements Notifier.
func (n *TelegramNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.once.Do(func() {
		n.bot, n.botErr = n.factory(n.token, tgbotapi.APIEndpoint, n.client)
	})
	if n.botErr != nil {
		return fmt.Errorf("create telegram bot: %w", n.botErr)
	}

	tgMsg := tgbotapi.NewMessage(n.chatID, fmt.Sprintf("%s\n%s", msg.Title, msg.Body))
	if _, err := n.bot.Send(tgMsg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
