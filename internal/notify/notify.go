// Package notify delivers streak reminders to the console or Telegram.
package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
)

// Reminder text shown when a day has no contributions yet.
const (
	ReminderTitle = "Streak reminder"
	ReminderBody  = "Show off skills by contributing on github 👍"
)

// Message is a single notification.
type Message struct {
	Title string
	Body  string
}

// Notifier delivers messages to a user.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// New returns the notifier selected by cfg.Reminder, or nil when reminders are disabled.
func New(cfg *contract.Config) (Notifier, error) {
	switch cfg.Reminder {
	case schema.ConsoleNotifier, "":
		return NewConsoleNotifier(os.Stderr, cfg.UseColors), nil
	case schema.TelegramNotifier:
		return NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	case schema.NoNotifier:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported reminder channel: %s", cfg.Reminder)
	}
}
