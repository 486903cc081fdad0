package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/gitstreak/schema"
)

// Reminder sends at most one reminder per calendar day, and only once the
// configured hour has passed without a contribution on the current UTC day.
type Reminder struct {
	notifier Notifier
	hour     int

	mu       sync.Mutex
	lastSent string // local ISO date of the last reminder
}

// NewReminder creates a reminder. A nil notifier disables it.
func NewReminder(notifier Notifier, hour int) *Reminder {
	return &Reminder{notifier: notifier, hour: hour}
}

// Check sends a reminder when one is due and reports whether it did.
func (r *Reminder) Check(ctx context.Context, now time.Time, stats schema.StreakStats) (bool, error) {
	if r.notifier == nil || now.Hour() < r.hour {
		return false, nil
	}
	// A running streak ending today means today is already covered.
	today := now.UTC().Format(schema.ISODate)
	if stats.CurrentStreak.Length > 0 && stats.CurrentStreak.End == today {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	day := now.Format(schema.ISODate)
	if r.lastSent == day {
		return false, nil
	}

	body := ReminderBody
	if stats.CurrentStreak.Length > 0 {
		body = fmt.Sprintf("%s\nKeep your %d day streak going.", ReminderBody, stats.CurrentStreak.Length)
	}
	if err := r.notifier.Notify(ctx, Message{Title: ReminderTitle, Body: body}); err != nil {
		return false, err
	}
	r.lastSent = day
	return true, nil
}
