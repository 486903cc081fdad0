package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/internal/notify"
	"github.com/huangsam/gitstreak/schema"
)

// InboxTitle is the title of notification inbox alerts.
const InboxTitle = "GitHub notification"

// inboxKey is the store key of a login's inbox state.
func inboxKey(login string) string {
	return "inbox:" + strings.ToLower(login)
}

// loadInbox returns the saved inbox state, or an empty one for a first poll.
func loadInbox(store contract.LogStore, login string) schema.InboxState {
	state := schema.InboxState{Login: login}
	if store == nil {
		return state
	}
	data, version, _, err := store.Get(inboxKey(login))
	if err != nil || version != currentLogVersion {
		return state
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return schema.InboxState{Login: login}
	}
	return state
}

// storeInbox persists the inbox state of a login.
func storeInbox(store contract.LogStore, state schema.InboxState) error {
	if store == nil {
		return nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode inbox state: %w", err)
	}
	return store.Set(inboxKey(state.Login), data, currentLogVersion, timeNow().Unix())
}

// pollNotifications fetches notifications updated since the last poll and
// alerts about the newest one that has not been seen yet. It returns the
// unseen notifications and the unread count of the latest non-empty page.
func pollNotifications(ctx context.Context, login string, client contract.GraphClient, store contract.LogStore, notifier notify.Notifier) ([]schema.Notification, int, error) {
	state := loadInbox(store, login)

	items, err := client.FetchNotifications(ctx, state.LastUpdated)
	if err != nil {
		return nil, state.Unread, err
	}

	seen := make(map[string]struct{}, len(state.SeenIDs))
	for _, id := range state.SeenIDs {
		seen[id] = struct{}{}
	}

	var fresh []schema.Notification
	ids := make([]string, 0, len(items))
	unread := 0
	for _, item := range items {
		ids = append(ids, item.ID)
		if item.Unread {
			unread++
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		fresh = append(fresh, item)
	}

	if newest, ok := schema.NewestNotification(fresh); ok && notifier != nil {
		if err := notifier.Notify(ctx, inboxMessage(newest, len(fresh))); err != nil {
			contract.LogWarn("Failed to send notification alert", err)
		}
	}

	// The API returns items updated at or after since, so the newest one comes
	// back on the next poll and is filtered by its ID.
	if newest, ok := schema.NewestNotification(items); ok {
		state.LastUpdated = newest.UpdatedAt
		state.SeenIDs = ids
		state.Unread = unread
	}
	if err := storeInbox(store, state); err != nil {
		return fresh, state.Unread, fmt.Errorf("store inbox state: %w", err)
	}
	return fresh, state.Unread, nil
}

// inboxMessage announces the newest notification of a poll.
func inboxMessage(newest schema.Notification, count int) notify.Message {
	body := fmt.Sprintf("%s: %s", newest.Repository.FullName, newest.Subject.Title)
	if count > 1 {
		body += fmt.Sprintf(" (and %d more)", count-1)
	}
	return notify.Message{Title: InboxTitle, Body: body}
}
