package schema

import "time"

// Notification is one entry of the GitHub notifications inbox.
type Notification struct {
	ID         string                 `json:"id"`
	Unread     bool                   `json:"unread"`
	Reason     string                 `json:"reason"`
	UpdatedAt  time.Time              `json:"updated_at"`
	Subject    NotificationSubject    `json:"subject"`
	Repository NotificationRepository `json:"repository"`
}

// NotificationSubject is the issue, pull request or release a notification is about.
type NotificationSubject struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// NotificationRepository names the repository of a notification.
type NotificationRepository struct {
	FullName string `json:"full_name"`
}

// InboxState is what watch mode remembers between notification polls.
type InboxState struct {
	Login       string    `json:"login"`
	LastUpdated time.Time `json:"last_updated"`
	SeenIDs     []string  `json:"seen_ids"`
	Unread      int       `json:"unread"`
}

// NewestNotification returns the most recently updated notification.
// It reports false for an empty list.
func NewestNotification(items []Notification) (Notification, bool) {
	if len(items) == 0 {
		return Notification{}, false
	}
	newest := items[0]
	for _, n := range items[1:] {
		if n.UpdatedAt.After(newest.UpdatedAt) {
			newest = n
		}
	}
	return newest, true
}
