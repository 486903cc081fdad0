package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/gitstreak/internal/ghclient"
	"github.com/huangsam/gitstreak/internal/metrics"
	"github.com/huangsam/gitstreak/internal/notify"
	"github.com/huangsam/gitstreak/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func notification(id string, updated time.Time, unread bool, repo, title string) schema.Notification {
	return schema.Notification{
		ID:         id,
		Unread:     unread,
		UpdatedAt:  updated,
		Subject:    schema.NotificationSubject{Title: title, Type: "Issue"},
		Repository: schema.NotificationRepository{FullName: repo},
	}
}

// sameInstant matches a since argument regardless of its location.
func sameInstant(want time.Time) any {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

func TestPollNotifications(t *testing.T) {
	setNow(t, fixedNow)
	ctx := context.Background()
	t1 := fixedNow.Add(-2 * time.Hour)
	t2 := fixedNow.Add(-time.Hour)
	t3 := fixedNow.Add(-time.Minute)

	store := newMemoryLogStore(t)
	notifier := &recordingNotifier{}
	client := &ghclient.MockGraphClient{}
	client.On("FetchNotifications", mock.Anything, time.Time{}).Return([]schema.Notification{
		notification("1", t1, true, "octo/hello", "Old issue"),
		notification("2", t2, true, "octo/world", "Newest issue"),
	}, nil).Once()
	client.On("FetchNotifications", mock.Anything, sameInstant(t2)).Return([]schema.Notification{
		notification("2", t2, true, "octo/world", "Newest issue"),
	}, nil).Once()

	// First poll announces the newest item and counts the rest.
	fresh, unread, err := pollNotifications(ctx, "Octocat", client, store, notifier)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.Equal(t, 2, unread)
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, InboxTitle, notifier.messages[0].Title)
	assert.Equal(t, "octo/world: Newest issue (and 1 more)", notifier.messages[0].Body)

	state := loadInbox(store, "octocat")
	assert.True(t, state.LastUpdated.Equal(t2))
	assert.ElementsMatch(t, []string{"1", "2"}, state.SeenIDs)

	// Second poll asks for items since the newest one and drops the repeat.
	fresh, unread, err = pollNotifications(ctx, "octocat", client, store, notifier)
	require.NoError(t, err)
	assert.Empty(t, fresh)
	assert.Equal(t, 1, unread)
	assert.Len(t, notifier.messages, 1, "seen ids are not announced again")

	client.On("FetchNotifications", mock.Anything, sameInstant(t2)).Return([]schema.Notification{
		notification("2", t2, false, "octo/world", "Newest issue"),
		notification("3", t3, true, "octo/hello", "Brand new"),
	}, nil).Once()
	fresh, _, err = pollNotifications(ctx, "octocat", client, store, notifier)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "3", fresh[0].ID)
	require.Len(t, notifier.messages, 2)
	assert.Equal(t, "octo/hello: Brand new", notifier.messages[1].Body)

	client.AssertExpectations(t)
}

func TestPollNotificationsEmptyPageKeepsState(t *testing.T) {
	setNow(t, fixedNow)
	since := fixedNow.Add(-time.Hour)

	store := newMemoryLogStore(t)
	require.NoError(t, storeInbox(store, schema.InboxState{
		Login: "octocat", LastUpdated: since, SeenIDs: []string{"7"}, Unread: 4,
	}))

	client := &ghclient.MockGraphClient{}
	client.On("FetchNotifications", mock.Anything, sameInstant(since)).
		Return([]schema.Notification{}, nil)

	fresh, unread, err := pollNotifications(context.Background(), "octocat", client, store, nil)
	require.NoError(t, err)
	assert.Empty(t, fresh)
	assert.Equal(t, 4, unread)

	state := loadInbox(store, "octocat")
	assert.True(t, state.LastUpdated.Equal(since))
	assert.Equal(t, []string{"7"}, state.SeenIDs)
}

func TestPollNotificationsFetchError(t *testing.T) {
	client := &ghclient.MockGraphClient{}
	client.On("FetchNotifications", mock.Anything, time.Time{}).Return(nil, ghclient.ErrBadCredentials)

	notifier := &recordingNotifier{}
	_, _, err := pollNotifications(context.Background(), "octocat", client, nil, notifier)
	assert.ErrorIs(t, err, ghclient.ErrBadCredentials)
	assert.Empty(t, notifier.messages)
}

func TestLoadInboxIgnoresOtherVersions(t *testing.T) {
	store := newMemoryLogStore(t)
	require.NoError(t, store.Set(inboxKey("octocat"), []byte(`{"seen_ids":["1"]}`), currentLogVersion+1, 0))
	assert.Equal(t, schema.InboxState{Login: "octocat"}, loadInbox(store, "octocat"))

	require.NoError(t, store.Set(inboxKey("octocat"), []byte(`not json`), currentLogVersion, 0))
	assert.Equal(t, schema.InboxState{Login: "octocat"}, loadInbox(store, "octocat"))

	assert.Equal(t, schema.InboxState{Login: "octocat"}, loadInbox(nil, "octocat"))
}

func TestWatcherPollInbox(t *testing.T) {
	setNow(t, fixedNow)

	client := &ghclient.MockGraphClient{}
	client.On("FetchNotifications", mock.Anything, time.Time{}).Return([]schema.Notification{
		notification("1", fixedNow.Add(-time.Minute), true, "octo/hello", "Review requested"),
	}, nil)

	collector, err := metrics.NewCollector()
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	w := &watcher{
		cfg:       testConfig(),
		client:    client,
		mgr:       newManager(newMemoryLogStore(t), nil),
		collector: collector,
		reminder:  notify.NewReminder(nil, 0),
		notifier:  notifier,
	}
	w.pollInbox(WithSuppressHeader(context.Background()))

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "octo/hello: Review requested", notifier.messages[0].Body)
	assert.Contains(t, scrape(t, collector), `gitstreak_unread_notifications{login="octocat"} 1`)
}

func TestWatcherPollInboxFailure(t *testing.T) {
	client := &ghclient.MockGraphClient{}
	client.On("FetchNotifications", mock.Anything, time.Time{}).Return(nil, errors.New("network down"))

	collector, err := metrics.NewCollector()
	require.NoError(t, err)
	w := &watcher{
		cfg:       testConfig(),
		client:    client,
		mgr:       newManager(nil, nil),
		collector: collector,
		reminder:  notify.NewReminder(nil, 0),
	}
	w.pollInbox(WithSuppressHeader(context.Background()))

	assert.NotContains(t, scrape(t, collector), "gitstreak_unread_notifications{")
}
