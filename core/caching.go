package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
)

// currentLogVersion defines the version of the persisted log schema
const currentLogVersion = 1

// logKey is the store key of a login. GitHub logins are case-insensitive.
func logKey(login string) string {
	return "log:" + strings.ToLower(login)
}

// loadStoredLog retrieves the persisted log of a login.
// It returns nil when the store is disabled, the key is absent, or the entry
// was written by another schema version.
func loadStoredLog(store contract.LogStore, login string) *schema.StoredLog {
	if store == nil {
		return nil
	}
	data, version, _, err := store.Get(logKey(login))
	if err != nil || version != currentLogVersion {
		return nil
	}
	var stored schema.StoredLog
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil
	}
	if stored.Log == nil {
		stored.Log = make(schema.ActivityLog)
	}
	return &stored
}

// storeLog persists the merged log of a login
func storeLog(store contract.LogStore, stored schema.StoredLog) error {
	if store == nil {
		return nil
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode activity log: %w", err)
	}
	return store.Set(logKey(stored.Login), data, currentLogVersion, stored.UpdatedAt.Unix())
}

// isFresh reports whether a stored log is younger than the refresh interval.
func isFresh(stored *schema.StoredLog, interval time.Duration, now time.Time) bool {
	return stored != nil && now.Sub(stored.UpdatedAt) < interval
}
