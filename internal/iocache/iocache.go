// Package iocache persists activity logs and refresh history.
package iocache

import (
	"sync"

	"github.com/huangsam/gitstreak/internal/contract"
)

// StoreManager manages the LogStore and HistoryStore instances.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	logs         contract.LogStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetLogStore returns the activity LogStore.
func (mgr *StoreManager) GetLogStore() contract.LogStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.logs
}

// GetHistoryStore returns the refresh HistoryStore.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
