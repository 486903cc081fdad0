package iocache

import (
	"time"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetLogStore implements the CacheManager interface.
func (m *MockCacheManager) GetLogStore() contract.LogStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.LogStore)
	return store
}

// GetHistoryStore implements the CacheManager interface.
func (m *MockCacheManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockLogStore is a mock implementation of LogStore for testing.
type MockLogStore struct {
	mock.Mock
}

var _ contract.LogStore = &MockLogStore{} // Compile-time check

// Get implements the LogStore interface.
func (m *MockLogStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the LogStore interface.
func (m *MockLogStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// GetStatus implements the LogStore interface.
func (m *MockLogStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the LogStore interface.
func (m *MockLogStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(login string, startTime time.Time, configParams map[string]any) (string, error) {
	args := m.Called(login, startTime, configParams)
	return args.String(0), args.Error(1)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID string, endTime time.Time, status schema.RunStatus, daysFetched int) error {
	args := m.Called(runID, endTime, status, daysFetched)
	return args.Error(0)
}

// RecordSnapshot implements the HistoryStore interface.
func (m *MockHistoryStore) RecordSnapshot(snapshot schema.StreakSnapshotRecord) error {
	args := m.Called(snapshot)
	return args.Error(0)
}

// GetSnapshots implements the HistoryStore interface.
func (m *MockHistoryStore) GetSnapshots(login string, limit int) ([]schema.StreakSnapshotRecord, error) {
	args := m.Called(login, limit)
	records, _ := args.Get(0).([]schema.StreakSnapshotRecord)
	return records, args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RefreshRunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RefreshRunRecord)
	return records, args.Error(1)
}

// GetAllSnapshots implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllSnapshots() ([]schema.StreakSnapshotRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.StreakSnapshotRecord)
	return records, args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
