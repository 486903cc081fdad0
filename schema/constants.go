package schema

import "time"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// StreakMode represents the granularity a streak is measured in.
	StreakMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string

	// NotifierKind represents the delivery channel for streak reminders.
	NotifierKind string

	// RunStatus represents the outcome of a refresh run.
	RunStatus string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// DailyMode is the only streak mode; days are the unit of continuity.
const DailyMode StreakMode = "daily"

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All reminder channels supported.
const (
	ConsoleNotifier  NotifierKind = "console" // default
	TelegramNotifier NotifierKind = "telegram"
	NoNotifier       NotifierKind = "none"
)

// All refresh run outcomes.
const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
	RunThrottled RunStatus = "throttled"
)

// ISODate is the layout of every date key in an ActivityLog.
const ISODate = time.DateOnly

// ShortWeekdays lists the locale-independent weekday names in time.Weekday order.
var ShortWeekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidNotifierKinds lists all valid reminder channels.
var ValidNotifierKinds = map[NotifierKind]struct{}{
	ConsoleNotifier:  {},
	TelegramNotifier: {},
	NoNotifier:       {},
}
