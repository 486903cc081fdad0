package contract

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitstreak/core/streak"
	"github.com/huangsam/gitstreak/schema"
	rcron "github.com/robfig/cron/v3"
)

// Default values for configuration.
const (
	DefaultAPIURL               = "https://api.github.com"
	DefaultRefreshInterval      = 5 * time.Minute
	DefaultSchedule             = "@every 30m"
	DefaultNotificationSchedule = "@every 1m"
	DefaultReminderHour         = 20
	MaxWorkers                  = 32
)

// FirstContributionYear is the earliest year GitHub records contributions for.
const FirstContributionYear = 2005

// DefaultWorkers is the default number of concurrent year fetches.
var DefaultWorkers = min(runtime.GOMAXPROCS(0), 4)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// loginRe matches GitHub logins: alphanumerics separated by single hyphens.
// The 39 character limit is checked separately.
var loginRe = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9]|-[a-zA-Z0-9])*$`)

// maxLoginLength is the longest login GitHub allows.
const maxLoginLength = 39

// scheduleParser accepts five or six field cron specs and @descriptors.
var scheduleParser = rcron.NewParser(
	rcron.SecondOptional | rcron.Minute | rcron.Hour | rcron.Dom | rcron.Month | rcron.Dow | rcron.Descriptor,
)

// Config holds the runtime configuration for streak analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Login  string
	Token  string // Please use env var as this is plaintext
	APIURL string

	ExcludeDays     schema.WeekdaySet
	RefreshInterval time.Duration
	Force           bool
	Workers         int
	Since           string // ISO date lower bound for log output

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Schedule       string
	Reminder       schema.NotifierKind
	ReminderHour   int
	MetricsAddr    string
	TelegramToken  string
	TelegramChatID int64

	Notifications        bool
	NotificationSchedule string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	LoginArg string

	// --- Fields from rootCmd.PersistentFlags() ---
	Login            string `mapstructure:"login"`
	Token            string `mapstructure:"token"`
	APIURL           string `mapstructure:"api-url"`
	ExcludeDays      string `mapstructure:"exclude-days"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Workers          int    `mapstructure:"workers"`
	RefreshInterval  string `mapstructure:"refresh-interval"`
	Force            bool   `mapstructure:"force"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from logCmd.Flags() ---
	Since string `mapstructure:"since"`

	// --- Fields from watchCmd.Flags() ---
	Schedule       string `mapstructure:"schedule"`
	Reminder       string `mapstructure:"reminder"`
	ReminderHour   int    `mapstructure:"reminder-hour"`
	MetricsAddr    string `mapstructure:"metrics-addr"`
	TelegramToken  string `mapstructure:"telegram-token"`
	TelegramChatID string `mapstructure:"telegram-chat-id"`

	Notifications        bool   `mapstructure:"notifications"`
	NotificationSchedule string `mapstructure:"notifications-schedule"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.ExcludeDays != nil {
		clone.ExcludeDays = schema.NewWeekdaySet(c.ExcludeDays.Names()...)
	}
	return &clone
}

// CloneForLogin creates a copy of the Config targeting another login.
func (c *Config) CloneForLogin(login string) *Config {
	clone := c.Clone()
	clone.Login = login
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processLogin(cfg, input); err != nil {
		return err
	}
	if err := processExcludeDays(cfg, input); err != nil {
		return err
	}
	if err := processWatchSettings(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateLogin checks a GitHub login against the username rules.
func ValidateLogin(login string) error {
	if login == "" {
		return fmt.Errorf("a GitHub login is required (pass it as an argument or set 'login')")
	}
	if len(login) > maxLoginLength || !loginRe.MatchString(login) {
		return fmt.Errorf("invalid GitHub login '%s'", login)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateSchedule checks a cron spec such as "0 9 * * *" or "@every 30m".
func ValidateSchedule(spec string) error {
	if _, err := scheduleParser.Parse(spec); err != nil {
		return fmt.Errorf("invalid schedule '%s': %w", spec, err)
	}
	return nil
}

// validateBackendConfigs validates log cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates fields that need no cross-checks.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Token = strings.TrimSpace(input.Token)
	cfg.OutputFile = input.OutputFile
	cfg.Force = input.Force
	cfg.Width = input.Width

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(input.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		return fmt.Errorf("api-url must start with http:// or https:// (received %s)", input.APIURL)
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.RefreshInterval = DefaultRefreshInterval
	if input.RefreshInterval != "" {
		interval, err := ParseInterval(input.RefreshInterval)
		if err != nil {
			return fmt.Errorf("invalid refresh-interval: %w", err)
		}
		cfg.RefreshInterval = interval
	}

	since, err := ParseSince(input.Since, time.Now())
	if err != nil {
		return err
	}
	cfg.Since = since

	return nil
}

// processLogin resolves the login from the positional argument or config.
// The login is optional at this stage; commands that need one call ValidateLogin.
func processLogin(cfg *Config, input *ConfigRawInput) error {
	login := strings.TrimSpace(input.LoginArg)
	if login == "" {
		login = strings.TrimSpace(input.Login)
	}
	cfg.Login = login
	if login == "" {
		return nil
	}
	return ValidateLogin(login)
}

// processExcludeDays parses a comma separated weekday list such as "sat,sun".
func processExcludeDays(cfg *Config, input *ConfigRawInput) error {
	var parts []string
	for p := range strings.SplitSeq(input.ExcludeDays, ",") {
		parts = append(parts, p)
	}
	days, err := streak.ParseWeekdays(parts)
	if err != nil {
		return fmt.Errorf("invalid exclude-days: %w", err)
	}
	cfg.ExcludeDays = days
	return nil
}

// processWatchSettings handles the scheduling and reminder parameters.
func processWatchSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.Schedule = strings.TrimSpace(input.Schedule)
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if err := ValidateSchedule(cfg.Schedule); err != nil {
		return err
	}

	cfg.Reminder = schema.NotifierKind(strings.ToLower(input.Reminder))
	if cfg.Reminder == "" {
		cfg.Reminder = schema.ConsoleNotifier
	}
	if _, ok := schema.ValidNotifierKinds[cfg.Reminder]; !ok {
		return fmt.Errorf("invalid reminder '%s'. must be console, telegram, none", input.Reminder)
	}

	if input.ReminderHour < 0 || input.ReminderHour > 23 {
		return fmt.Errorf("reminder-hour must be between 0 and 23 (received %d)", input.ReminderHour)
	}
	cfg.ReminderHour = input.ReminderHour
	cfg.MetricsAddr = strings.TrimSpace(input.MetricsAddr)

	cfg.TelegramToken = strings.TrimSpace(input.TelegramToken)
	if input.TelegramChatID != "" {
		chatID, err := strconv.ParseInt(strings.TrimSpace(input.TelegramChatID), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid telegram-chat-id '%s': %w", input.TelegramChatID, err)
		}
		cfg.TelegramChatID = chatID
	}
	if cfg.Reminder == schema.TelegramNotifier && (cfg.TelegramToken == "" || cfg.TelegramChatID == 0) {
		return fmt.Errorf("telegram reminders require telegram-token and telegram-chat-id")
	}

	cfg.Notifications = input.Notifications
	cfg.NotificationSchedule = strings.TrimSpace(input.NotificationSchedule)
	if cfg.NotificationSchedule == "" {
		cfg.NotificationSchedule = DefaultNotificationSchedule
	}
	if err := ValidateSchedule(cfg.NotificationSchedule); err != nil {
		return fmt.Errorf("notifications-schedule: %w", err)
	}
	return nil
}

// NewScheduler returns a cron scheduler accepting the same specs as ValidateSchedule.
// A job that is still running when its next tick arrives is skipped.
func NewScheduler() *rcron.Cron {
	return rcron.New(
		rcron.WithParser(scheduleParser),
		rcron.WithChain(rcron.SkipIfStillRunning(rcron.DiscardLogger)),
	)
}

// RevalidateOverrides applies per-request overrides to a cloned config and
// validates them. Empty login, excludeDays and since keep the configured values.
func RevalidateOverrides(cfg *Config, login, excludeDays, since string, now time.Time) error {
	if login = strings.TrimSpace(login); login != "" {
		cfg.Login = login
	}
	if err := ValidateLogin(cfg.Login); err != nil {
		return err
	}
	if excludeDays != "" {
		days, err := streak.ParseWeekdays(strings.Split(excludeDays, ","))
		if err != nil {
			return fmt.Errorf("invalid exclude-days: %w", err)
		}
		cfg.ExcludeDays = days
	}
	if since != "" {
		date, err := ParseSince(since, now)
		if err != nil {
			return err
		}
		cfg.Since = date
	}
	return nil
}
