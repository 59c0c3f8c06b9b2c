package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultCommandTimeoutSeconds bounds shell command wall-clock time (0 disables)
	DefaultCommandTimeoutSeconds = 60
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 60 * time.Second
	// CountdownGracePeriod is the warning delay before unattended execution
	CountdownGracePeriod = 5 * time.Second
)

// Limit constants
const (
	// DefaultMaxContextWords caps the rolling conversation context, in words
	DefaultMaxContextWords = 512
	// DefaultMaxCommandLength blocks generated commands longer than this many characters
	DefaultMaxCommandLength = 300
	// MaxFailedClassifications trips the classification circuit breaker
	MaxFailedClassifications = 3
	// TimeoutExitCode is reported when a command is killed by its timeout
	TimeoutExitCode = 124
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
)

// Model configuration constants
const (
	// DefaultTemperature is the sampling temperature for content calls
	DefaultTemperature = 0.2
	// DefaultMaxTokens is the default maximum number of tokens per completion
	DefaultMaxTokens = 1024
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
	// SessionStampFormat names per-session snapshot files
	SessionStampFormat = "20060102-150405"
)
