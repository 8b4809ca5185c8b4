package db

// Timestamps are stored as UTC text so SQLite's date functions can read them.
const (
	sqlTimeFormat = "2006-01-02 15:04:05"
	sqlDateFormat = "2006-01-02"
)
