package logging

import (
	"fmt"
	"strings"
)

// LogLevel represents the logging level
type LogLevel int

const (
	// DEBUG level for detailed debugging information
	DEBUG LogLevel = iota
	// INFO level for informational messages
	INFO
	// WARN level for warning messages
	WARN
	// ERROR level for error messages
	ERROR
	// FATAL level for fatal messages
	FATAL
)

const (
	strError = "ERROR"
	strFatal = "FATAL"
)

// LogField represents a structured logging field
type LogField struct {
	Key   string
	Value interface{}
}

// Field creates a structured logging field
func Field(key string, value interface{}) LogField {
	return LogField{Key: key, Value: value}
}

// Logger provides structured logging throughout the application
type Logger struct {
	level  LogLevel
	name   string
	fields map[string]interface{}
}

// parseLevel converts a string level to LogLevel enum
func parseLevel(levelStr string) (LogLevel, error) {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN":
		return WARN, nil
	case strError:
		return ERROR, nil
	case strFatal:
		return FATAL, nil
	default:
		return -1, fmt.Errorf("invalid level: %s (must be DEBUG, INFO, WARN, ERROR, or FATAL)", levelStr)
	}
}

// cloneFields returns a shallow copy of a fields map.
func cloneFields(fields map[string]interface{}) map[string]interface{} {
	cloned := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		cloned[k] = v
	}
	return cloned
}
