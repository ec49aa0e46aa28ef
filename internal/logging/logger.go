// Package logging provides structured logging for the partrace engine.
//
// It favors explicit, boring Go over clever abstractions: named loggers,
// five levels (DEBUG, INFO, WARN, ERROR, FATAL) and optional key-value
// fields. Initialize the global level once at startup:
//
//	logging.Initialize("info")
//
// then obtain named loggers per component:
//
//	logger := logging.GetLogger("engine")
//	logger.Info("analysis complete for part %s", partID)
//	logger.InfoWithFields("analysis complete",
//	    logging.Field("part_id", partID),
//	    logging.Field("duration_ms", elapsed.Milliseconds()),
//	)
//
// Logger instances are immutable; WithField and WithFields return new
// instances, making them safe to share across goroutines.
package logging

import (
	"os"
	"sync"
)

var (
	globalLogger *Logger
	initOnce     sync.Once
	// exitFunc is called by Fatal. Overridable for testing.
	exitFunc = os.Exit
)

// Initialize configures the global logger with the given default level.
// Unknown level strings fall back to INFO.
func Initialize(levelStr string) error {
	level, err := parseLevel(levelStr)
	if err != nil {
		level = INFO
	}
	globalLogger = &Logger{
		level: level,
		name:  "partrace",
	}
	return err
}

// GetLogger returns a named logger inheriting the global level.
func GetLogger(name string) *Logger {
	initOnce.Do(func() {
		if globalLogger == nil {
			_ = Initialize("info")
		}
	})
	return &Logger{
		level:  globalLogger.level,
		name:   name,
		fields: make(map[string]interface{}),
	}
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return level >= l.level
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.shouldLog(DEBUG) {
		l.logf("DEBUG", msg, args...)
	}
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.shouldLog(INFO) {
		l.logf("INFO", msg, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(WARN) {
		l.logf("WARN", msg, args...)
	}
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	if l.shouldLog(ERROR) {
		l.logf(strError, msg, args...)
	}
}

// Fatal logs a fatal message and exits the program with code 1
func (l *Logger) Fatal(msg string, args ...interface{}) {
	if l.shouldLog(FATAL) {
		l.logf(strFatal, msg, args...)
		exitFunc(1)
	}
}

// ErrorWithErr logs an error message with an error object
func (l *Logger) ErrorWithErr(msg string, err error, args ...interface{}) {
	if l.shouldLog(ERROR) {
		args = append(args, err)
		l.logf(strError, msg+" - %v", args...)
	}
}

// WithField returns a new logger carrying an additional persistent field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	newLogger := &Logger{
		level:  l.level,
		name:   l.name,
		fields: cloneFields(l.fields),
	}
	newLogger.fields[key] = value
	return newLogger
}

// WithFields returns a new logger carrying additional persistent fields.
func (l *Logger) WithFields(fields ...LogField) *Logger {
	newLogger := &Logger{
		level:  l.level,
		name:   l.name,
		fields: cloneFields(l.fields),
	}
	for _, f := range fields {
		newLogger.fields[f.Key] = f.Value
	}
	return newLogger
}

// DebugWithFields logs a debug message with structured fields
func (l *Logger) DebugWithFields(msg string, fields ...LogField) {
	if l.shouldLog(DEBUG) {
		l.logWithFields("DEBUG", msg, fields...)
	}
}

// InfoWithFields logs an info message with structured fields
func (l *Logger) InfoWithFields(msg string, fields ...LogField) {
	if l.shouldLog(INFO) {
		l.logWithFields("INFO", msg, fields...)
	}
}

// WarnWithFields logs a warning message with structured fields
func (l *Logger) WarnWithFields(msg string, fields ...LogField) {
	if l.shouldLog(WARN) {
		l.logWithFields("WARN", msg, fields...)
	}
}

// ErrorWithFields logs an error message with structured fields
func (l *Logger) ErrorWithFields(msg string, fields ...LogField) {
	if l.shouldLog(ERROR) {
		l.logWithFields(strError, msg, fields...)
	}
}

func (l *Logger) logWithFields(level, msg string, fields ...LogField) {
	var merged map[string]interface{}
	if len(l.fields) > 0 || len(fields) > 0 {
		merged = make(map[string]interface{})
		for k, v := range l.fields {
			merged[k] = v
		}
		// Method-specific fields win over persistent ones
		for _, f := range fields {
			merged[f.Key] = f.Value
		}
	}
	l.writeLog(level, msg, merged)
}
