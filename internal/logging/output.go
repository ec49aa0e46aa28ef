package logging

import (
	"fmt"
	"log"
	"os"
	"sort"
	"time"
)

// writeLog formats a message with optional fields and routes it to the
// appropriate stream: DEBUG/INFO/WARN to stdout, ERROR/FATAL to stderr.
func (l *Logger) writeLog(level, msg string, fields map[string]interface{}) {
	logMsg := fmt.Sprintf("[%s] [%s] %s: %s", GetTimestamp(), level, l.name, msg)

	if len(fields) > 0 {
		// Sorted keys keep output deterministic for tests
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		logMsg += " |"
		for _, k := range keys {
			logMsg += fmt.Sprintf(" %s=%v", k, fields[k])
		}
	}

	if level == strError || level == strFatal {
		fmt.Fprintf(os.Stderr, "%s\n", logMsg)
	} else {
		log.Println(logMsg)
	}
}

func (l *Logger) logf(level, msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)

	var fields map[string]interface{}
	if len(l.fields) > 0 {
		fields = cloneFields(l.fields)
	}

	l.writeLog(level, formattedMsg, fields)
}

// GetTimestamp returns the RFC3339 timestamp used in log lines.
// The LOG_TIMESTAMP environment variable overrides it for deterministic
// test output.
func GetTimestamp() string {
	if ts := os.Getenv("LOG_TIMESTAMP"); ts != "" {
		return ts
	}
	return time.Now().UTC().Format(time.RFC3339)
}
