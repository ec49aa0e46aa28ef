package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"Warn", WARN, false},
		{"error", ERROR, false},
		{"fatal", FATAL, false},
		{"verbose", -1, true},
		{"", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, level)
			}
		})
	}
}

func TestInitializeUnknownLevelFallsBackToInfo(t *testing.T) {
	err := Initialize("nonsense")
	assert.Error(t, err)

	logger := GetLogger("test")
	assert.False(t, logger.shouldLog(DEBUG))
	assert.True(t, logger.shouldLog(INFO))
}

func TestLevelFiltering(t *testing.T) {
	require.NoError(t, Initialize("warn"))
	logger := GetLogger("test")

	assert.False(t, logger.shouldLog(DEBUG))
	assert.False(t, logger.shouldLog(INFO))
	assert.True(t, logger.shouldLog(WARN))
	assert.True(t, logger.shouldLog(ERROR))

	require.NoError(t, Initialize("info"))
}

func TestWithFieldReturnsNewLogger(t *testing.T) {
	base := GetLogger("test")
	derived := base.WithField("part_id", "PZA-0001")

	assert.NotSame(t, base, derived)
	assert.Empty(t, base.fields)
	assert.Equal(t, "PZA-0001", derived.fields["part_id"])
}

func TestWithFieldsMergesAndOverrides(t *testing.T) {
	logger := GetLogger("test").
		WithFields(Field("a", 1), Field("b", 2)).
		WithFields(Field("b", 3))

	assert.Equal(t, 1, logger.fields["a"])
	assert.Equal(t, 3, logger.fields["b"])
}

func TestFatalUsesExitFunc(t *testing.T) {
	exitCode := -1
	original := exitFunc
	exitFunc = func(code int) { exitCode = code }
	defer func() { exitFunc = original }()

	GetLogger("test").Fatal("fatal condition")

	assert.Equal(t, 1, exitCode)
}

func TestGetTimestampHonorsOverride(t *testing.T) {
	t.Setenv("LOG_TIMESTAMP", "2026-03-10T08:00:00Z")
	assert.Equal(t, "2026-03-10T08:00:00Z", GetTimestamp())
}
