package logger

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(str string) string {
	return ansiRegex.ReplaceAllString(str, "")
}

func encode(t *testing.T, level zapcore.Level, fields ...zapcore.Field) string {
	t.Helper()
	entry := zapcore.Entry{
		Level:      level,
		Time:       time.Date(2024, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "registry",
		Message:    "Learned region",
	}
	buf, err := newMinimalEncoder().EncodeEntry(entry, fields)
	require.NoError(t, err)
	defer buf.Free()
	return stripANSI(buf.String())
}

func TestMinimalEncoderLayout(t *testing.T) {
	out := encode(t, zapcore.InfoLevel,
		zap.String(FieldRegion, "Wregoe"),
		zap.Uint64(FieldID, 18446744073709551615),
		zap.Int(FieldDurationMS, 12),
	)
	assert.Equal(t, "13:04:35  registry  Learned region  Wregoe 18446744073709551615 12ms\n", out)
}

func TestMinimalEncoderShowsLevelAboveInfo(t *testing.T) {
	assert.Contains(t, encode(t, zapcore.WarnLevel), "  WARN  ")
	assert.Contains(t, encode(t, zapcore.ErrorLevel), "  ERROR  ")
	assert.NotContains(t, encode(t, zapcore.InfoLevel), "INFO")
}

func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	tests := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String("random_field_xyz", "important_data"), "random_field_xyz=important_data"},
		{zap.Int("critical_count", 999), "critical_count=999"},
		{zap.Bool("success", false), "success=false"},
		{zap.Float64("sqdist", 0.5), "sqdist=0.5"},
		{zap.Strings("names", []string{"Sol", "Achenar"}), "names=[Sol Achenar]"},
		{zap.Error(errors.New("queue full")), "queue full"},
	}

	var fields []zapcore.Field
	for _, tt := range tests {
		fields = append(fields, tt.field)
	}
	fields = append(fields, zap.Error(nil))

	out := encode(t, zapcore.InfoLevel, fields...)
	for _, tt := range tests {
		assert.Contains(t, out, tt.mustFind)
	}
}
