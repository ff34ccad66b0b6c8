package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
		wantLevel  zapcore.Level
	}{
		{"JSON output mode", true, VerbosityUser, zapcore.WarnLevel},
		{"Console output mode", false, VerbosityInfo, zapcore.InfoLevel},
		{"Console debug", false, VerbosityDebug, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Logger
			t.Cleanup(func() { Logger = prev; JSONOutput = false })

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.True(t, Logger.Desugar().Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, Logger.Desugar().Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
	assert.Equal(t, "Trace (-vvv)", LevelName(5))
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputResults))
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputFeedStatus))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputRejects))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputSQL))
	assert.Equal(t, "feed-status", CategoryName(OutputFeedStatus))
	assert.Equal(t, "unknown", CategoryName(OutputCategory(99)))
}

func TestFieldsFromContext(t *testing.T) {
	ctx := WithSource(WithComponent(context.Background(), "ingest"), "systems.json")
	assert.Equal(t, []interface{}{FieldComponent, "ingest", FieldPath, "systems.json"}, FieldsFromContext(ctx))
	assert.Empty(t, FieldsFromContext(context.Background()))
}

func TestSymbolHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core).Sugar()

	FeedInfow(log, "Connected", FieldURL, "tcp://relay")
	IngestInfow(log, "Loaded", FieldCount, 3)
	StarDebugw(log, "Created", FieldID, uint64(7))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "꩜", entries[0].ContextMap()[FieldSymbol])
	assert.Equal(t, "⨳", entries[1].ContextMap()[FieldSymbol])
	assert.Equal(t, "✦", entries[2].ContextMap()[FieldSymbol])
	assert.Equal(t, uint64(7), entries[2].ContextMap()[FieldID])
}
