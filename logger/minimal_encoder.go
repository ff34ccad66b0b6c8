package logger

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset  = "\x1b[0m"
	colorBold   = "\x1b[1m"
	colorTime   = "\x1b[38;5;107m"
	colorName   = "\x1b[38;5;208m"
	colorValue  = "\x1b[38;5;109m"
	colorNumber = "\x1b[38;5;175m"
	colorWarn   = "\x1b[38;5;179m\x1b[48;5;58m"
	colorError  = "\x1b[38;5;167m\x1b[48;5;52m"
)

var bufferPool = buffer.NewPool()

// consoleFields are rendered, in this order, after the message. Anything
// else is left to the JSON form.
var consoleFields = []string{
	FieldSymbol,
	FieldSystem,
	FieldRegion,
	FieldID,
	FieldOutcome,
	FieldEvent,
	FieldCount,
	FieldSkipped,
	FieldDurationMS,
	FieldPath,
	FieldURL,
	FieldError,
}

// minimalEncoder is a compact console encoder:
// "13:04:35  registry  Learned region  Wregoe (39,32,18)"
type minimalEncoder struct {
	zapcore.Encoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(colorTime)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if ent.Level > zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorName)
		final.AppendString(ent.LoggerName)
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	if values := extractFieldValues(fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

func levelString(level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + colorWarn + "WARN" + colorReset
	default:
		return colorBold + colorError + level.CapitalString() + colorReset
	}
}

// fieldValue renders the value of a zap field, or "" for types the console
// form does not show.
func fieldValue(field zapcore.Field) (string, bool) {
	switch field.Type {
	case zapcore.StringType:
		return field.String, false
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return strconv.FormatInt(field.Integer, 10), true
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return strconv.FormatUint(uint64(field.Integer), 10), true
	case zapcore.Float64Type:
		return strconv.FormatFloat(math.Float64frombits(uint64(field.Integer)), 'f', -1, 64), true
	case zapcore.BoolType:
		return strconv.FormatBool(field.Integer == 1), false
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error(), false
		}
	case zapcore.StringerType:
		if s, ok := field.Interface.(interface{ String() string }); ok {
			return s.String(), false
		}
	}
	return "", false
}

// extractFieldValues renders the well-known fields as bare values, then every
// other field as key=value. No field is dropped.
func extractFieldValues(fields []zapcore.Field) string {
	byKey := make(map[string]zapcore.Field, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f
	}

	known := make(map[string]bool, len(consoleFields))
	var values []string
	for _, key := range consoleFields {
		known[key] = true
		f, ok := byKey[key]
		if !ok {
			continue
		}
		val, numeric := fieldValue(f)
		if val == "" {
			continue
		}
		color := colorValue
		if numeric {
			color = colorNumber
		}
		if key == FieldDurationMS {
			val += "ms"
		}
		values = append(values, color+val+colorReset)
	}

	for _, f := range fields {
		if known[f.Key] || f.Type == zapcore.SkipType {
			continue
		}
		val, _ := fieldValue(f)
		if val == "" {
			val = otherValue(f)
		}
		values = append(values, f.Key+"="+val)
	}
	return strings.Join(values, " ")
}

// otherValue encodes a field the console form has no special rendering for,
// such as arrays and objects, through a throwaway map encoder.
func otherValue(f zapcore.Field) string {
	m := zapcore.NewMapObjectEncoder()
	f.AddTo(m)
	return fmt.Sprint(m.Fields[f.Key])
}
