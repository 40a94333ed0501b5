package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"

	colorTime      = "\x1b[38;5;107m"
	colorComponent = "\x1b[38;5;208m"
	colorMessage   = "\x1b[38;5;223m"
	colorLocation  = "\x1b[38;5;109m"
	colorNumber    = "\x1b[38;5;108m"
	colorWarn      = "\x1b[38;5;179m"
	colorWarnBg    = "\x1b[48;5;58m"
	colorError     = "\x1b[38;5;167m"
	colorErrorBg   = "\x1b[48;5;52m"
)

var bufferPool = buffer.NewPool()

// consoleEncoder implements a compact console encoder.
// Format: "13:04:35  WARN  gen  Skipping declaration  widget.h Widget::frob  member pointer"
type consoleEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
}

func newConsoleEncoder() *consoleEncoder {
	return &consoleEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *consoleEncoder) Clone() zapcore.Encoder {
	return &consoleEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *consoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(colorTime)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only shown when it is not INFO
	if label := levelLabel(ent.Level); label != "" {
		final.AppendString("  ")
		final.AppendString(label)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorMessage)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	if values := extractFieldValues(fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

func levelLabel(level zapcore.Level) string {
	switch level {
	case zapcore.InfoLevel:
		return ""
	case zapcore.DebugLevel:
		return colorTime + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + colorWarnBg + colorWarn + "WARN" + colorReset
	default:
		return colorBold + colorErrorBg + colorError + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: generate.backend -> g.backend
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// extractFieldValues renders the known fields as a short trailing summary.
// Input: {"file": "widget.h", "decl": "Widget::frob", "count": 3}
// Output: "widget.h Widget::frob (3)"
func extractFieldValues(fields []zapcore.Field) string {
	var values []string
	var count, duration string

	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		switch field.Key {
		case FieldUnit, FieldFile, FieldDecl, FieldMacro, FieldPattern, FieldTypeMap:
			values = append(values, colorLocation+val+colorReset)
		case FieldConstruct, FieldReason, FieldKind:
			values = append(values, colorMessage+val+colorReset)
		case FieldError:
			values = append(values, colorError+val+colorReset)
		case FieldCount:
			count = val
		case FieldDurationMS:
			duration = val
		}
	}

	if count != "" {
		values = append(values, "("+colorNumber+count+colorReset+")")
	}
	if duration != "" {
		values = append(values, colorNumber+duration+colorReset+"ms")
	}

	return strings.Join(values, " ")
}
