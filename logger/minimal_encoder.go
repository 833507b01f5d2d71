package logger

import (
	"fmt"
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
	colorKey    = "\x1b[38;5;109m"
	colorWarn   = "\x1b[38;5;179m"
	colorWarnBg = "\x1b[48;5;58m"
	colorErr    = "\x1b[38;5;167m"
	colorErrBg  = "\x1b[48;5;52m"
)

var bufferPool = buffer.NewPool()

// minimalEncoder implements a compact console encoder.
// Format: "13:04:35  WARN  tl  skipping statement  line=12 error=missing type"
type minimalEncoder struct {
	zapcore.Encoder // base encoder for With() fields, unused in output
	color           bool
}

func newMinimalEncoder(color bool) *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		color:   color,
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		color:   enc.color,
	}
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color || s == "" {
		return s
	}
	return color + s + colorReset
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(enc.paint(colorTime, ent.Time.Format("15:04:05")))

	if label := enc.levelLabel(ent.Level); label != "" {
		final.AppendString("  ")
		final.AppendString(label)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(colorName, ent.LoggerName))
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	if rendered := enc.renderFields(fields); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// levelLabel is empty for info; everything else is labelled
func (enc *minimalEncoder) levelLabel(level zapcore.Level) string {
	switch level {
	case zapcore.InfoLevel:
		return ""
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.WarnLevel:
		if enc.color {
			return colorBold + colorWarnBg + colorWarn + "WARN" + colorReset
		}
		return "WARN"
	default:
		if enc.color {
			return colorBold + colorErrBg + colorErr + level.CapitalString() + colorReset
		}
		return level.CapitalString()
	}
}

// renderFields writes every field as key=value in call order.
// Verbose error stacks are left to the JSON output.
func (enc *minimalEncoder) renderFields(fields []zapcore.Field) string {
	var parts []string
	for _, field := range fields {
		m := zapcore.NewMapObjectEncoder()
		field.AddTo(m)
		for _, key := range fieldKeys(field, m) {
			if strings.HasSuffix(key, "Verbose") {
				continue
			}
			parts = append(parts, enc.paint(colorKey, key)+"="+fmt.Sprint(m.Fields[key]))
		}
	}
	return strings.Join(parts, " ")
}

// fieldKeys returns the keys a single field produced, primary key first
func fieldKeys(field zapcore.Field, m *zapcore.MapObjectEncoder) []string {
	if len(m.Fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m.Fields))
	if _, ok := m.Fields[field.Key]; ok {
		keys = append(keys, field.Key)
	}
	for key := range m.Fields {
		if key != field.Key {
			keys = append(keys, key)
		}
	}
	return keys
}
