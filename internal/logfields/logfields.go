// Package logfields holds the canonical slog attribute keys so every
// package logs the same names.
package logfields

import (
	"log/slog"
	"time"
)

const (
	KeyPath       = "path"
	KeyInput      = "input"
	KeyOutput     = "output"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyTrigger    = "trigger"
	KeySetting    = "setting"
	KeyEvent      = "event"
	KeyError      = "error"
)

func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Input(p string) slog.Attr      { return slog.String(KeyInput, p) }
func Output(p string) slog.Attr     { return slog.String(KeyOutput, p) }
func Stage(name string) slog.Attr   { return slog.String(KeyStage, name) }
func Count(n int) slog.Attr         { return slog.Int(KeyCount, n) }
func Trigger(name string) slog.Attr { return slog.String(KeyTrigger, name) }
func Setting(key string) slog.Attr  { return slog.String(KeySetting, key) }
func Event(op string) slog.Attr     { return slog.String(KeyEvent, op) }

// Duration logs d in fractional milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
