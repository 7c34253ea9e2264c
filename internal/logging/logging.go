// Package logging sets up the gateway's structured logger. The teacher
// control plane used log/slog with a text handler on stdout; this
// repository adopts zap's SugaredLogger instead, keeping the same
// key-value call shape ("msg", "key", value, ...) so the access-log and
// error-log call sites read the same way.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a SugaredLogger that writes info-and-below to stdout and
// warn-and-above to stderr, matching the "access logs on stdout,
// structured error logs on stderr" split the core's runtime-outputs
// contract requires.
func New(debug bool) *zap.SugaredLogger {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewConsoleEncoder(encCfg)

	stdout := zapcore.Lock(os.Stdout)
	stderr := zapcore.Lock(os.Stderr)

	core := zapcore.NewTee(
		zapcore.NewCore(enc, stdout, levelEnabler{level, zapcore.InfoLevel}),
		zapcore.NewCore(enc, stderr, zapcore.WarnLevel),
	)

	return zap.New(core).Sugar()
}

// levelEnabler restricts a core to everything between min and max,
// inclusive, so the stdout core doesn't duplicate error lines onto
// stderr's dedicated core.
type levelEnabler struct {
	min, max zapcore.Level
}

func (l levelEnabler) Enabled(lv zapcore.Level) bool {
	return lv >= l.min && lv <= l.max
}
