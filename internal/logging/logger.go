package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger that writes JSON to the given log file path and
// also writes to stderr. Profile name and PID are included as initial
// fields.
func New(logPath, profileName string) (*zap.Logger, error) {
	return build(logPath, profileName, true)
}

// NewFileOnly creates a zap logger that writes to the log file but not to
// stderr. The TUI owns the terminal, so console output would corrupt the
// screen.
func NewFileOnly(logPath, profileName string) (*zap.Logger, error) {
	return build(logPath, profileName, false)
}

func build(logPath, profileName string, console bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	jsonEncoder := zapcore.NewJSONEncoder(encoderCfg)
	fileCore := zapcore.NewCore(jsonEncoder, zapcore.AddSync(file), zapcore.InfoLevel)

	core := fileCore
	if console {
		consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
		core = zapcore.NewTee(fileCore,
			zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stderr), zapcore.InfoLevel))
	}

	logger := zap.New(core,
		zap.Fields(
			zap.String("profile", profileName),
			zap.Int("pid", os.Getpid()),
		),
	)

	return logger, nil
}
