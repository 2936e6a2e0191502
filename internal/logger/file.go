package logger

import (
	"fmt"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// fileLogMaxAge is how long rotated log files are kept.
	fileLogMaxAge = 7 * 24 * time.Hour
	// fileLogRotationTime is how often a new log file is started.
	fileLogRotationTime = 24 * time.Hour
	// fileLogSuffix is the strftime pattern appended to the configured prefix.
	fileLogSuffix = "-%Y-%m-%d.log"
)

// NewWithFile creates a logger that writes to stdout at level and, in JSON form,
// to rotating files named <prefix>-YYYY-MM-DD.log at fileLevel.
// A nil fileLevel follows level. The returned closer releases the file handle.
func NewWithFile(
	level, fileLevel zapcore.LevelEnabler,
	prefix string,
	options ...zap.Option,
) (*zap.SugaredLogger, func() error, error) {
	if level == nil {
		level = defaultLevel
	}

	if fileLevel == nil {
		fileLevel = level
	}

	fileLog, err := rotatelogs.New(
		prefix+fileLogSuffix,
		rotatelogs.WithMaxAge(fileLogMaxAge),
		rotatelogs.WithRotationTime(fileLogRotationTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open rotating log %s: %w", prefix, err)
	}

	//nolint:exhaustruct // Production defaults are fine for the file sink.
	fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder(), zapcore.AddSync(os.Stdout), level),
		zapcore.NewCore(fileEncoder, zapcore.AddSync(fileLog), fileLevel),
	)

	return zap.New(core, options...).Sugar(), fileLog.Close, nil
}
