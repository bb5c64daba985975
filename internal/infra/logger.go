package infra

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the CLI logger. With a log file it writes production JSON
// (ISO8601 "time" key) to that file, falling back to stderr if the file cannot
// be opened. Without one it returns a development console logger; rawTerminal
// ends its lines with CRLF because raw mode disables output newline translation.
func NewLogger(file, level string, rawTerminal bool) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	if file == "" {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(lvl)
		if rawTerminal {
			config.EncoderConfig.LineEnding = "\r\n"
		}
		return config.Build()
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{ExpandHome(file)}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		config.OutputPaths = []string{"stderr"}
		return config.Build()
	}
	return logger, nil
}
