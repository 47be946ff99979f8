package core

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Timestamp layout for log lines. Sub-second precision is noise at the rate
// a game server logs.
const logTimeLayout = "2006-01-02 15:04:05"

// NewLogger builds the process-wide logger from the logging section of the
// server config. Logs go to stdout unless log_file_path points elsewhere.
func NewLogger(cfg *Config) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Logging.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("unrecognized log level %q: %w", cfg.Logging.LogLevel, err)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(logTimeLayout)
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	outputs := []string{"stdout"}
	if cfg.Logging.LogFilePath != "" {
		outputs = []string{cfg.Logging.LogFilePath}
	}

	logConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      true,
		DisableCaller:    !cfg.Logging.IncludeCaller,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Sugar(), nil
}
