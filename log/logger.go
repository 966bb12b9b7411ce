package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger used across the service.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)
}

// NoOpLogger discards everything. Useful in tests.
type NoOpLogger struct{}

var (
	_ Logger = &NoOpLogger{}
	_ Logger = &loggerImpl{}
)

// Debug implements Logger.
func (*NoOpLogger) Debug(msg string, fields ...zap.Field) {}

// Error implements Logger.
func (*NoOpLogger) Error(msg string, fields ...zap.Field) {}

// Fatal implements Logger.
func (*NoOpLogger) Fatal(msg string, fields ...zap.Field) {}

// Info implements Logger.
func (*NoOpLogger) Info(msg string, fields ...zap.Field) {}

// Warn implements Logger.
func (*NoOpLogger) Warn(msg string, fields ...zap.Field) {}

type loggerImpl struct {
	zapLogger *zap.Logger
}

// Debug implements Logger.
func (l *loggerImpl) Debug(msg string, fields ...zap.Field) {
	l.zapLogger.Debug(msg, fields...)
}

// Error implements Logger.
func (l *loggerImpl) Error(msg string, fields ...zap.Field) {
	l.zapLogger.Error(msg, fields...)
}

// Fatal implements Logger.
func (l *loggerImpl) Fatal(msg string, fields ...zap.Field) {
	l.zapLogger.Fatal(msg, fields...)
}

// Info implements Logger.
func (l *loggerImpl) Info(msg string, fields ...zap.Field) {
	l.zapLogger.Info(msg, fields...)
}

// Warn implements Logger.
func (l *loggerImpl) Warn(msg string, fields ...zap.Field) {
	l.zapLogger.Warn(msg, fields...)
}

// NewLogger creates a new logger.
// If fileName is non-empty, it pipes logs to file and stdout.
// if level is empty, info level is used.
func NewLogger(isProduction bool, fileName string, logLevelStr string) (Logger, error) {
	logLevel := zap.InfoLevel
	if logLevelStr != "" {
		if err := logLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", logLevelStr, err)
		}
	}

	var encoderConfig zapcore.EncoderConfig
	if isProduction {
		encoderConfig = zap.NewProductionEncoderConfig()
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if isProduction {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	writers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if fileName != "" {
		logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		writers = append(writers, zapcore.AddSync(logFile))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), logLevel)

	return &loggerImpl{
		zapLogger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
	}, nil
}
