package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultServiceName names entries from binaries that do not pass their own.
const DefaultServiceName = "agrofund"

// NewLogger builds the service logger.
// level: any zap level name; unknown values fall back to info.
// format: "console" for development output, anything else is JSON.
// The logger is named after serviceName and tags every entry with
// service_name and hostname so the three binaries can share one sink.
func NewLogger(level string, format string, serviceName string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil || level == "" {
		zapLevel = zapcore.InfoLevel
	}
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	var config zap.Config
	if format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	fields := []zap.Field{zap.String("service_name", serviceName)}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		fields = append(fields, zap.String("hostname", hostname))
	}

	l, err := config.Build(zap.Fields(fields...))
	if err != nil {
		return nil, err
	}
	return l.Named(serviceName), nil
}
