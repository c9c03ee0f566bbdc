package postgres

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = time.Second

// NewGormLogger routes gorm's warnings, errors and slow queries into zap.
// Missing rows are not logged; repositories turn them into ObjectNotFound.
func NewGormLogger(logger *zap.Logger) gormlogger.Interface {
	logger = logger.With(zap.String("component", "gorm"))
	writer, err := zap.NewStdLogAt(logger, zapcore.WarnLevel)
	if err != nil {
		writer = zap.NewStdLog(logger)
	}

	return gormlogger.New(writer, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
