package utils

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// JobLogger представляет логгер заданий хранилища.
// Сообщения пишутся в stdout и в дневной лог-файл.
type JobLogger struct {
	zl *zap.Logger
}

// NewJobLogger создает новый экземпляр логгера с указанным уровнем
// ("debug", "info", "warn", "error")
func NewJobLogger(level string) (*JobLogger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	logFileName := fmt.Sprintf("warehouse_log_%s.log", time.Now().Format("2006-01-02"))

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout", logFileName},
		ErrorOutputPaths: []string{"stderr"},
	}

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("ошибка при инициализации логгера: %w", err)
	}

	return &JobLogger{zl: zl}, nil
}

// NewNopJobLogger возвращает логгер, отбрасывающий все сообщения.
// Используется в тестах.
func NewNopJobLogger() *JobLogger {
	return &JobLogger{zl: zap.NewNop()}
}

// Info логирует информационное сообщение
func (l *JobLogger) Info(format string, v ...interface{}) {
	l.zl.Info(fmt.Sprintf(format, v...))
}

// Error логирует сообщение об ошибке
func (l *JobLogger) Error(format string, v ...interface{}) {
	l.zl.Error(fmt.Sprintf(format, v...))
}

// Warn логирует предупреждение
func (l *JobLogger) Warn(format string, v ...interface{}) {
	l.zl.Warn(fmt.Sprintf(format, v...))
}

// Debug логирует отладочное сообщение
func (l *JobLogger) Debug(format string, v ...interface{}) {
	l.zl.Debug(fmt.Sprintf(format, v...))
}

// Sync сбрасывает буферы логгера
func (l *JobLogger) Sync() error {
	return l.zl.Sync()
}

// LogRunStart логирует начало запуска задания классификации
func (l *JobLogger) LogRunStart() {
	l.Info("Начало выполнения задания классификации клиентов")
}

// LogRunComplete логирует завершение запуска задания классификации
func (l *JobLogger) LogRunComplete(startTime time.Time, customersClassified, purchasesScanned int) {
	l.Info("Задание классификации завершено. Длительность: %v", time.Since(startTime))
	l.Info("Классифицировано клиентов: %d, учтено покупок: %d", customersClassified, purchasesScanned)
}
