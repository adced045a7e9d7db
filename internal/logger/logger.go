package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tenderportal/internal/config"
)

// New собирает логгер: в production структурный JSON, иначе
// человекочитаемый вывод для разработки
func New(cfg *config.Config) (*zap.Logger, error) {
	var logConfig zap.Config
	if cfg.Env == "production" {
		logConfig = zap.NewProductionConfig()
	} else {
		logConfig = zap.NewDevelopmentConfig()
		if cfg.LogFile == "" {
			logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}
	logConfig.Level.SetLevel(level)

	// Терминал занят интерфейсом, лог уходит в файл
	if cfg.LogFile != "" {
		logConfig.OutputPaths = []string{cfg.LogFile}
		logConfig.ErrorOutputPaths = []string{cfg.LogFile}
	}

	return logConfig.Build()
}
