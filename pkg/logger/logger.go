package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 定義 Logger 的配置
type Config struct {
	Level       string `yaml:"level"`       // Log 等級: "debug", "info", "warn", "error"
	Development bool   `yaml:"development"` // 開發模式: console 格式、彩色等級
}

// New 根據配置建立 zap Logger
//
// 參數:
//
//	cfg: Config - Logger 配置
//
// 回傳值:
//
//	*zap.Logger: Logger 實例
//	error: 等級無法解析或建立失敗
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.EncoderConfig.TimeKey = "time"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapConfig.Build()
}
