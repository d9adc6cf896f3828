// Package logger строит zap.Logger по уровню из конфигурации.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New возвращает development-логгер для уровня debug и production-логгер
// с заданным уровнем для остальных.
func New(level string) (*zap.Logger, error) {
	if strings.EqualFold(level, "debug") {
		return zap.NewDevelopment()
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
