package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/talentflow/pkg/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLog routes gorm's query log through the service logger.
type gormLog struct {
	log   logger.Logger
	level gormlogger.LogLevel
}

// NewGormLogger adapts l for use as gorm.Config.Logger.
func NewGormLogger(l logger.Logger) gormlogger.Interface {
	return &gormLog{log: l, level: gormlogger.Warn}
}

func (g *gormLog) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *gormLog) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLog) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLog) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.Error(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLog) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.log.Error(ctx, "query failed", logger.String("sql", sql), logger.Int64("rows", rows),
			logger.Duration("elapsed", elapsed), logger.Error(err))
	case elapsed > slowQueryThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.log.Warn(ctx, "slow query", logger.String("sql", sql), logger.Int64("rows", rows),
			logger.Duration("elapsed", elapsed))
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.log.Debug(ctx, "query", logger.String("sql", sql), logger.Int64("rows", rows),
			logger.Duration("elapsed", elapsed))
	}
}
