package pagescope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const DefaultSlowThreshold = 200 * time.Millisecond

// GORMLogger forwards GORM's SQL tracing to a zerolog.Logger, so paginated
// queries and their count statements land in the service log.
type GORMLogger struct {
	logger        zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGORMLogger returns a GORM logger writing to l at the Warn level.
//
// Usage:
//
//	db, err := gorm.Open(dialector, &gorm.Config{Logger: pagescope.NewGORMLogger(log)})
func NewGORMLogger(l zerolog.Logger) *GORMLogger {
	return &GORMLogger{
		logger:        l,
		level:         gormlogger.Warn,
		slowThreshold: DefaultSlowThreshold,
	}
}

// WithSlowThreshold sets the duration above which queries are logged as slow.
func (g *GORMLogger) WithSlowThreshold(d time.Duration) *GORMLogger {
	clone := *g
	clone.slowThreshold = d

	return &clone
}

// LogMode - implements logger.Interface.
func (g *GORMLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level

	return &clone
}

// Info - implements logger.Interface.
func (g *GORMLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Info {
		g.logger.Info().Ctx(ctx).Msg(fmt.Sprintf(msg, args...))
	}
}

// Warn - implements logger.Interface.
func (g *GORMLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Warn {
		g.logger.Warn().Ctx(ctx).Msg(fmt.Sprintf(msg, args...))
	}
}

// Error - implements logger.Interface.
func (g *GORMLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Error {
		g.logger.Error().Ctx(ctx).Msg(fmt.Sprintf(msg, args...))
	}
}

// Trace - implements logger.Interface.
func (g *GORMLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.logger.Error().Ctx(ctx).Err(err).
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("query failed")
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.logger.Warn().Ctx(ctx).
			Dur("elapsed", elapsed).
			Dur("threshold", g.slowThreshold).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("slow query")
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.logger.Debug().Ctx(ctx).
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("query")
	}
}

var _ gormlogger.Interface = (*GORMLogger)(nil)
