// Package logx provides siphon's structured, tagged, colorized logger: a
// zerolog logger writing to a colored console plus rotating main/error log
// files via lumberjack.
package logx

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/use-agent/siphon/config"
)

// Tags used on crawl-status log lines, matching the orchestrator's pipeline
// stages.
const (
	TagFetch    = "FETCH"
	TagScrape   = "SCRAPE"
	TagFilter   = "FILTER"
	TagMarkdown = "MARKDOWN"
	TagCache    = "CACHE"
	TagComplete = "COMPLETE"
	TagError    = "ERROR"
)

// Logger wraps a zerolog.Logger with tag-aware crawl-status helpers.
type Logger struct {
	zl zerolog.Logger
}

// New initializes a Logger per cfg: colored console output (if enabled) plus
// a rotating main log and a rotating error-only log under cfg.LogDir.
func New(cfg config.LogConfig) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	mainLog := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "siphon.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	errorLog := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "siphon_error.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	writers := []io.Writer{mainLog, &filteredWriter{w: errorLog, min: zerolog.ErrorLevel}}
	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	return &Logger{zl: zl}, nil
}

// filteredWriter only forwards writes at or above min (used to keep the
// error-only log free of info/debug noise).
type filteredWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (f *filteredWriter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f *filteredWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= f.min {
		return f.w.Write(p)
	}
	return len(p), nil
}

// Status logs a single tagged crawl-status line: tag, url, elapsed, and an
// optional error. The orchestrator logs through Info/Warn/Error and does
// not call it.
func (l *Logger) Status(tag, url string, elapsed time.Duration, err error) {
	ev := l.zl.Info()
	if err != nil {
		ev = l.zl.Error().Err(err)
	}
	ev.Str("tag", tag).Str("url", url).Dur("elapsed", elapsed).Msg(tag)
}

func (l *Logger) Info(msg string, kv ...any)  { l.zl.Info().Fields(kvToMap(kv)).Msg(msg) }
func (l *Logger) Warn(msg string, kv ...any)  { l.zl.Warn().Fields(kvToMap(kv)).Msg(msg) }
func (l *Logger) Debug(msg string, kv ...any) { l.zl.Debug().Fields(kvToMap(kv)).Msg(msg) }
func (l *Logger) Error(err error, msg string, kv ...any) {
	l.zl.Error().Err(err).Fields(kvToMap(kv)).Msg(msg)
}

func kvToMap(kv []any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			m[k] = kv[i+1]
		}
	}
	return m
}
