package mcptools

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shaharia-lab/goai/observability"
	"github.com/sirupsen/logrus"
)

// LoggerConfig holds the configuration for the logrus backed logger
type LoggerConfig struct {
	Level  string    // debug, info, warn, error
	Format string    // text or json
	Output io.Writer // defaults to os.Stderr; stdout carries the MCP protocol
}

// LogrusLogger implements observability.Logger on top of a logrus entry
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger creates a logger writing structured entries to the configured output
func NewLogrusLogger(config LoggerConfig) (*LogrusLogger, error) {
	l := logrus.New()

	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	l.SetOutput(out)

	level := config.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.SetLevel(lvl)

	switch strings.ToLower(config.Format) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", config.Format)
	}

	return &LogrusLogger{entry: logrus.NewEntry(l)}, nil
}

func (l *LogrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *LogrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *LogrusLogger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }
func (l *LogrusLogger) Panicf(format string, args ...interface{}) { l.entry.Panicf(format, args...) }

func (l *LogrusLogger) Debug(args ...interface{}) { l.withKeyValues(args).Debug(args[0:min(1, len(args))]...) }
func (l *LogrusLogger) Info(args ...interface{})  { l.withKeyValues(args).Info(args[0:min(1, len(args))]...) }
func (l *LogrusLogger) Warn(args ...interface{})  { l.withKeyValues(args).Warn(args[0:min(1, len(args))]...) }
func (l *LogrusLogger) Error(args ...interface{}) { l.withKeyValues(args).Error(args[0:min(1, len(args))]...) }
func (l *LogrusLogger) Fatal(args ...interface{}) { l.withKeyValues(args).Fatal(args[0:min(1, len(args))]...) }
func (l *LogrusLogger) Panic(args ...interface{}) { l.withKeyValues(args).Panic(args[0:min(1, len(args))]...) }

func (l *LogrusLogger) WithFields(fields map[string]interface{}) observability.Logger {
	return &LogrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *LogrusLogger) WithContext(ctx context.Context) observability.Logger {
	return &LogrusLogger{entry: l.entry.WithContext(ctx)}
}

func (l *LogrusLogger) WithErr(err error) observability.Logger {
	return &LogrusLogger{entry: l.entry.WithError(err)}
}

// withKeyValues turns the trailing arguments of calls like
// logger.Info("Executing cat command", "files", files) into fields.
func (l *LogrusLogger) withKeyValues(args []interface{}) *logrus.Entry {
	if len(args) < 3 {
		return l.entry
	}
	fields := logrus.Fields{}
	kv := args[1:]
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields[key] = kv[i+1]
	}
	return l.entry.WithFields(fields)
}
