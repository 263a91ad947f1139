// Package logger is the process-wide leveled logger. It keeps the printf-style
// call sites (logger.Info("...%s", v)) on top of a zap core so output can be
// console or json and optionally rotated into a file.
//
// Stdout carries MCP protocol traffic, so logs never go there.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is a logging severity. Trace sits below zap's debug level.
type Level int8

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
	PanicLevel
)

var levelNames = map[Level]string{
	TraceLevel: "trace",
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
	FatalLevel: "fatal",
	PanicLevel: "panic",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", l)
}

// ParseLevel converts a level name (case-insensitive) into a Level.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	for lvl, n := range levelNames {
		if n == name {
			return lvl, nil
		}
	}
	return InfoLevel, fmt.Errorf("invalid log level %q: must be one of trace, debug, info, warn, error, fatal, panic", s)
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case TraceLevel, DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.PanicLevel
	}
}

// Config controls encoding and destinations.
type Config struct {
	Level  string     `yaml:"level"`
	Format string     `yaml:"format"` // console or json
	File   FileConfig `yaml:"file,omitempty"`
}

// FileConfig enables rotated file output when Filename is set.
type FileConfig struct {
	Filename   string `yaml:"filename,omitempty"`
	MaxSize    int    `yaml:"max_size,omitempty"` // megabytes
	MaxAge     int    `yaml:"max_age,omitempty"`  // days
	MaxBackups int    `yaml:"max_backups,omitempty"`
	Compress   bool   `yaml:"compress,omitempty"`
}

// DefaultConfig logs info and above to stderr in console format.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
	}
}

// Validate checks level and format names.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	if c.Format != "console" && c.Format != "json" {
		return fmt.Errorf("invalid log format %q: must be 'console' or 'json'", c.Format)
	}
	if c.File.MaxSize < 0 || c.File.MaxAge < 0 || c.File.MaxBackups < 0 {
		return fmt.Errorf("log file rotation limits must not be negative")
	}
	return nil
}

var (
	mu      sync.RWMutex
	current = InfoLevel
	atom    = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar   = newSugar(DefaultConfig(), zapcore.Lock(os.Stderr))
)

// Init replaces the global logger according to cfg. KBMCP_DEBUG=1 forces at
// least debug level.
func Init(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	if cfg.File.Filename != "" {
		w, err := fileWriter(cfg.File)
		if err != nil {
			return err
		}
		sinks = append(sinks, zapcore.AddSync(w))
	}
	initWith(cfg, zapcore.NewMultiWriteSyncer(sinks...))
	return nil
}

func initWith(cfg Config, ws zapcore.WriteSyncer) {
	lvl, _ := ParseLevel(cfg.Level)
	if os.Getenv("KBMCP_DEBUG") == "1" && lvl > DebugLevel {
		lvl = DebugLevel
	}
	s := newSugar(cfg, ws)

	mu.Lock()
	defer mu.Unlock()
	sugar = s
	current = lvl
	atom.SetLevel(lvl.zapLevel())
}

func newSugar(cfg Config, ws zapcore.WriteSyncer) *zap.SugaredLogger {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, ws, atom)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

func fileWriter(cfg FileConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Filename), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	maxSize := cfg.MaxSize
	if maxSize == 0 {
		maxSize = 10
	}
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    maxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}, nil
}

// SetLevel changes the minimum level without rebuilding the logger.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	current = l
	atom.SetLevel(l.zapLevel())
}

// GetLevel returns the active minimum level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func get() (*zap.SugaredLogger, Level) {
	mu.RLock()
	defer mu.RUnlock()
	return sugar, current
}

// Trace logs only when the level is trace. It is emitted at zap debug level
// with a [TRACE] prefix.
func Trace(format string, args ...any) {
	s, lvl := get()
	if lvl > TraceLevel {
		return
	}
	s.Debugf("[TRACE] "+format, args...)
}

func Debug(format string, args ...any) {
	s, _ := get()
	s.Debugf(format, args...)
}

func Info(format string, args ...any) {
	s, _ := get()
	s.Infof(format, args...)
}

func Warn(format string, args ...any) {
	s, _ := get()
	s.Warnf(format, args...)
}

func Error(format string, args ...any) {
	s, _ := get()
	s.Errorf(format, args...)
}

// Sync flushes buffered entries.
func Sync() error {
	s, _ := get()
	return s.Sync()
}

// StdLog returns a standard library logger that writes at error level, for
// libraries that only accept *log.Logger.
func StdLog() *log.Logger {
	s, _ := get()
	l, err := zap.NewStdLogAt(s.Desugar(), zapcore.ErrorLevel)
	if err != nil {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return l
}
