package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config содержит настройки логгера сервиса.
type Config struct {
	Level       string // debug, info, warn, error
	Encoding    string // json или console; по умолчанию json, в development - console
	OutputPath  string // файл лога, пусто - stdout
	ServiceName string // поле "service" во всех записях
	Environment string // поле "env"; в development добавляется caller
}

const developmentEnv = "development"

// New собирает zap.Logger из ядра с нужным кодировщиком и уровнем.
func New(cfg Config) (*zap.Logger, error) {
	dev := strings.EqualFold(cfg.Environment, developmentEnv)

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = "stdout"
	}
	sink, _, err := zap.Open(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output %q: %w", outputPath, err)
	}

	core := zapcore.NewCore(newEncoder(cfg.Encoding, dev), sink, parseLevel(cfg.Level))

	// Ошибки самого логгера уходят в stderr
	opts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if dev {
		opts = append(opts, zap.AddCaller())
	}

	var fields []zap.Field
	if cfg.ServiceName != "" {
		fields = append(fields, zap.String("service", cfg.ServiceName))
	}
	if cfg.Environment != "" {
		fields = append(fields, zap.String("env", cfg.Environment))
	}
	if len(fields) > 0 {
		opts = append(opts, zap.Fields(fields...))
	}

	return zap.New(core, opts...), nil
}

// parseLevel разбирает уровень; неизвестный уровень превращается в info.
func parseLevel(raw string) zap.AtomicLevel {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return level
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		// Логгер еще не создан, поэтому пишем в stderr
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'. Error: %v\n", raw, err)
		level.SetLevel(zap.InfoLevel)
	}
	return level
}

func newEncoder(encoding string, dev bool) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	encoding = strings.ToLower(strings.TrimSpace(encoding))
	if encoding == "" && dev {
		encoding = "console"
	}
	if encoding == "console" {
		if dev {
			encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

// SessionFields - стандартные поля записи о ходе сессии создания образа.
func SessionFields(userID uuid.UUID, sessionID string) []zap.Field {
	return []zap.Field{
		zap.String("userID", userID.String()),
		zap.String("sessionID", sessionID),
	}
}
