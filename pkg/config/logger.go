package config

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelNone   = "none"
	LevelNormal = "normal"
	LevelDebug  = "debug"
)

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func (conf LoggingConfig) Validate() error {
	switch conf.Level {
	case LevelNone, LevelNormal, LevelDebug:
		return nil
	default:
		return fmt.Errorf("config: logging.level must be one of none, normal, debug, got %q", conf.Level)
	}
}

// Prepare returns the console logger writing to stderr.
func (conf LoggingConfig) Prepare() (*zap.Logger, error) {
	return conf.PrepareWriter(os.Stderr)
}

// PrepareWriter returns a console logger writing to w. Level "none" yields a
// no-op logger.
func (conf LoggingConfig) PrepareWriter(w io.Writer) (*zap.Logger, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	var enabler zapcore.LevelEnabler
	switch conf.Level {
	case LevelNone:
		return zap.NewNop(), nil
	case LevelDebug:
		enabler = zapcore.DebugLevel
	default:
		enabler = zapcore.InfoLevel
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.TimeKey = zapcore.OmitKey

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(w)), enabler)
	return zap.New(core), nil
}
