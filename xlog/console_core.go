package xlog

import (
	"go.uber.org/zap/zapcore"
)

type consoleCoreConfig struct {
	lvlEnabler zapcore.LevelEnabler
	encoder    LogEncoderType
	ws         zapcore.WriteSyncer
	lvlEnc     zapcore.LevelEncoder
	tsEnc      zapcore.TimeEncoder
}

func newConsoleCore(cfg consoleCoreConfig) zapcore.Core {
	config := zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   cfg.lvlEnc,
		TimeKey:       "ts",
		EncodeTime:    cfg.tsEnc,
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   "fn",
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
	return zapcore.NewCore(getEncoderByType(cfg.encoder)(config), cfg.ws, cfg.lvlEnabler)
}
