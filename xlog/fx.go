package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger prints the fx lifecycle events by the XLogger
// under the "fx" component.
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) hook(err error, kind, function, caller string, fields ...zap.Field) {
	fields = append(fields,
		zap.String("function", function),
		zap.String("caller", caller),
	)
	if err != nil {
		l.logger.Error(err, kind+" failed", fields...)
		return
	}
	l.logger.Debug(kind, fields...)
}

func (l *FxXLogger) types(err error, kind string, module string, rtypes []string, stacktrace []string) {
	for _, rtype := range rtypes {
		if module != "" {
			l.logger.Debug(kind, zap.String("rtype", rtype), zap.String("module", module))
		} else {
			l.logger.Debug(kind, zap.String("rtype", rtype))
		}
	}
	if err != nil {
		l.logger.Error(err, kind+" failed", zap.Strings("stacktrace", stacktrace))
	}
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.hook(nil, "HOOK OnStart executing", e.FunctionName, e.CallerName)
	case *fxevent.OnStartExecuted:
		l.hook(e.Err, "HOOK OnStart executed", e.FunctionName, e.CallerName, zap.Duration("in", e.Runtime))
	case *fxevent.OnStopExecuting:
		l.hook(nil, "HOOK OnStop executing", e.FunctionName, e.CallerName)
	case *fxevent.OnStopExecuted:
		l.hook(e.Err, "HOOK OnStop executed", e.FunctionName, e.CallerName, zap.Duration("in", e.Runtime))
	case *fxevent.Supplied:
		l.types(e.Err, "SUPPLY", e.ModuleName, []string{e.TypeName}, e.StackTrace)
	case *fxevent.Provided:
		l.types(e.Err, "PROVIDE", e.ModuleName, e.OutputTypeNames, e.StackTrace)
	case *fxevent.Replaced:
		l.types(e.Err, "REPLACE", e.ModuleName, e.OutputTypeNames, e.StackTrace)
	case *fxevent.Decorated:
		l.types(e.Err, "DECORATE", e.ModuleName, e.OutputTypeNames, e.StackTrace)
	case *fxevent.Invoking:
		l.logger.Debug("INVOKING", zap.String("function", e.FunctionName), zap.String("module", e.ModuleName))
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "INVOKE failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Info("STOPPING", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "STOP failed")
		}
	case *fxevent.RollingBack:
		l.logger.Warn("START failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "ROLLBACK failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "START failed")
		} else {
			l.logger.Debug("RUNNING")
		}
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "LOGGER initialize failed")
		} else {
			l.logger.Debug("LOGGER initialized", zap.String("constructor", e.ConstructorName))
		}
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	if logger == nil {
		return &FxXLogger{}
	}
	return &FxXLogger{logger: logger.Named("fx")}
}
