package xlog

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxevent"
)

func TestFxXLoggerAllCases(t *testing.T) {
	testcases := []struct {
		name   string
		event  fxevent.Event
		hasErr bool
	}{
		{"onStartExecuting", &fxevent.OnStartExecuting{FunctionName: "f1", CallerName: "c1"}, false},
		{"onStartExecuted_err", &fxevent.OnStartExecuted{FunctionName: "f2", CallerName: "c2", Runtime: 10, Err: errors.New("fx error 1")}, true},
		{"onStopExecuting", &fxevent.OnStopExecuting{FunctionName: "f3", CallerName: "c3"}, false},
		{"onStopExecuted_succ", &fxevent.OnStopExecuted{FunctionName: "f4", CallerName: "c4", Runtime: 12}, false},
		{"supplied_err", &fxevent.Supplied{TypeName: "t1", Err: errors.New("fx error 2"), StackTrace: []string{"s1"}}, true},
		{"supplied_module", &fxevent.Supplied{TypeName: "t2", ModuleName: "m1"}, false},
		{"provided", &fxevent.Provided{ConstructorName: "newTree", OutputTypeNames: []string{"tree.BST[int]"}}, false},
		{"replaced_err", &fxevent.Replaced{OutputTypeNames: []string{"t3"}, Err: errors.New("fx error 3")}, true},
		{"decorated", &fxevent.Decorated{DecoratorName: "d1", OutputTypeNames: []string{"t4"}, ModuleName: "m2"}, false},
		{"invoking", &fxevent.Invoking{FunctionName: "run"}, false},
		{"invoked_err", &fxevent.Invoked{FunctionName: "run", Err: errors.New("fx error 4")}, true},
		{"stopping", &fxevent.Stopping{Signal: syscall.SIGTERM}, false},
		{"stopped_err", &fxevent.Stopped{Err: errors.New("fx error 5")}, true},
		{"rollingBack", &fxevent.RollingBack{StartErr: errors.New("fx error 6")}, false},
		{"rolledBack_err", &fxevent.RolledBack{Err: errors.New("fx error 7")}, true},
		{"started", &fxevent.Started{}, false},
		{"loggerInitialized", &fxevent.LoggerInitialized{ConstructorName: "newLogger"}, false},
	}

	w := &testMemOutWriter{}
	logger := NewFxXLogger(NewXLogger(WithXLoggerOutWriter(w), WithXLoggerLevel(LogLevelDebug)))
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			w.Reset()
			logger.LogEvent(tc.event)
			lines := w.lines(t)
			require.NotEmpty(t, lines)
			last := lines[len(lines)-1]
			require.Equal(t, "fx", last["component"])
			if tc.hasErr {
				require.Equal(t, "ERROR", last["lvl"])
				require.Contains(t, last, "error")
			}
		})
	}
}

func TestFxXLogger_Nil(t *testing.T) {
	var logger *FxXLogger
	require.NotPanics(t, func() {
		logger.LogEvent(&fxevent.Started{})
		NewFxXLogger(nil).LogEvent(&fxevent.Started{})
	})
}
