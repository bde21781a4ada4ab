package infra

import (
	"errors"
	"fmt"
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
)

// References:
// https://github.com/pkg/errors/blob/master/stack.go

const (
	unknownFile  = "unknownFile"
	unknownFunc  = "unknownFunc"
	unknownFrame = "unknownFrame"
	maxDepth     = 32
)

type Frame uintptr

// resolve returns the function name, file and line of the frame.
func (frame Frame) resolve() (name, file string, line int) {
	pc := uintptr(frame) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return unknownFunc, unknownFile, 0
	}
	file, line = fn.FileLine(pc)
	return fn.Name(), file, line
}

// Format characters:
// %s - source file
// %d - source line
// %n - function name
// %v - equivalent to %s:%d
// %+s - <function-name>\n\t<full path>
// %+v - equivalent to %+s:%d
func (frame Frame) Format(s fmt.State, verb rune) {
	name, file, line := frame.resolve()
	switch verb {
	case 's':
		if s.Flag('+') {
			_, _ = io.WriteString(s, name)
			_, _ = io.WriteString(s, "\n\t")
			_, _ = io.WriteString(s, file)
			return
		}
		_, _ = io.WriteString(s, path.Base(file))
	case 'd':
		_, _ = io.WriteString(s, strconv.Itoa(line))
	case 'n':
		_, _ = io.WriteString(s, funcName(name))
	case 'v':
		frame.Format(s, 's')
		_, _ = io.WriteString(s, ":")
		frame.Format(s, 'd')
	}
}

func (frame Frame) String() string {
	name, file, line := frame.resolve()
	if name == unknownFunc {
		return unknownFrame
	}
	builder := strings.Builder{}
	_, _ = builder.WriteString(name)
	_, _ = builder.WriteString(" ")
	_, _ = builder.WriteString(file)
	_, _ = builder.WriteString(":")
	_, _ = builder.WriteString(strconv.Itoa(line))
	return builder.String()
}

func (frame Frame) MarshalText() ([]byte, error) {
	return []byte(frame.String()), nil
}

func funcName(name string) string {
	i := strings.LastIndex(name, "/")
	name = name[i+1:]
	i = strings.Index(name, ".")
	return name[i+1:]
}

type stack []Frame

func (st stack) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, frame := range st {
		enc.AppendString(frame.String())
	}
	return nil
}

func callers(skip int) stack {
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	st := make(stack, 0, n)
	for i := 0; i < n; i++ {
		st = append(st, Frame(pcs[i]))
	}
	return st
}

// ErrorStack is an error carrying the call stack where it was created.
// It can be inlined into a zap log entry, so the stack is printed as a
// JSON array instead of the zap plain text stacktrace.
type ErrorStack interface {
	error
	zapcore.ObjectMarshaler
	Unwrap() error
	Stack() []Frame
}

var _ ErrorStack = (*errorStack)(nil)

type errorStack struct {
	upstream error
	msg      string
	frames   stack
}

func (es *errorStack) Error() string {
	if es.upstream == nil {
		return es.msg
	}
	if len(es.msg) == 0 {
		return es.upstream.Error()
	}
	return es.msg + ": " + es.upstream.Error()
}

func (es *errorStack) Unwrap() error {
	return es.upstream
}

func (es *errorStack) Stack() []Frame {
	return es.frames
}

// Format %+v prints the message followed by the stack frames.
func (es *errorStack) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(s, es.Error())
		if s.Flag('+') {
			for _, frame := range es.frames {
				_, _ = io.WriteString(s, "\n")
				frame.Format(s, verb)
			}
		}
	case 's':
		_, _ = io.WriteString(s, es.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", es.Error())
	}
}

func (es *errorStack) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("error", es.Error())
	return enc.AddArray("errorStack", es.frames)
}

func NewErrorStack(msg string) error {
	return &errorStack{
		msg:    msg,
		frames: callers(3),
	}
}

// WrapErrorStack keeps the stack if err is already an ErrorStack.
func WrapErrorStack(err error) error {
	if err == nil {
		return nil
	}
	var es ErrorStack
	if errors.As(err, &es) {
		return err
	}
	return &errorStack{
		upstream: err,
		frames:   callers(3),
	}
}

func WrapErrorStackWithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &errorStack{
		upstream: err,
		msg:      msg,
		frames:   callers(3),
	}
}
