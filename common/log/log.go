// Package log is the wallet's logrus setup. Entries carry the wallet
// address, network and module as fields, and each module may have its
// own console level.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const LogTimeLayout = "15:04:05.000000"

type Level int

const (
	PanicLevel = Level(logrus.PanicLevel)
	FatalLevel = Level(logrus.FatalLevel)
	ErrorLevel = Level(logrus.ErrorLevel)
	WarnLevel  = Level(logrus.WarnLevel)
	InfoLevel  = Level(logrus.InfoLevel)
	DebugLevel = Level(logrus.DebugLevel)
	TraceLevel = Level(logrus.TraceLevel)
)

var levelStrings = [...]string{"panic", "fatal", "error", "warn", "info", "debug", "trace"}

func (l Level) String() string {
	if l < PanicLevel || int(l) >= len(levelStrings) {
		return "unknown"
	}
	return levelStrings[l]
}

// ParseLevel accepts the names returned by Level.String.
func ParseLevel(s string) (Level, error) {
	lv, err := logrus.ParseLevel(s)
	if err != nil {
		return InfoLevel, err
	}
	return Level(lv), nil
}

const (
	FieldKeyWallet  = "wallet"
	FieldKeyModule  = "module"
	FieldKeyNetwork = "network"
)

// systemFields are printed in fixed columns rather than as key=value.
var systemFields = map[string]bool{
	FieldKeyWallet:  true,
	FieldKeyModule:  true,
	FieldKeyNetwork: true,
}

type Fields logrus.Fields

type Logger interface {
	Trace(args ...interface{})
	Tracef(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Panicf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})

	WithFields(Fields) Logger
	SetConsoleLevel(lv Level)
	SetModuleLevel(mod string, lv Level)
	SetFileWriter(w io.Writer)
	SetOutput(w io.Writer)
}

// logger shares one logrus.Logger and its filter among all the entries
// derived by WithFields.
type logger struct {
	*logrus.Entry
	filter *logFilter
}

func (l *logger) WithFields(fields Fields) Logger {
	return &logger{
		Entry:  l.Entry.WithFields(logrus.Fields(fields)),
		filter: l.filter,
	}
}

func (l *logger) SetConsoleLevel(lv Level) {
	l.filter.SetDefaultLevel(lv)
}

func (l *logger) SetModuleLevel(mod string, lv Level) {
	l.filter.SetModuleLevel(mod, lv)
}

func (l *logger) SetFileWriter(w io.Writer) {
	l.filter.SetFileWriter(w)
}

func (l *logger) SetOutput(w io.Writer) {
	l.Entry.Logger.SetOutput(w)
}

// New returns a Logger writing to stderr. Levels are decided by the
// filter, so the logrus level stays at trace.
func New() Logger {
	filter := newLogFilter(customFormatter{})
	base := logrus.New()
	base.Out = os.Stderr
	base.Level = logrus.TraceLevel
	base.SetReportCaller(true)
	base.SetFormatter(filter)
	return &logger{
		Entry:  logrus.NewEntry(base),
		filter: filter,
	}
}

// packageOf returns the package name of a function name reported by
// runtime, like "wallet" for ".../common/wallet.(*Store).Load".
func packageOf(f string) string {
	if i := strings.LastIndex(f, "/"); i >= 0 {
		f = f[i+1:]
	}
	if i := strings.Index(f, "."); i > 0 {
		f = f[:i]
	}
	return f
}

var globalLogger Logger

var Debugf, Infof, Warnf, Errorf, Panicf, Fatalf func(format string, args ...interface{})
var Warn func(args ...interface{})

type leveled interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Panicf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// SetGlobalLogger makes l the target of the package level functions.
// They are bound to the logrus entry itself, so the caller reported is
// the one calling the package function.
func SetGlobalLogger(l Logger) {
	globalLogger = l

	var target leveled = l
	if lg, ok := l.(*logger); ok {
		target = lg.Entry
	}
	Debugf = target.Debugf
	Infof = target.Infof
	Warn = target.Warn
	Warnf = target.Warnf
	Errorf = target.Errorf
	Panicf = target.Panicf
	Fatalf = target.Fatalf
}

func GlobalLogger() Logger {
	return globalLogger
}

func WithFields(fields Fields) Logger {
	return globalLogger.WithFields(fields)
}

func init() {
	l := New()
	l.SetConsoleLevel(InfoLevel)
	SetGlobalLogger(l)
}
