package log

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// logFilter decides per module whether an entry reaches the console, and
// copies every entry to the file writer when one is set.
type logFilter struct {
	formatter logrus.Formatter

	lock         sync.Mutex
	defaultLevel Level
	moduleLevels map[string]Level
	fileWriter   io.Writer
}

func newLogFilter(formatter logrus.Formatter) *logFilter {
	return &logFilter{
		formatter:    formatter,
		defaultLevel: TraceLevel,
		moduleLevels: map[string]Level{},
	}
}

func moduleOf(e *logrus.Entry) string {
	if v, ok := e.Data[FieldKeyModule]; ok {
		s, _ := v.(string)
		return s
	}
	if e.HasCaller() {
		return packageOf(e.Caller.Function)
	}
	return ""
}

// target returns the console level for the module of e and the file
// writer.
func (f *logFilter) target(e *logrus.Entry) (Level, io.Writer) {
	module := moduleOf(e)

	f.lock.Lock()
	defer f.lock.Unlock()
	if lv, ok := f.moduleLevels[module]; ok && module != "" {
		return lv, f.fileWriter
	}
	return f.defaultLevel, f.fileWriter
}

func (f *logFilter) Format(e *logrus.Entry) ([]byte, error) {
	level, fw := f.target(e)
	console := e.Level <= logrus.Level(level)
	if !console && fw == nil {
		return nil, nil
	}
	buf, err := f.formatter.Format(e)
	if err != nil {
		return nil, err
	}
	if fw != nil {
		_, _ = fw.Write(buf)
	}
	if !console {
		return nil, nil
	}
	return buf, nil
}

func (f *logFilter) SetModuleLevel(module string, level Level) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.moduleLevels[module] = level
}

func (f *logFilter) SetDefaultLevel(level Level) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.defaultLevel = level
}

func (f *logFilter) SetFileWriter(w io.Writer) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.fileWriter = w
}
