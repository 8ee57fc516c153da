package log

import (
	"bytes"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// customFormatter renders one line per entry.
//
//	L|time|wallet|network|module|file:line message k=v...
//
// The wallet column holds the first six characters of the address.
type customFormatter struct{}

var levelLetters = [...]byte{'P', 'F', 'E', 'W', 'I', 'D', 'T'}

const walletColumn = 6

func column(buf *bytes.Buffer, v interface{}, ok bool, none string) {
	if ok {
		fmt.Fprint(buf, v)
	} else {
		buf.WriteString(none)
	}
	buf.WriteByte('|')
}

func (customFormatter) Format(e *logrus.Entry) ([]byte, error) {
	buf := e.Buffer
	if buf == nil {
		buf = new(bytes.Buffer)
	}
	buf.WriteByte(levelLetters[e.Level])
	buf.WriteByte('|')
	buf.WriteString(e.Time.Format(LogTimeLayout))
	buf.WriteByte('|')

	wallet, ok := e.Data[FieldKeyWallet]
	if ok {
		wallet = (fmt.Sprint(wallet) + strings.Repeat("-", walletColumn))[:walletColumn]
	}
	column(buf, wallet, ok, strings.Repeat("-", walletColumn))
	network, ok := e.Data[FieldKeyNetwork]
	column(buf, network, ok, "-")
	module, ok := e.Data[FieldKeyModule]
	if !ok && e.HasCaller() {
		module, ok = packageOf(e.Caller.Function), true
	}
	column(buf, module, ok, "--")

	if e.HasCaller() {
		fmt.Fprintf(buf, "%s:%d ", path.Base(e.Caller.File), e.Caller.Line)
	}
	buf.WriteString(strings.TrimRight(e.Message, "\n"))

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		if !systemFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, " %s=%v", k, e.Data[k])
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
